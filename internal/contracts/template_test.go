package contracts

import (
	"strings"
	"testing"

	"github.com/ugc-marketplace/backend/internal/models"
)

func sampleInput() Input {
	return Input{
		BrandName:       "Tienda Aurora SAS",
		BrandNIT:        "901.234.567-8",
		CreatorName:     "Valentina Ríos",
		CreatorDocument: "1020456789",
		CampaignTitle:   "Lanzamiento Serum Facial",
		Description:     "3 videos UGC estilo testimonial",
		UsageRights:     models.UsagePaidAds6M,
		GrossAmount:     1150000,
		PlatformFee:     172500,
		CreatorAmount:   977500,
		DeliverableID:   "f3b9e7a2-1c44-4b7e-9a1d-2f6c8e5d0a11",
		Date:            "14 de marzo de 2026",
	}
}

func TestRenderDeterministic(t *testing.T) {
	html1, hash1 := Render(sampleInput())
	html2, hash2 := Render(sampleInput())

	if html1 != html2 {
		t.Fatal("rendering the same input twice produced different documents")
	}
	if hash1 != hash2 {
		t.Fatalf("hash not deterministic: %s vs %s", hash1, hash2)
	}
}

func TestRenderHashMatchesDocument(t *testing.T) {
	html, hash := Render(sampleInput())

	if HashHTML(html) != hash {
		t.Fatal("returned hash does not match HashHTML of the returned document")
	}
	if !Verify(html, hash) {
		t.Fatal("Verify rejected an untampered document")
	}
}

func TestVerifyDetectsSingleCharacterTamper(t *testing.T) {
	html, hash := Render(sampleInput())

	tampered := strings.Replace(html, "977", "978", 1)
	if tampered == html {
		t.Fatal("test setup: replacement had no effect")
	}
	if Verify(tampered, hash) {
		t.Fatal("Verify accepted a tampered document")
	}
}

func TestRenderEmbedsParties(t *testing.T) {
	in := sampleInput()
	html, _ := Render(in)

	for _, want := range []string{in.BrandName, in.CreatorName, in.CampaignTitle, in.DeliverableID} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestUsageMonths(t *testing.T) {
	tests := []struct {
		rights string
		want   *int
	}{
		{models.UsagePaidAds3M, intPtr(3)},
		{models.UsagePaidAds6M, intPtr(6)},
		{models.UsagePaidAds12M, intPtr(12)},
		{models.UsageOrganicOnly, nil},
		{models.UsagePerpetual, nil},
	}

	for _, tt := range tests {
		got := UsageMonths(tt.rights)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("UsageMonths(%q) = %d, want nil", tt.rights, *got)
		case tt.want != nil && got == nil:
			t.Errorf("UsageMonths(%q) = nil, want %d", tt.rights, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("UsageMonths(%q) = %d, want %d", tt.rights, *got, *tt.want)
		}
	}
}

func TestRenderDurationClause(t *testing.T) {
	in := sampleInput()
	in.UsageRights = models.UsagePerpetual
	html, _ := Render(in)
	if strings.Contains(html, "Vigencia:") {
		t.Error("perpetual tier should not carry a duration clause")
	}

	in.UsageRights = models.UsagePaidAds3M
	html, _ = Render(in)
	if !strings.Contains(html, "Vigencia: 3 meses") {
		t.Error("time-boxed tier missing duration clause")
	}
}

func intPtr(n int) *int { return &n }
