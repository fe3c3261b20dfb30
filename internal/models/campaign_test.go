package models

import "testing"

func TestAppliable(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{CampaignStatusDraft, false},
		{CampaignStatusPublished, true},
		{CampaignStatusInProgress, true},
		{CampaignStatusCompleted, false},
		{CampaignStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			c := Campaign{Status: tt.status}
			if got := c.Appliable(); got != tt.expected {
				t.Errorf("Appliable() for %s = %v, want %v", tt.status, got, tt.expected)
			}
		})
	}
}

func TestIsValidUsageRights(t *testing.T) {
	valid := []string{UsageOrganicOnly, UsagePaidAds3M, UsagePaidAds6M, UsagePaidAds12M, UsagePerpetual}
	for _, r := range valid {
		if !IsValidUsageRights(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}

	invalid := []string{"", "paid_ads", "paid_ads_24m", "ORGANIC_ONLY", "perpetual "}
	for _, r := range invalid {
		if IsValidUsageRights(r) {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestFindCreditPack(t *testing.T) {
	if p := FindCreditPack("starter"); p == nil || p.Credits != 50 {
		t.Fatalf("starter pack lookup failed: %+v", p)
	}
	if p := FindCreditPack("nonexistent"); p != nil {
		t.Fatalf("expected nil for unknown pack, got %+v", p)
	}
}

func TestPayoutDetailsComplete(t *testing.T) {
	full := &PayoutDetails{
		FullName:       "Ana María",
		BankCode:       "1007",
		AccountType:    "ahorros",
		AccountNumber:  "12345678",
		DocumentType:   "CC",
		DocumentNumber: "1020304050",
	}
	if !full.Complete() {
		t.Error("expected complete payout details")
	}

	var nilDetails *PayoutDetails
	if nilDetails.Complete() {
		t.Error("nil details must not be complete")
	}

	missing := *full
	missing.AccountNumber = ""
	if missing.Complete() {
		t.Error("details without account number must not be complete")
	}
}
