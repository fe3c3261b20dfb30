package shopify

import (
	"reflect"
	"testing"
)

func TestPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		variants []Variant
		wantMin  float64
		wantMax  float64
	}{
		{"single", []Variant{{Price: "89900"}}, 89900, 89900},
		{"spread", []Variant{{Price: "45000"}, {Price: "129900.50"}, {Price: "78000"}}, 45000, 129900.50},
		{"skips garbage", []Variant{{Price: "n/a"}, {Price: "15000"}}, 15000, 15000},
		{"all garbage", []Variant{{Price: ""}, {Price: "free"}}, 0, 0},
		{"empty", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := PriceRange(tt.variants)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("PriceRange = (%v, %v), want (%v, %v)", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"skincare, serum, facial", []string{"skincare", "serum", "facial"}},
		{"uno", []string{"uno"}},
		{"  a ,, b  ,", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitTags(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTags(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"strips tags",
			"<p>Serum facial con <strong>vitamina C</strong>.</p><ul><li>30ml</li></ul>",
			"Serum facial con vitamina C. 30ml",
		},
		{
			"drops scripts",
			"<p>Crema hidratante</p><script>alert(1)</script>",
			"Crema hidratante",
		},
		{
			"collapses whitespace",
			"<div>  Línea   capilar \n natural </div>",
			"Línea capilar natural",
		},
		{"empty", "", ""},
		{"whitespace only", "  \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDescription(tt.input); got != tt.want {
				t.Errorf("CleanDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapProduct(t *testing.T) {
	p := Product{
		ID:          8823451092,
		Title:       "Serum Facial Vitamina C",
		BodyHTML:    "<p>Ilumina y <em>unifica</em> el tono.</p>",
		Vendor:      "Aurora Beauty",
		ProductType: "Skincare",
		Tags:        "serum, vitamina-c",
		Status:      "active",
		Variants:    []Variant{{Price: "89900"}, {Price: "159900"}},
		Images:      []Image{{Src: "https://cdn.shopify.com/a.jpg"}, {Src: ""}},
	}

	got := MapProduct(p)

	if got.ShopifyProductID != "8823451092" {
		t.Errorf("ShopifyProductID = %q", got.ShopifyProductID)
	}
	if got.PriceMin != 89900 || got.PriceMax != 159900 {
		t.Errorf("price range = (%v, %v)", got.PriceMin, got.PriceMax)
	}
	if got.Description == nil || *got.Description != "Ilumina y unifica el tono." {
		t.Errorf("Description = %v", got.Description)
	}
	if len(got.ImageURLs) != 1 || got.ImageURLs[0] != "https://cdn.shopify.com/a.jpg" {
		t.Errorf("ImageURLs = %v", got.ImageURLs)
	}
	if !reflect.DeepEqual(got.Tags, []string{"serum", "vitamina-c"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Vendor == nil || *got.Vendor != "Aurora Beauty" {
		t.Errorf("Vendor = %v", got.Vendor)
	}
}

func TestValidShopDomain(t *testing.T) {
	valid := []string{"aurora-beauty.myshopify.com", "x.myshopify.com"}
	invalid := []string{"", "aurora-beauty.com", "evil.com/aurora.myshopify.com", ".myshopify.com", "shop.myshopify.com.evil.com"}

	for _, s := range valid {
		if !ValidShopDomain(s) {
			t.Errorf("ValidShopDomain(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidShopDomain(s) {
			t.Errorf("ValidShopDomain(%q) = true, want false", s)
		}
	}
}

func TestNextPageInfo(t *testing.T) {
	link := `<https://shop.myshopify.com/admin/api/2024-01/products.json?limit=250&page_info=abc123>; rel="next"`
	if got := nextPageInfo(link); got != "abc123" {
		t.Errorf("nextPageInfo = %q, want %q", got, "abc123")
	}
	if got := nextPageInfo(`<https://x>; rel="previous"`); got != "" {
		t.Errorf("nextPageInfo on previous-only header = %q, want empty", got)
	}
	if got := nextPageInfo(""); got != "" {
		t.Errorf("nextPageInfo on empty header = %q, want empty", got)
	}
}
