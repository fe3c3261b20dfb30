package shopify

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ugc-marketplace/backend/internal/models"
)

// MapProduct converts a Shopify API product into our catalog shape:
// price range across variants, comma-split tags, and the HTML description
// reduced to plain text for AI prompting and search.
func MapProduct(p Product) models.Product {
	out := models.Product{
		ShopifyProductID: strconv.FormatInt(p.ID, 10),
		Title:            p.Title,
		Status:           p.Status,
		Tags:             SplitTags(p.Tags),
	}

	out.PriceMin, out.PriceMax = PriceRange(p.Variants)

	for _, img := range p.Images {
		if img.Src != "" {
			out.ImageURLs = append(out.ImageURLs, img.Src)
		}
	}

	if desc := CleanDescription(p.BodyHTML); desc != "" {
		out.Description = &desc
	}
	if p.ProductType != "" {
		pt := p.ProductType
		out.ProductType = &pt
	}
	if p.Vendor != "" {
		v := p.Vendor
		out.Vendor = &v
	}

	return out
}

// PriceRange returns the min and max variant price. Unparseable prices are
// skipped; a product with no usable variants gets a zero range.
func PriceRange(variants []Variant) (min, max float64) {
	first := true
	for _, v := range variants {
		price, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
		if err != nil {
			continue
		}
		if first {
			min, max = price, price
			first = false
			continue
		}
		if price < min {
			min = price
		}
		if price > max {
			max = price
		}
	}
	return min, max
}

// SplitTags splits Shopify's comma-joined tag string into trimmed,
// non-empty tags.
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CleanDescription strips the markup from a body_html description and
// collapses whitespace, leaving prose suitable for prompts.
func CleanDescription(bodyHTML string) string {
	if strings.TrimSpace(bodyHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return strings.TrimSpace(bodyHTML)
	}

	doc.Find("script, style").Remove()

	var b strings.Builder
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(text)
		}
	})

	return strings.Join(strings.Fields(b.String()), " ")
}
