package ai

import (
	"strings"
	"testing"
)

func TestFillPrompt(t *testing.T) {
	filled := FillPrompt(AnalyzeProductPrompt, map[string]string{
		"title":       "Serum Facial Vitamina C",
		"description": "Ilumina el tono",
		"type":        "Skincare",
		"price":       "89900",
		"tags":        "serum, vitamina-c",
	})

	if strings.Contains(filled, "{title}") || strings.Contains(filled, "{tags}") {
		t.Fatal("placeholders left unfilled")
	}
	if !strings.Contains(filled, "Serum Facial Vitamina C") {
		t.Error("title not substituted")
	}
}

func TestFillPromptEmptyValue(t *testing.T) {
	filled := FillPrompt("Descripción: {description}", map[string]string{"description": ""})
	if !strings.Contains(filled, "No disponible") {
		t.Errorf("empty value should render as fallback, got %q", filled)
	}
}

func TestFillPromptRepeatedPlaceholder(t *testing.T) {
	filled := FillPrompt("{x} y {x}", map[string]string{"x": "a"})
	if filled != "a y a" {
		t.Errorf("got %q, want %q", filled, "a y a")
	}
}

func TestParseJSONAnalysis(t *testing.T) {
	completion := `{
		"category": "skincare",
		"target_audience": "mujeres 25-40 interesadas en cuidado facial",
		"key_benefits": ["ilumina", "hidrata", "unifica el tono"],
		"ugc_angles": ["rutina de mañana", "antes/después"],
		"content_recommendations": ["luz natural", "mostrar textura"]
	}`

	var got ProductAnalysis
	if err := ParseJSON(completion, &got); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.Category != "skincare" {
		t.Errorf("Category = %q", got.Category)
	}
	if len(got.KeyBenefits) != 3 {
		t.Errorf("KeyBenefits = %v", got.KeyBenefits)
	}
}

func TestParseJSONStripsMarkdownFence(t *testing.T) {
	completion := "```json\n{\"angles\":[{\"title\":\"Unboxing real\",\"description\":\"d\",\"hook\":\"h\",\"format\":\"Unboxing\"}]}\n```"

	var got AnglesResult
	if err := ParseJSON(completion, &got); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(got.Angles) != 1 || got.Angles[0].Title != "Unboxing real" {
		t.Errorf("Angles = %+v", got.Angles)
	}
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	var got Script
	for _, completion := range []string{
		"Claro, aquí está tu guión:",
		"",
		"{\"hook\": unterminated",
	} {
		if err := ParseJSON(completion, &got); err == nil {
			t.Errorf("ParseJSON(%q) succeeded, want error", completion)
		}
	}
}
