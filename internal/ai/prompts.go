package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt templates are Spanish on purpose: the creators and brands on the
// platform work in Spanish and the generated copy ships to them verbatim.

const AnalyzeProductPrompt = `Eres un experto en UGC (User Generated Content) y marketing digital para ecommerce en LATAM.

Analiza el siguiente producto y devuelve un JSON con:
- category: categoría del producto (1 palabra)
- target_audience: audiencia objetivo (1 frase corta)
- key_benefits: array de 3-5 beneficios clave del producto
- ugc_angles: array de 3-5 ángulos de contenido UGC recomendados
- content_recommendations: array de 3-5 recomendaciones específicas para el contenido

Producto:
Título: {title}
Descripción: {description}
Tipo: {type}
Precio: {price}
Tags: {tags}

Responde SOLO con JSON válido, sin markdown ni texto adicional.`

const GenerateAnglesPrompt = `Eres un director creativo experto en UGC y contenido para redes sociales en LATAM.

Genera ángulos creativos para una campaña de contenido UGC con estas características:
- Producto: {product_title}
- Descripción: {product_description}
- Objetivo: {objective}
- Tipo de contenido: {content_type}
- Audiencia: {target_audience}

Para cada ángulo incluye:
- title: nombre del ángulo (corto, catchy)
- description: descripción de qué se trata (2-3 líneas)
- hook: el gancho inicial del video/contenido (la primera frase que engancha)
- format: formato recomendado (ej: "Unboxing", "Review honesta", "Get ready with me", "Tutorial", "Antes/después", etc.)

Genera 5 ángulos variados. Responde SOLO con JSON válido: { "angles": [...] }`

const GenerateScriptPrompt = `Eres un guionista experto en contenido UGC viral para LATAM.

Escribe un guión completo para un video UGC con estas características:
- Producto: {product_title}
- Ángulo: {angle_title}
- Hook: {hook}
- Formato: {format}
- Duración objetivo: {duration} segundos
- Plataforma: {platform}

El guión debe incluir:
- Hook (primeros 3 segundos): la frase que detiene el scroll
- Desarrollo: el cuerpo del contenido
- CTA: llamada a la acción al final
- Notas de producción: indicaciones visuales para el creador

Usa un tono natural, colombiano, auténtico. No uses lenguaje corporativo.
Responde SOLO con JSON: { "hook": "...", "body": "...", "cta": "...", "production_notes": "...", "estimated_duration": number }`

// FillPrompt substitutes {key} placeholders. Empty values become
// "No disponible" so the model never sees a dangling placeholder.
func FillPrompt(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		if value == "" {
			value = "No disponible"
		}
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}

type ProductAnalysis struct {
	Category               string   `json:"category"`
	TargetAudience         string   `json:"target_audience"`
	KeyBenefits            []string `json:"key_benefits"`
	UGCAngles              []string `json:"ugc_angles"`
	ContentRecommendations []string `json:"content_recommendations"`
}

type Angle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hook        string `json:"hook"`
	Format      string `json:"format"`
}

type AnglesResult struct {
	Angles []Angle `json:"angles"`
}

type Script struct {
	Hook              string `json:"hook"`
	Body              string `json:"body"`
	CTA               string `json:"cta"`
	ProductionNotes   string `json:"production_notes"`
	EstimatedDuration int    `json:"estimated_duration"`
}

// ParseJSON decodes a model completion into out. Models occasionally wrap
// the payload in a markdown fence despite instructions, so fences are
// stripped before decoding. Anything else malformed is an error; the caller
// refunds credits on failure rather than storing garbage.
func ParseJSON(completion string, out any) error {
	text := strings.TrimSpace(completion)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}
