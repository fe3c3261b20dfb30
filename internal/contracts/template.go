package contracts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ugc-marketplace/backend/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usageRightsLabels = map[string]string{
	models.UsageOrganicOnly: "Uso orgánico únicamente (sin pauta pagada)",
	models.UsagePaidAds3M:   "Uso en pauta pagada por 3 meses",
	models.UsagePaidAds6M:   "Uso en pauta pagada por 6 meses",
	models.UsagePaidAds12M:  "Uso en pauta pagada por 12 meses",
	models.UsagePerpetual:   "Derechos perpetuos (todos los usos)",
}

var usageMonths = map[string]int{
	models.UsagePaidAds3M:  3,
	models.UsagePaidAds6M:  6,
	models.UsagePaidAds12M: 12,
}

// UsageMonths returns the duration in months for a time-boxed tier, or nil
// for organic-only and perpetual tiers.
func UsageMonths(rights string) *int {
	if m, ok := usageMonths[rights]; ok {
		return &m
	}
	return nil
}

// Input is everything the rights-assignment document embeds. Rendering is a
// pure function of this struct so the hash is reproducible.
type Input struct {
	BrandName       string
	BrandNIT        string
	CreatorName     string
	CreatorDocument string
	CampaignTitle   string
	Description     string
	UsageRights     string
	GrossAmount     int64
	PlatformFee     int64
	CreatorAmount   int64
	DeliverableID   string
	Date            string
}

var copPrinter = message.NewPrinter(language.Spanish)

func formatCOP(n int64) string {
	return copPrinter.Sprintf("$ %d COP", n)
}

// Render produces the contract document and its SHA-256 hex digest. The
// digest is computed over the exact returned HTML; callers must persist both
// together and verify against the stored copy, never a re-render.
func Render(in Input) (html string, hash string) {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n<head>\n<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>Contrato de Cesión de Derechos - UGC Marketplace</title>\n</head>\n<body>\n")
	b.WriteString("<h1>CONTRATO DE CESIÓN DE DERECHOS DE CONTENIDO</h1>\n")
	b.WriteString("<p>Contrato electrónico - Ley 527 de 1999 (Colombia)</p>\n")

	b.WriteString("<div class=\"parties\">\n")
	fmt.Fprintf(&b, "<p><strong>LA MARCA (Cesionario):</strong> %s", in.BrandName)
	if in.BrandNIT != "" {
		fmt.Fprintf(&b, " - NIT: %s", in.BrandNIT)
	}
	b.WriteString("</p>\n")
	fmt.Fprintf(&b, "<p><strong>EL CREADOR (Cedente):</strong> %s", in.CreatorName)
	if in.CreatorDocument != "" {
		fmt.Fprintf(&b, " - Doc: %s", in.CreatorDocument)
	}
	b.WriteString("</p>\n")
	fmt.Fprintf(&b, "<p><strong>Fecha:</strong> %s</p>\n", in.Date)
	fmt.Fprintf(&b, "<p><strong>Referencia:</strong> %s</p>\n", in.DeliverableID)
	b.WriteString("</div>\n")

	b.WriteString("<h2>1. OBJETO DEL CONTRATO</h2>\n")
	fmt.Fprintf(&b, "<p>El Creador cede a la Marca los derechos de uso sobre el contenido generado en el marco de la campaña \"<strong>%s</strong>\".</p>\n", in.CampaignTitle)
	fmt.Fprintf(&b, "<p><strong>Descripción del contenido:</strong> %s</p>\n", in.Description)

	b.WriteString("<h2>2. ALCANCE DE LA CESIÓN</h2>\n")
	fmt.Fprintf(&b, "<p><strong>%s</strong></p>\n", usageRightsLabels[in.UsageRights])
	if m := UsageMonths(in.UsageRights); m != nil {
		fmt.Fprintf(&b, "<p>Vigencia: %d meses a partir de la fecha de firma.</p>\n", *m)
	}
	b.WriteString("<p>La Marca podrá utilizar el contenido en sus redes sociales, sitio web, y materiales de marketing digital")
	if in.UsageRights != models.UsageOrganicOnly {
		b.WriteString(", incluyendo pauta pagada en plataformas digitales")
	}
	b.WriteString(".</p>\n")

	b.WriteString("<h2>3. CONTRAPRESTACIÓN</h2>\n")
	fmt.Fprintf(&b, "<p>Monto total: %s</p>\n", formatCOP(in.GrossAmount))
	fmt.Fprintf(&b, "<p>Comisión plataforma: %s</p>\n", formatCOP(in.PlatformFee))
	fmt.Fprintf(&b, "<p>Monto para el creador: <strong>%s</strong></p>\n", formatCOP(in.CreatorAmount))
	b.WriteString("<p>Todos los montos + IVA (19%) cuando aplique.</p>\n")

	b.WriteString("<h2>4. DERECHOS MORALES</h2>\n")
	b.WriteString("<p>De conformidad con la Ley 23 de 1982, los derechos morales del creador son inalienables e irrenunciables. La Marca se compromete a dar crédito al creador cuando sea razonablemente posible.</p>\n")

	b.WriteString("<h2>5. GARANTÍAS</h2>\n")
	b.WriteString("<p>El Creador garantiza que: (a) es el autor original del contenido; (b) el contenido no infringe derechos de terceros; (c) no ha cedido previamente los mismos derechos a terceros.</p>\n")

	b.WriteString("<h2>6. LEY APLICABLE</h2>\n")
	b.WriteString("<p>Este contrato se rige por las leyes de la República de Colombia. Para la resolución de controversias, las partes acuerdan someterse a la jurisdicción de los tribunales de Bogotá, Colombia.</p>\n")

	b.WriteString("<h2>7. PROTECCIÓN DE DATOS</h2>\n")
	b.WriteString("<p>Las partes se comprometen a cumplir con la Ley 1581 de 2012 (Habeas Data) en el tratamiento de datos personales.</p>\n")

	b.WriteString("<div class=\"signatures\">\n")
	fmt.Fprintf(&b, "<div class=\"signature-block\"><p><strong>LA MARCA</strong></p><p>%s</p><p id=\"brand-signature\"></p></div>\n", in.BrandName)
	fmt.Fprintf(&b, "<div class=\"signature-block\"><p><strong>EL CREADOR</strong></p><p>%s</p><p id=\"creator-signature\"></p></div>\n", in.CreatorName)
	b.WriteString("</div>\n")

	b.WriteString("<div class=\"footer\"><p>Documento generado electrónicamente por UGC Marketplace</p><p>Válido como contrato electrónico según Ley 527 de 1999</p></div>\n")
	b.WriteString("</body>\n</html>\n")

	html = b.String()
	return html, HashHTML(html)
}

// HashHTML returns the SHA-256 hex digest of the document.
func HashHTML(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the stored hash matches the stored document.
func Verify(html, storedHash string) bool {
	return HashHTML(html) == storedHash
}
