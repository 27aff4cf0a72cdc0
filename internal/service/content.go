package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/autosell-mx/reposting-api/internal/models"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// GeneratePostContent renders the listing text for a vehicle. When a
// custom template is given, its placeholders are substituted from the
// vehicle's fields; a reference to an unknown field falls back to the
// default template instead of failing the caller.
func GeneratePostContent(v *models.Vehicle, template string) string {
	if template != "" {
		if content, ok := renderTemplate(v, template); ok {
			return content
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 ¡Excelente oportunidad! %d %s %s", v.Year, v.Brand, v.Model)

	if v.Color != "" {
		fmt.Fprintf(&b, " en color %s", v.Color)
	}
	if v.Mileage != "" {
		fmt.Fprintf(&b, ", solo %s", v.Mileage)
	}
	if v.Price > 0 {
		fmt.Fprintf(&b, ". Precio especial: %s", FormatPrice(v.Price))
	}
	if v.Location != "" {
		fmt.Fprintf(&b, ". Ubicado en %s", v.Location)
	}

	b.WriteString("\n\n✅ Garantía incluida\n📞 Llámanos hoy mismo\n🔗 Más detalles en nuestro sitio web")

	return b.String()
}

func renderTemplate(v *models.Vehicle, template string) (string, bool) {
	fields := map[string]string{
		"brand":       v.Brand,
		"model":       v.Model,
		"year":        fmt.Sprintf("%d", v.Year),
		"color":       orDefault(v.Color, "N/A"),
		"price":       priceOrConsult(v.Price),
		"mileage":     orDefault(v.Mileage, "N/A"),
		"location":    orDefault(v.Location, "N/A"),
		"description": v.Description,
	}

	ok := true
	content := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		value, known := fields[name]
		if !known {
			ok = false
			return m
		}
		return value
	})

	return content, ok
}

// FormatPrice renders a price as thousands-grouped whole currency
// units, e.g. 250000 -> "$250,000".
func FormatPrice(price float64) string {
	whole := int64(math.Round(price))

	digits := fmt.Sprintf("%d", whole)
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}

func priceOrConsult(price float64) string {
	if price <= 0 {
		return "Consultar"
	}
	return FormatPrice(price)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
