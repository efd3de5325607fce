// Package mapping normaliza etiquetas crudas de proveedores y las resuelve contra
// el diccionario de atributos por niveles de confianza (alias, code, nombre, subcadena).
package mapping

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// unitTokens unidades que algunos feeds agregan al final de la etiqueta ("Peso, kg").
var unitTokens = map[string]bool{
	"mm": true, "cm": true, "m": true, "km": true, "in": true, "inch": true, "ft": true,
	"mg": true, "g": true, "kg": true, "t": true, "lb": true, "oz": true,
	"ml": true, "l": true, "m3": true,
	"w": true, "kw": true, "v": true, "a": true, "mah": true, "ah": true,
	"hz": true, "khz": true, "mhz": true, "ghz": true, "db": true, "rpm": true,
	"pcs": true, "pc": true, "uds": true, "ud": true, "%": true, "°c": true,
	"мм": true, "см": true, "м": true, "кг": true, "г": true, "л": true, "мл": true,
	"вт": true, "в": true, "гц": true, "шт": true,
}

var lower = cases.Lower(language.Und)

// Normalize canoniza una etiqueta: NFKC, minúsculas, espacios colapsados y sin
// paréntesis ni unidades al final ("Peso (neto), kg" -> "peso").
func Normalize(label string) string {
	s := norm.NFKC.String(label)
	s = lower.String(s)
	s = strings.Join(strings.Fields(s), " ")
	for {
		before := s
		s = strings.TrimRightFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || r == ':' || r == ',' || r == ';' || r == '.' || r == '-' || r == '/'
		})
		s = stripTrailingGroup(s)
		s = stripTrailingUnit(s)
		if s == before {
			break
		}
	}
	return s
}

// NormalizeCode normaliza el code de un atributo para compararlo con etiquetas ("net_weight" -> "net weight").
func NormalizeCode(code string) string {
	return Normalize(strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(code))
}

func stripTrailingGroup(s string) string {
	if s == "" {
		return s
	}
	var open byte
	switch s[len(s)-1] {
	case ')':
		open = '('
	case ']':
		open = '['
	default:
		return s
	}
	i := strings.LastIndexByte(s, open)
	if i <= 0 {
		return s
	}
	return strings.TrimSpace(s[:i])
}

func stripTrailingUnit(s string) string {
	i := strings.LastIndexAny(s, " ,")
	if i <= 0 {
		return s
	}
	if unitTokens[s[i+1:]] {
		return strings.TrimSpace(s[:i])
	}
	return s
}
