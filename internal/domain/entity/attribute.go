package entity

import (
	"strings"
	"time"
)

// Procedencia de una definición de atributo.
const (
	ProvenanceManual = "manual"
	ProvenanceInbox  = "inbox"
	ProvenanceImport = "import"
)

// LocalizedText textos por locale (es, en, ...).
type LocalizedText map[string]string

// In devuelve el texto para el locale o vacío.
func (t LocalizedText) In(locale string) string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t[locale])
}

// First devuelve el primer texto no vacío siguiendo el orden de locales.
func (t LocalizedText) First(locales []string) string {
	for _, l := range locales {
		if s := t.In(l); s != "" {
			return s
		}
	}
	return ""
}

// HasAny indica si existe texto en al menos uno de los locales soportados.
func (t LocalizedText) HasAny(locales []string) bool {
	return t.First(locales) != ""
}

// Clone copia el mapa para no compartir estado entre entidades.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// AttributeDefinition atributo global del diccionario. Code es la identidad inmutable.
type AttributeDefinition struct {
	ID          string
	Code        string
	Names       LocalizedText
	ValueType   ValueType
	UnitKind    string   // length, weight, volume... vacío si no aplica
	DefaultUnit string   // mm, kg, l...
	EnumOptions []string // solo para ValueTypeEnum
	Provenance  string
	NeedsReview bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName nombre en el locale pedido, o el code si no hay traducción.
func (a *AttributeDefinition) DisplayName(locale string) string {
	if s := a.Names.In(locale); s != "" {
		return s
	}
	return a.Code
}
