package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/mapping"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Peso   Neto ":         "peso neto",
		"Weight (kg)":            "weight",
		"Вес, кг":                "вес",
		"Potencia [W]":           "potencia",
		"Color:":                 "color",
		"Longitud del cable, m":  "longitud del cable",
		"ＰＥＳＯ":                   "peso",
		"Capacidad (útil) (ml)": "capacidad",
	}
	for in, want := range cases {
		assert.Equal(t, want, mapping.Normalize(in), in)
	}
}

func index() *mapping.Index {
	attrs := []*entity.AttributeDefinition{
		{ID: "a-weight", Code: "net_weight", Names: entity.LocalizedText{"es": "Peso neto", "en": "Net weight"}},
		{ID: "a-color", Code: "color", Names: entity.LocalizedText{"es": "Color", "en": "Colour"}},
		{ID: "a-power", Code: "power", Names: entity.LocalizedText{"es": "Potencia"}},
	}
	aliases := []*entity.AliasEntry{
		{NormalizedLabel: "цвет", AttributeID: "a-color", Confidence: 1},
		{NormalizedLabel: "masa", SupplierID: "sup-1", AttributeID: "a-weight", Confidence: 1},
		{NormalizedLabel: "garantia", Ignored: true},
	}
	return mapping.NewIndex(attrs, aliases)
}

func TestMatch_NivelesDeConfianza(t *testing.T) {
	ix := index()

	r := ix.Match("Цвет", "sup-9")
	assert.Equal(t, mapping.MatchAlias, r.Kind)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, "a-color", r.AttributeID)

	r = ix.Match("NET_WEIGHT", "sup-9")
	assert.Equal(t, mapping.MatchCode, r.Kind)
	assert.Equal(t, 0.95, r.Confidence)
	assert.Equal(t, "a-weight", r.AttributeID)

	r = ix.Match("Potencia (W)", "sup-9")
	assert.Equal(t, mapping.MatchName, r.Kind)
	assert.Equal(t, 0.9, r.Confidence)
	assert.Equal(t, "a-power", r.AttributeID)

	r = ix.Match("Potencia máxima", "sup-9")
	assert.Equal(t, mapping.MatchSubstring, r.Kind)
	assert.Equal(t, 0.7, r.Confidence)
	assert.Equal(t, "a-power", r.AttributeID)

	r = ix.Match("Garantía extendida", "sup-9")
	assert.False(t, r.Found())
	assert.Equal(t, mapping.MatchNone, r.Kind)
}

func TestMatch_AliasPorProveedor(t *testing.T) {
	ix := index()
	assert.True(t, ix.Match("Masa", "sup-1").Found())
	assert.False(t, ix.Match("Masa", "sup-2").Found(), "el alias de sup-1 no aplica a otros proveedores")
}

func TestMatch_AliasIgnorado(t *testing.T) {
	ix := index()
	r := ix.Match("Garantia", "sup-1")
	assert.True(t, r.Ignored)
	assert.False(t, r.Found())
}
