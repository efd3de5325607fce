package readiness_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/readiness"
)

var locales = []string{"es", "en"}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestEvaluate_BloqueosExactos(t *testing.T) {
	v := readiness.Evaluate(readiness.Input{
		CategoryID: "",
		RetailMin:  dec(150),
		Names:      entity.LocalizedText{"en": "Widget"},
		Brand:      "Acme",
		Locales:    locales,
	})

	assert.False(t, v.IsReady)
	assert.Equal(t, []string{readiness.CodeNoCategory, readiness.CodeNoPurchasePrice}, readiness.Codes(v.Blocking))
	// las advertencias se calculan aunque haya bloqueos
	assert.Contains(t, readiness.Codes(v.Warnings), readiness.CodeNoBarcode)
	assert.ElementsMatch(t,
		[]string{readiness.CodeZeroStock, readiness.CodeNoMedia, readiness.CodeNoBarcode, readiness.CodeNoVendorCode},
		readiness.Codes(v.Warnings))
	for _, r := range v.Blocking {
		assert.NotEmpty(t, r.Message.In("es"))
		assert.NotEmpty(t, r.Message.In("en"))
	}
}

func TestEvaluate_ListaParaPublicar(t *testing.T) {
	in := readiness.Input{
		CategoryID:  "cat",
		Names:       entity.LocalizedText{"es": "Taladro"},
		Brand:       "Acme",
		RetailMin:   dec(150),
		PurchaseMin: dec(0),
		Stock:       4,
		MediaCount:  2,
		Barcode:     "7701234567890",
		VendorCode:  "TL-200",
		Locales:     locales,
	}
	v := readiness.Evaluate(in)
	assert.True(t, v.IsReady)
	assert.Empty(t, v.Blocking)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, 100, v.QualityScore)
	assert.Equal(t, v, readiness.Evaluate(in), "mismo estado, mismo veredicto")
}

func TestEvaluate_NombreSoloEnLocaleNoSoportado(t *testing.T) {
	v := readiness.Evaluate(readiness.Input{
		Names:   entity.LocalizedText{"ru": "Дрель", "es": "  "},
		Locales: locales,
	})
	assert.Contains(t, readiness.Codes(v.Blocking), readiness.CodeNoName)
	assert.Equal(t, 0, v.QualityScore)
}

func TestEvaluate_AdvertenciasNoBloquean(t *testing.T) {
	v := readiness.Evaluate(readiness.Input{
		CategoryID:  "cat",
		Names:       entity.LocalizedText{"es": "Taladro"},
		Brand:       "Acme",
		RetailMin:   dec(10),
		PurchaseMin: dec(5),
		Locales:     locales,
	})
	assert.True(t, v.IsReady)
	assert.Len(t, v.Warnings, 4)
	assert.Equal(t, 56, v.QualityScore)
}
