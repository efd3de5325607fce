// Package readiness calcula si una entrada del catálogo está lista para publicarse.
package readiness

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Códigos de bloqueo.
const (
	CodeNoCategory      = "no_category"
	CodeNoRetailPrice   = "no_retail_price"
	CodeNoPurchasePrice = "no_purchase_price"
	CodeNoName          = "no_name"
	CodeNoBrand         = "no_brand"
)

// Códigos de advertencia.
const (
	CodeZeroStock    = "zero_stock"
	CodeNoMedia      = "no_media"
	CodeNoBarcode    = "no_barcode"
	CodeNoVendorCode = "no_vendor_code"
)

type rule struct {
	code  string
	es    string
	en    string
	fails func(Input) bool
}

var blockingRules = []rule{
	{CodeNoCategory, "Sin categoría", "No category", func(in Input) bool { return in.CategoryID == "" }},
	{CodeNoRetailPrice, "Sin precio de venta", "No retail price", func(in Input) bool { return in.RetailMin == nil }},
	{CodeNoPurchasePrice, "Sin precio de compra", "No purchase price", func(in Input) bool { return in.PurchaseMin == nil }},
	{CodeNoName, "Sin nombre en ningún idioma soportado", "No name in any supported locale", func(in Input) bool { return !in.Names.HasAny(in.Locales) }},
	{CodeNoBrand, "Sin marca", "No brand", func(in Input) bool { return in.Brand == "" }},
}

var warningRules = []rule{
	{CodeZeroStock, "Stock agregado en cero", "Aggregated stock is zero", func(in Input) bool { return in.Stock <= 0 }},
	{CodeNoMedia, "Sin imágenes", "No media", func(in Input) bool { return in.MediaCount == 0 }},
	{CodeNoBarcode, "Sin código de barras", "No barcode", func(in Input) bool { return in.Barcode == "" }},
	{CodeNoVendorCode, "Sin código de fabricante", "No vendor code", func(in Input) bool { return in.VendorCode == "" }},
}

// Input estado resuelto de la entrada que leen las reglas.
type Input struct {
	CategoryID  string
	Names       entity.LocalizedText
	Brand       string
	RetailMin   *decimal.Decimal
	PurchaseMin *decimal.Decimal
	Stock       int64
	MediaCount  int
	Barcode     string
	VendorCode  string
	Locales     []string
}

// Verdict veredicto de publicabilidad.
type Verdict struct {
	IsReady      bool
	Blocking     []entity.Reason
	Warnings     []entity.Reason
	QualityScore int
}

// Evaluate aplica las reglas de bloqueo y de advertencia en orden fijo.
// Ambas listas se calculan siempre, con independencia del resultado de la otra.
func Evaluate(in Input) Verdict {
	v := Verdict{Blocking: []entity.Reason{}, Warnings: []entity.Reason{}}
	passed := 0
	for _, r := range blockingRules {
		if r.fails(in) {
			v.Blocking = append(v.Blocking, r.reason())
		} else {
			passed++
		}
	}
	for _, r := range warningRules {
		if r.fails(in) {
			v.Warnings = append(v.Warnings, r.reason())
		} else {
			passed++
		}
	}
	v.IsReady = len(v.Blocking) == 0
	total := len(blockingRules) + len(warningRules)
	v.QualityScore = int(math.Round(float64(passed) * 100 / float64(total)))
	return v
}

func (r rule) reason() entity.Reason {
	return entity.Reason{Code: r.code, Message: entity.LocalizedText{"es": r.es, "en": r.en}}
}

// Codes códigos de una lista de motivos.
func Codes(reasons []entity.Reason) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, r.Code)
	}
	return out
}
