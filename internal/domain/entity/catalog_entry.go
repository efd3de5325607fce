package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de recomputación de una entrada (indicador de datos desactualizados).
const (
	RecomputeFresh   = "fresh"
	RecomputePending = "pending"
	RecomputeFailed  = "failed"
)

// Reason motivo de bloqueo o advertencia: código de máquina + mensaje bilingüe.
type Reason struct {
	Code    string
	Message LocalizedText
}

// EntryDerived campos derivados de una entrada. Son caché: se reproducen
// ejecutando resolución, agregación y evaluación sobre las filas fuente.
type EntryDerived struct {
	Names      LocalizedText
	Brand      string
	CategoryID string
	Barcode    string
	VendorCode string
	MediaCount int

	Stock       int64
	RetailMin   *decimal.Decimal // nil = sin precio (distinto de cero)
	RetailMax   *decimal.Decimal
	PurchaseMin *decimal.Decimal

	PreferredSupplierEntityID string

	IsReady      bool
	Blocking     []Reason
	Warnings     []Reason
	QualityScore int
}

// Equal compara dos estados derivados campo a campo.
func (d EntryDerived) Equal(o EntryDerived) bool {
	if d.Brand != o.Brand || d.CategoryID != o.CategoryID || d.Barcode != o.Barcode ||
		d.VendorCode != o.VendorCode || d.MediaCount != o.MediaCount || d.Stock != o.Stock ||
		d.PreferredSupplierEntityID != o.PreferredSupplierEntityID || d.IsReady != o.IsReady ||
		d.QualityScore != o.QualityScore {
		return false
	}
	if !equalText(d.Names, o.Names) {
		return false
	}
	if !equalDecPtr(d.RetailMin, o.RetailMin) || !equalDecPtr(d.RetailMax, o.RetailMax) || !equalDecPtr(d.PurchaseMin, o.PurchaseMin) {
		return false
	}
	return equalReasons(d.Blocking, o.Blocking) && equalReasons(d.Warnings, o.Warnings)
}

// CatalogEntry entrada canónica del catálogo (SKU interno). Nunca se fusiona
// automáticamente con otra entrada.
type CatalogEntry struct {
	ID string

	// Valores fijados por el operador; tienen prioridad sobre los del vínculo primario.
	ManualNames      LocalizedText
	ManualBrand      string
	ManualCategoryID string

	Derived EntryDerived

	RecomputeStatus string
	// StatusVersion sube con cada cambio externo del indicador (marca pending o failed).
	StatusVersion int64
	LastError     string
	ComputedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func equalText(a, b LocalizedText) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func equalDecPtr(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalReasons(a, b []Reason) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Code != b[i].Code || !equalText(a[i].Message, b[i].Message) {
			return false
		}
	}
	return true
}
