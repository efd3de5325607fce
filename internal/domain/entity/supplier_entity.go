package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierEntity vista de un producto según un proveedor. La escribe el colaborador
// de importación; el núcleo solo la lee.
type SupplierEntity struct {
	ID            string
	SupplierID    string
	ExternalID    string // id del producto en el feed del proveedor
	CategoryID    string // categoría interna ya mapeada por el importador (opcional)
	Names         LocalizedText
	Brand         string
	PrimaryCode   string // código de barras / EAN
	SecondaryCode string // código de fabricante / vendor code
	Media         []string
	Stock         int64
	RawAttributes map[string]string // etiqueta cruda -> valor crudo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clasificaciones de precio relevantes para el agregador. El importador puede enviar otras.
const (
	PriceRetail   = "retail"
	PricePurchase = "purchase"
)

// PriceRecord precio de una entidad de proveedor, clave (SupplierEntityID, Classification).
type PriceRecord struct {
	SupplierEntityID string
	Classification   string
	Value            decimal.Decimal
	Currency         string
	UpdatedAt        time.Time
}
