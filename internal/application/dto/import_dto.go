package dto

import "github.com/shopspring/decimal"

// PriceInput precio de una entidad por clasificación (retail, purchase u otra).
type PriceInput struct {
	Classification string          `json:"classification" validate:"required"`
	Value          decimal.Decimal `json:"value"`
	Currency       string          `json:"currency"`
}

// ImportEntityRequest registro de proveedor ya deserializado por el importador.
type ImportEntityRequest struct {
	SupplierID    string            `json:"supplier_id" validate:"required"`
	ExternalID    string            `json:"external_id" validate:"required"`
	CategoryID    string            `json:"category_id"`
	Names         map[string]string `json:"names"`
	Brand         string            `json:"brand"`
	PrimaryCode   string            `json:"primary_code"`
	SecondaryCode string            `json:"secondary_code"`
	Media         []string          `json:"media"`
	Stock         int64             `json:"stock" validate:"min=0"`
	Attributes    map[string]string `json:"attributes"`
	Prices        []PriceInput      `json:"prices"`
}

// ImportEntitiesRequest lote de entidades.
type ImportEntitiesRequest struct {
	Entities []ImportEntityRequest `json:"entities" validate:"required,dive"`
}

// ImportPriceRequest precio suelto identificado por proveedor e id externo.
type ImportPriceRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	ExternalID string `json:"external_id" validate:"required"`
	PriceInput
}

// ImportPricesRequest lote de precios.
type ImportPricesRequest struct {
	Prices []ImportPriceRequest `json:"prices" validate:"required,dive"`
}

// ImportEntityResult resultado por entidad.
type ImportEntityResult struct {
	ExternalID string `json:"external_id"`
	EntityID   string `json:"entity_id"`
	EntryID    string `json:"entry_id,omitempty"`
	LinkType   string `json:"link_type,omitempty"`
	Mapped     int    `json:"mapped"`
	Unmapped   int    `json:"unmapped"`
	Ignored    int    `json:"ignored"`
}

// ImportError fallo de un elemento del lote (el resto se procesa igual).
type ImportError struct {
	Index      int    `json:"index"`
	ExternalID string `json:"external_id,omitempty"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// ImportResponse resumen del lote.
type ImportResponse struct {
	Results          []ImportEntityResult `json:"results"`
	Errors           []ImportError        `json:"errors"`
	EntriesScheduled int                  `json:"entries_scheduled"`
}
