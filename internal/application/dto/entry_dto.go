package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntryRequest alta manual de una entrada del catálogo.
type CreateEntryRequest struct {
	Names      map[string]string `json:"names"`
	Brand      string            `json:"brand"`
	CategoryID string            `json:"category_id"`
}

// UpdateEntryRequest campos manuales; nil = sin cambio, vacío = quitar el valor manual.
type UpdateEntryRequest struct {
	Names      map[string]string `json:"names"`
	Brand      *string           `json:"brand"`
	CategoryID *string           `json:"category_id"`
}

// ReasonResponse motivo de bloqueo o advertencia.
type ReasonResponse struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Messages map[string]string `json:"messages"`
}

// ManualFields valores fijados por el operador.
type ManualFields struct {
	Names      map[string]string `json:"names,omitempty"`
	Brand      string            `json:"brand,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
}

// EntryResponse entrada del catálogo con sus campos derivados.
type EntryResponse struct {
	ID                        string            `json:"id"`
	Names                     map[string]string `json:"names"`
	Brand                     string            `json:"brand"`
	CategoryID                string            `json:"category_id"`
	Barcode                   string            `json:"barcode"`
	VendorCode                string            `json:"vendor_code"`
	MediaCount                int               `json:"media_count"`
	Stock                     int64             `json:"stock"`
	RetailMin                 *decimal.Decimal  `json:"retail_min"`
	RetailMax                 *decimal.Decimal  `json:"retail_max"`
	PurchaseMin               *decimal.Decimal  `json:"purchase_min"`
	PreferredSupplierEntityID string            `json:"preferred_supplier_entity_id,omitempty"`
	IsReady                   bool              `json:"is_ready"`
	Blocking                  []ReasonResponse  `json:"blocking"`
	Warnings                  []ReasonResponse  `json:"warnings"`
	QualityScore              int               `json:"quality_score"`
	RecomputeStatus           string            `json:"recompute_status"`
	LastError                 string            `json:"last_error,omitempty"`
	ComputedAt                *time.Time        `json:"computed_at,omitempty"`
	Manual                    ManualFields      `json:"manual"`
	Links                     []LinkResponse    `json:"links,omitempty"`
	Attributes                []ValueResponse   `json:"attributes,omitempty"`
	CreatedAt                 time.Time         `json:"created_at"`
	UpdatedAt                 time.Time         `json:"updated_at"`
}

// EntryListResponse lista paginada de entradas.
type EntryListResponse struct {
	Items []EntryResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ValueResponse fila candidata de valor de un atributo.
type ValueResponse struct {
	AttributeID    string    `json:"attribute_id"`
	Code           string    `json:"code,omitempty"`
	SourceKey      string    `json:"source_key"`
	SupplierID     string    `json:"supplier_id,omitempty"`
	RawValue       string    `json:"raw_value"`
	Value          string    `json:"value"`
	Active         bool      `json:"active"`
	ManualOverride bool      `json:"manual_override"`
	PriorityScore  int       `json:"priority_score"`
	Conflict       bool      `json:"conflict"`
	ConflictCount  int       `json:"conflict_count"`
	Rationale      string    `json:"rationale,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ConflictResponse detalle de la resolución de un atributo.
type ConflictResponse struct {
	EntryID       string          `json:"entry_id"`
	AttributeID   string          `json:"attribute_id"`
	Code          string          `json:"code"`
	Rule          string          `json:"rule"`
	Conflict      bool            `json:"conflict"`
	ConflictCount int             `json:"conflict_count"`
	Rationale     string          `json:"rationale"`
	Active        *ValueResponse  `json:"active"`
	Candidates    []ValueResponse `json:"candidates"`
}

// OverrideRequest valor manual crudo; se interpreta con el tipo del atributo.
type OverrideRequest struct {
	Value string `json:"value" validate:"required"`
}

// LinkRequest vínculo manual entidad -> entrada.
type LinkRequest struct {
	EntryID          string   `json:"entry_id" validate:"required"`
	SupplierEntityID string   `json:"supplier_entity_id" validate:"required"`
	Type             string   `json:"type"`
	Confidence       *float64 `json:"confidence"`
	IsPrimary        bool     `json:"is_primary"`
}

// LinkResponse vínculo entidad de proveedor -> entrada.
type LinkResponse struct {
	ID               string    `json:"id"`
	EntryID          string    `json:"entry_id"`
	SupplierEntityID string    `json:"supplier_entity_id"`
	Type             string    `json:"type"`
	Confidence       float64   `json:"confidence"`
	IsPrimary        bool      `json:"is_primary"`
	NeedsReview      bool      `json:"needs_review"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
