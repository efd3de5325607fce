package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAttributeRequest alta de un atributo en el diccionario.
type CreateAttributeRequest struct {
	Code        string            `json:"code" validate:"required"`
	Names       map[string]string `json:"names" validate:"required"`
	ValueType   string            `json:"value_type" validate:"required,oneof=text number boolean enum"`
	UnitKind    string            `json:"unit_kind"`
	DefaultUnit string            `json:"default_unit"`
	EnumOptions []string          `json:"enum_options"`
}

// AttributeResponse atributo del diccionario.
type AttributeResponse struct {
	ID          string            `json:"id"`
	Code        string            `json:"code"`
	Names       map[string]string `json:"names"`
	ValueType   string            `json:"value_type"`
	UnitKind    string            `json:"unit_kind,omitempty"`
	DefaultUnit string            `json:"default_unit,omitempty"`
	EnumOptions []string          `json:"enum_options,omitempty"`
	Provenance  string            `json:"provenance"`
	NeedsReview bool              `json:"needs_review"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CreateCategoryRequest alta de una categoría. ID opcional (se genera si falta).
type CreateCategoryRequest struct {
	ID       string            `json:"id"`
	ParentID string            `json:"parent_id"`
	Code     string            `json:"code"`
	Names    map[string]string `json:"names" validate:"required"`
}

// MoveCategoryRequest cambio de padre; vacío = raíz.
type MoveCategoryRequest struct {
	ParentID string `json:"parent_id"`
}

// CategoryResponse nodo del árbol de categorías.
type CategoryResponse struct {
	ID        string            `json:"id"`
	ParentID  string            `json:"parent_id,omitempty"`
	Code      string            `json:"code,omitempty"`
	Names     map[string]string `json:"names"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ConstraintsDTO restricciones de valor; cada campo nulo hereda.
type ConstraintsDTO struct {
	Min       *decimal.Decimal `json:"min,omitempty"`
	Max       *decimal.Decimal `json:"max,omitempty"`
	MaxLength *int             `json:"max_length,omitempty"`
	Options   []string         `json:"options,omitempty"`
}

// BindingRequest vincula o sobrescribe un atributo en una categoría. Campos nulos heredan.
type BindingRequest struct {
	Required     *bool           `json:"required"`
	Visible      *bool           `json:"visible"`
	Position     *int            `json:"position"`
	UnitOverride *string         `json:"unit_override"`
	Constraints  *ConstraintsDTO `json:"constraints"`
}

// BindingResponse binding categoría-atributo.
type BindingResponse struct {
	CategoryID       string          `json:"category_id"`
	AttributeID      string          `json:"attribute_id"`
	Required         *bool           `json:"required,omitempty"`
	Visible          *bool           `json:"visible,omitempty"`
	Position         *int            `json:"position,omitempty"`
	UnitOverride     *string         `json:"unit_override,omitempty"`
	Constraints      *ConstraintsDTO `json:"constraints,omitempty"`
	State            string          `json:"state"`
	EntriesScheduled int             `json:"entries_scheduled"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SchemaAttributeResponse atributo efectivo tras la herencia.
type SchemaAttributeResponse struct {
	AttributeID      string         `json:"attribute_id"`
	Code             string         `json:"code"`
	Name             string         `json:"name"`
	ValueType        string         `json:"value_type"`
	OriginCategoryID string         `json:"origin_category_id"`
	Inherited        bool           `json:"inherited"`
	Required         bool           `json:"required"`
	Visible          bool           `json:"visible"`
	Position         *int           `json:"position,omitempty"`
	Unit             string         `json:"unit,omitempty"`
	Constraints      ConstraintsDTO `json:"constraints"`
}

// SchemaResponse esquema resuelto de una categoría.
type SchemaResponse struct {
	CategoryID string                    `json:"category_id"`
	Locale     string                    `json:"locale"`
	Attributes []SchemaAttributeResponse `json:"attributes"`
}
