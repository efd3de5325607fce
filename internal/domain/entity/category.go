package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category nodo del árbol de categorías. ParentID vacío si es raíz.
type Category struct {
	ID        string
	ParentID  string
	Code      string
	Names     LocalizedText
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Estados de un binding categoría-atributo.
const (
	BindingActive   = "active"
	BindingDisabled = "disabled"
)

// Constraints restricciones de valor de un atributo dentro de una categoría.
// Cada campo nulo significa "heredar".
type Constraints struct {
	Min       *decimal.Decimal `json:"min,omitempty"`
	Max       *decimal.Decimal `json:"max,omitempty"`
	MaxLength *int             `json:"max_length,omitempty"`
	Options   []string         `json:"options,omitempty"`
}

// IsEmpty indica que no sobrescribe nada.
func (c *Constraints) IsEmpty() bool {
	return c == nil || (c.Min == nil && c.Max == nil && c.MaxLength == nil && len(c.Options) == 0)
}

// CategoryAttributeBinding vincula, sobrescribe o deshabilita un atributo en una categoría.
// Máximo uno por (CategoryID, AttributeID). Los campos puntero nulos heredan del ancestro.
type CategoryAttributeBinding struct {
	CategoryID   string
	AttributeID  string
	Required     *bool
	Visible      *bool
	Position     *int
	UnitOverride *string
	Constraints  *Constraints
	State        string
	UpdatedAt    time.Time
}

// Disabled indica si el binding elimina el atributo heredado.
func (b *CategoryAttributeBinding) Disabled() bool { return b.State == BindingDisabled }
