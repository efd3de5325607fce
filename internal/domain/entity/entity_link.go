package entity

import "time"

// LinkType cómo se creó el vínculo.
type LinkType string

const (
	LinkManual            LinkType = "manual"
	LinkAutoPrimaryCode   LinkType = "auto_primary_code"
	LinkAutoSecondaryCode LinkType = "auto_secondary_code"
	LinkAutoSimilarity    LinkType = "auto_similarity"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t LinkType) Valid() bool {
	switch t {
	case LinkManual, LinkAutoPrimaryCode, LinkAutoSecondaryCode, LinkAutoSimilarity:
		return true
	}
	return false
}

// EntityLink vínculo muchos-a-uno de una entidad de proveedor hacia una entrada de catálogo.
// Una entidad tiene como máximo un vínculo; una entrada como máximo un vínculo primario.
type EntityLink struct {
	ID               string
	CatalogEntryID   string
	SupplierEntityID string
	Type             LinkType
	Confidence       float64
	IsPrimary        bool
	NeedsReview      bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
