package dto

import "time"

// Acciones posibles sobre un elemento del inbox.
const (
	InboxActionLink   = "link"
	InboxActionCreate = "create"
	InboxActionIgnore = "ignore"
)

// InboxItemResponse etiqueta no reconocida.
type InboxItemResponse struct {
	ID                   string     `json:"id"`
	RawLabel             string     `json:"raw_label"`
	NormalizedLabel      string     `json:"normalized_label"`
	Origin               string     `json:"origin"`
	Frequency            int        `json:"frequency"`
	Examples             []string   `json:"examples"`
	SuggestedAttributeID string     `json:"suggested_attribute_id,omitempty"`
	SuggestedConfidence  float64    `json:"suggested_confidence,omitempty"`
	Status               string     `json:"status"`
	DecidedBy            string     `json:"decided_by,omitempty"`
	DecidedAt            *time.Time `json:"decided_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// InboxListResponse lista paginada del inbox.
type InboxListResponse struct {
	Items []InboxItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// InboxDecisionRequest decisión del operador. Link usa AttributeID; Create usa Attribute.
// Global=true crea el alias para todos los proveedores en lugar de solo el de origen.
type InboxDecisionRequest struct {
	Action      string                  `json:"action" validate:"required,oneof=link create ignore"`
	AttributeID string                  `json:"attribute_id"`
	Attribute   *CreateAttributeRequest `json:"attribute"`
	Global      bool                    `json:"global"`
}

// InboxDecisionResponse resultado de aplicar la decisión.
type InboxDecisionResponse struct {
	Item             InboxItemResponse `json:"item"`
	AttributeID      string            `json:"attribute_id,omitempty"`
	Backfilled       int               `json:"backfilled"`
	EntriesScheduled int               `json:"entries_scheduled"`
}
