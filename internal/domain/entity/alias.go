package entity

import "time"

// AliasEntry mapea una etiqueta normalizada de proveedor a un atributo del diccionario.
// SupplierID vacío = alias global. Ignored = la etiqueta se descarta en silencio.
type AliasEntry struct {
	ID              string
	NormalizedLabel string
	SupplierID      string
	AttributeID     string
	Confidence      float64
	Ignored         bool
	CreatedBy       string
	CreatedAt       time.Time
}

// InboxStatus estado de un elemento del inbox.
type InboxStatus string

const (
	InboxNew     InboxStatus = "new"
	InboxLinked  InboxStatus = "linked"
	InboxCreated InboxStatus = "created"
	InboxIgnored InboxStatus = "ignored"
)

// MaxInboxExamples cantidad de ejemplos de valores guardados por elemento.
const MaxInboxExamples = 5

// InboxItem etiqueta no reconocida pendiente de decisión (vincular, crear, ignorar).
type InboxItem struct {
	ID                   string
	RawLabel             string
	NormalizedLabel      string
	Origin               string // proveedor de origen
	Frequency            int
	Examples             []string
	SuggestedAttributeID string
	SuggestedConfidence  float64
	Status               InboxStatus
	DecidedBy            string
	DecidedAt            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AddExample suma una ocurrencia y guarda el ejemplo si hay espacio y no está repetido.
func (i *InboxItem) AddExample(example string) {
	i.Frequency++
	if example == "" || len(i.Examples) >= MaxInboxExamples {
		return
	}
	for _, e := range i.Examples {
		if e == example {
			return
		}
	}
	i.Examples = append(i.Examples, example)
}
