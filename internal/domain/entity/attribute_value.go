package entity

import "time"

// SourceManual clave de fuente de las filas de override manual.
const SourceManual = "manual"

// SourceValue fila del almacén de valores fuente: un valor crudo de una entidad de
// proveedor, mapeado opcionalmente a un atributo del diccionario.
type SourceValue struct {
	ID               string
	SupplierEntityID string
	SupplierID       string
	RawLabel         string
	NormalizedLabel  string
	RawValue         string
	AttributeID      string // vacío mientras la etiqueta está en el inbox
	Value            Value
	PriorityScore    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AttributeValue candidato de valor para (entrada, atributo) desde una fuente.
// Como máximo una fila activa por par. Un override manual desactiva las hermanas sin borrarlas.
type AttributeValue struct {
	CatalogEntryID string
	AttributeID    string
	SourceKey      string // id de la entidad del proveedor o SourceManual
	SupplierID     string
	RawValue       string
	Value          Value
	Active         bool
	ManualOverride bool
	PriorityScore  int
	Conflict       bool
	ConflictCount  int
	Rationale      string
	CreatedBy      string
	CreatedAt      time.Time // momento de inserción (desempate final)
	UpdatedAt      time.Time // momento de observación (reglas más reciente / más antiguo)
}

// SameResolution compara solo los campos que escribe el resolvedor.
func (v *AttributeValue) SameResolution(o *AttributeValue) bool {
	return v.Active == o.Active && v.Conflict == o.Conflict && v.ConflictCount == o.ConflictCount && v.Rationale == o.Rationale
}
