package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// AliasRepository índice de alias (etiqueta normalizada, proveedor) -> atributo.
type AliasRepository interface {
	// Upsert crea o reemplaza el alias por (NormalizedLabel, SupplierID).
	Upsert(ctx context.Context, alias *entity.AliasEntry) error
	List(ctx context.Context) ([]*entity.AliasEntry, error)
}

// InboxRepository etiquetas no reconocidas pendientes de triage.
type InboxRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InboxItem, error)
	GetByLabel(ctx context.Context, normalizedLabel, origin string) (*entity.InboxItem, error)
	// Save inserta o actualiza por ID.
	Save(ctx context.Context, item *entity.InboxItem) error
	// List filtra por estado (vacío = todos), ordenado por frecuencia descendente.
	List(ctx context.Context, status entity.InboxStatus, limit, offset int) ([]*entity.InboxItem, error)
}
