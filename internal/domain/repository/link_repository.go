package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// LinkRepository grafo de vínculos entidad de proveedor -> entrada de catálogo.
type LinkRepository interface {
	// Create falla con domain.ErrAlreadyLinked si la entidad ya tiene vínculo.
	Create(ctx context.Context, link *entity.EntityLink) error
	GetBySupplierEntity(ctx context.Context, supplierEntityID string) (*entity.EntityLink, error)
	ListByEntry(ctx context.Context, entryID string) ([]*entity.EntityLink, error)
	// ListByEntities vínculos existentes de las entidades dadas.
	ListByEntities(ctx context.Context, supplierEntityIDs []string) ([]*entity.EntityLink, error)
	Update(ctx context.Context, link *entity.EntityLink) error
	Delete(ctx context.Context, supplierEntityID string) error
}
