package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// SupplierEntityRepository entidades de proveedor (escritas por el importador).
type SupplierEntityRepository interface {
	// Upsert inserta o actualiza por (SupplierID, ExternalID). Si ya existía conserva su ID y CreatedAt.
	Upsert(ctx context.Context, e *entity.SupplierEntity) error
	GetByID(ctx context.Context, id string) (*entity.SupplierEntity, error)
	GetByExternal(ctx context.Context, supplierID, externalID string) (*entity.SupplierEntity, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.SupplierEntity, error)
	// ListMatchCandidates entidades que comparten código primario o secundario (comparados con
	// linking.NormalizeCode) o marca (sin distinguir mayúsculas).
	ListMatchCandidates(ctx context.Context, primaryCode, secondaryCode, brand string) ([]*entity.SupplierEntity, error)
}

// PriceRepository precios por entidad y clasificación.
type PriceRepository interface {
	// Upsert por (SupplierEntityID, Classification).
	Upsert(ctx context.Context, p *entity.PriceRecord) error
	ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.PriceRecord, error)
}

// SourceValueRepository almacén de valores fuente por entidad de proveedor.
type SourceValueRepository interface {
	// ReplaceForEntity deja exactamente las filas dadas para la entidad. Conserva ID y
	// CreatedAt de las etiquetas que ya existían.
	ReplaceForEntity(ctx context.Context, entityID string, values []*entity.SourceValue) error
	ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.SourceValue, error)
	// ListUnmapped filas sin atributo con esa etiqueta; supplierID vacío = de cualquier proveedor.
	ListUnmapped(ctx context.Context, normalizedLabel, supplierID string) ([]*entity.SourceValue, error)
	Update(ctx context.Context, v *entity.SourceValue) error
}
