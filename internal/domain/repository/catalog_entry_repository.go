package repository

import (
	"context"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// EntryFilter filtros de listado de entradas.
type EntryFilter struct {
	CategoryID string
	Ready      *bool
	Status     string
}

// CatalogEntryRepository entradas del catálogo.
type CatalogEntryRepository interface {
	Create(ctx context.Context, e *entity.CatalogEntry) error
	GetByID(ctx context.Context, id string) (*entity.CatalogEntry, error)
	// Update persiste solo los campos manuales.
	Update(ctx context.Context, e *entity.CatalogEntry) error
	List(ctx context.Context, f EntryFilter, limit, offset int) ([]*entity.CatalogEntry, error)
	ListIDs(ctx context.Context) ([]string, error)
	// ListIDsByCategories entradas cuya categoría resuelta está en la lista.
	ListIDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error)
	// SaveDerived publica los campos derivados. Deja el estado en fresh solo si StatusVersion
	// sigue siendo readVersion; si no, conserva la marca y devuelve fresh=false.
	SaveDerived(ctx context.Context, id string, d entity.EntryDerived, computedAt time.Time, readVersion int64) (fresh bool, err error)
	// SetRecomputeStatus actualiza el indicador e incrementa StatusVersion.
	SetRecomputeStatus(ctx context.Context, id, status, lastError string) error
}
