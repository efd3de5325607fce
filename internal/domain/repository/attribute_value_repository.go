package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// AttributeValueRepository candidatos de valor por (entrada, atributo, fuente).
type AttributeValueRepository interface {
	ListByEntry(ctx context.Context, entryID string) ([]*entity.AttributeValue, error)
	ListByEntryAttribute(ctx context.Context, entryID, attributeID string) ([]*entity.AttributeValue, error)
	// Upsert por (CatalogEntryID, AttributeID, SourceKey).
	Upsert(ctx context.Context, v *entity.AttributeValue) error
	Delete(ctx context.Context, entryID, attributeID, sourceKey string) error
}
