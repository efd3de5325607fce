package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category y sus bindings (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	// LockTree serializa los cambios de estructura del árbol hasta el fin de la transacción.
	LockTree(ctx context.Context) error

	// UpsertBinding crea o reemplaza el binding (CategoryID, AttributeID).
	UpsertBinding(ctx context.Context, binding *entity.CategoryAttributeBinding) error
	GetBinding(ctx context.Context, categoryID, attributeID string) (*entity.CategoryAttributeBinding, error)
	ListBindings(ctx context.Context) ([]*entity.CategoryAttributeBinding, error)
}
