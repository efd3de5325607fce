package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// AttributeRepository define el puerto de persistencia del diccionario de atributos (DIP).
// Los Get devuelven nil, nil si no existe.
type AttributeRepository interface {
	Create(ctx context.Context, attr *entity.AttributeDefinition) error
	GetByID(ctx context.Context, id string) (*entity.AttributeDefinition, error)
	GetByCode(ctx context.Context, code string) (*entity.AttributeDefinition, error)
	List(ctx context.Context) ([]*entity.AttributeDefinition, error)
	Update(ctx context.Context, attr *entity.AttributeDefinition) error
	Delete(ctx context.Context, id string) error
	// IsReferenced indica si bindings, alias o valores apuntan al atributo.
	IsReferenced(ctx context.Context, id string) (bool, error)
}
