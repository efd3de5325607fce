package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/recompute"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/domain/schema"
)

// CategoryUseCase árbol de categorías y herencia de atributos.
type CategoryUseCase struct {
	repos     repository.Repositories
	tx        repository.TxRunner
	scheduler Scheduler
	settings  Settings
	log       zerolog.Logger
	now       func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repos repository.Repositories, tx repository.TxRunner, scheduler Scheduler, settings Settings, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{repos: repos, tx: tx, scheduler: scheduler, settings: settings, log: log, now: time.Now}
}

func (uc *CategoryUseCase) graph(ctx context.Context) (*schema.Graph, error) {
	return loadGraph(ctx, uc.repos.Categories)
}

func loadGraph(ctx context.Context, categories repository.CategoryRepository) (*schema.Graph, error) {
	cats, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}
	bindings, err := categories.ListBindings(ctx)
	if err != nil {
		return nil, err
	}
	return schema.NewGraph(cats, bindings)
}

// Create agrega una categoría bajo ParentID (vacío = raíz).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	names := entity.LocalizedText{}
	for locale, name := range in.Names {
		if s := strings.TrimSpace(name); s != "" {
			names[strings.ToLower(locale)] = s
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("names vacío: %w", domain.ErrInvalidInput)
	}
	g, err := uc.graph(ctx)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	if g.Has(id) {
		return nil, fmt.Errorf("categoría %s: %w", id, domain.ErrDuplicate)
	}
	parentID := strings.TrimSpace(in.ParentID)
	if err := g.ValidateParent("", parentID); err != nil {
		return nil, err
	}
	now := uc.now()
	cat := &entity.Category{
		ID:        id,
		ParentID:  parentID,
		Code:      strings.TrimSpace(in.Code),
		Names:     names,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// List devuelve todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Move cambia el padre de una categoría. Rechaza con ErrCycle si quedaría bajo sí misma.
// La validación y la escritura corren en una transacción con el árbol bloqueado.
func (uc *CategoryUseCase) Move(ctx context.Context, id, parentID string) (*dto.CategoryResponse, error) {
	parentID = strings.TrimSpace(parentID)
	var (
		cat   *entity.Category
		g     *schema.Graph
		moved bool
	)
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := r.Categories.LockTree(ctx); err != nil {
			return err
		}
		var err error
		cat, err = r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}
		g, err = loadGraph(ctx, r.Categories)
		if err != nil {
			return err
		}
		if err := g.ValidateParent(id, parentID); err != nil {
			return err
		}
		if cat.ParentID == parentID {
			return nil
		}
		cat.ParentID = parentID
		cat.UpdatedAt = uc.now()
		moved = true
		return r.Categories.Update(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	if moved {
		// El subárbol hereda de otra rama a partir de ahora.
		if _, err := uc.scheduleSubtree(ctx, g, id); err != nil {
			return nil, err
		}
	}
	return toCategoryResponse(cat), nil
}

// SetBinding vincula el atributo a la categoría o sobrescribe sus campos. Los campos
// nulos del pedido quedan en herencia.
func (uc *CategoryUseCase) SetBinding(ctx context.Context, categoryID, attributeID string, in dto.BindingRequest) (*dto.BindingResponse, error) {
	if err := uc.checkBindingTargets(ctx, categoryID, attributeID); err != nil {
		return nil, err
	}
	binding := &entity.CategoryAttributeBinding{
		CategoryID:   categoryID,
		AttributeID:  attributeID,
		Required:     in.Required,
		Visible:      in.Visible,
		Position:     in.Position,
		UnitOverride: in.UnitOverride,
		Constraints:  fromConstraintsDTO(in.Constraints),
		State:        entity.BindingActive,
		UpdatedAt:    uc.now(),
	}
	return uc.saveBinding(ctx, binding)
}

// DisableBinding quita el atributo de la categoría y de sus descendientes.
func (uc *CategoryUseCase) DisableBinding(ctx context.Context, categoryID, attributeID string) (*dto.BindingResponse, error) {
	if err := uc.checkBindingTargets(ctx, categoryID, attributeID); err != nil {
		return nil, err
	}
	binding := &entity.CategoryAttributeBinding{
		CategoryID:  categoryID,
		AttributeID: attributeID,
		State:       entity.BindingDisabled,
		UpdatedAt:   uc.now(),
	}
	return uc.saveBinding(ctx, binding)
}

func (uc *CategoryUseCase) checkBindingTargets(ctx context.Context, categoryID, attributeID string) error {
	cat, err := uc.repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("categoría %s: %w", categoryID, domain.ErrNotFound)
	}
	attr, err := uc.repos.Attributes.GetByID(ctx, attributeID)
	if err != nil {
		return err
	}
	if attr == nil {
		return fmt.Errorf("atributo %s: %w", attributeID, domain.ErrNotFound)
	}
	return nil
}

func (uc *CategoryUseCase) saveBinding(ctx context.Context, binding *entity.CategoryAttributeBinding) (*dto.BindingResponse, error) {
	if err := uc.repos.Categories.UpsertBinding(ctx, binding); err != nil {
		return nil, err
	}
	g, err := uc.graph(ctx)
	if err != nil {
		return nil, err
	}
	n, err := uc.scheduleSubtree(ctx, g, binding.CategoryID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("category_id", binding.CategoryID).Str("attribute_id", binding.AttributeID).
		Str("state", binding.State).Int("entries", n).Msg("binding actualizado")
	return toBindingResponse(binding, n), nil
}

// ResolveSchema esquema efectivo de la categoría. locale vacío usa el locale por defecto.
func (uc *CategoryUseCase) ResolveSchema(ctx context.Context, categoryID, locale string) (*dto.SchemaResponse, error) {
	g, err := uc.graph(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := uc.repos.Attributes.List(ctx)
	if err != nil {
		return nil, err
	}
	dictionary := make(map[string]*entity.AttributeDefinition, len(attrs))
	for _, a := range attrs {
		dictionary[a.ID] = a
	}
	locale = uc.settings.locale(locale)
	resolved, err := g.Resolve(categoryID, dictionary, locale)
	if err != nil {
		return nil, err
	}
	out := &dto.SchemaResponse{
		CategoryID: categoryID,
		Locale:     locale,
		Attributes: make([]dto.SchemaAttributeResponse, 0, len(resolved)),
	}
	for _, r := range resolved {
		out.Attributes = append(out.Attributes, toSchemaAttribute(r, locale))
	}
	return out, nil
}

func (uc *CategoryUseCase) scheduleSubtree(ctx context.Context, g *schema.Graph, categoryID string) (int, error) {
	ids, err := uc.repos.Entries.ListIDsByCategories(ctx, g.Subtree(categoryID))
	if err != nil {
		return 0, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonSchema, ids...); err != nil {
		return 0, err
	}
	return len(ids), nil
}
