package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.AttributeRepository = (*AttributeRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
)

// AttributeRepo implementación del diccionario de atributos sobre PostgreSQL (usable con pool o tx).
type AttributeRepo struct {
	q Querier
}

// NewAttributeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttributeRepository(q Querier) *AttributeRepo {
	return &AttributeRepo{q: q}
}

const attributeColumns = `id, code, names, value_type, unit_kind, default_unit, enum_options, provenance, needs_review, created_at, updated_at`

func scanAttribute(row pgx.Row) (*entity.AttributeDefinition, error) {
	var a entity.AttributeDefinition
	err := row.Scan(&a.ID, &a.Code, &a.Names, &a.ValueType, &a.UnitKind, &a.DefaultUnit,
		&a.EnumOptions, &a.Provenance, &a.NeedsReview, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un atributo nuevo. Un code repetido devuelve domain.ErrDuplicate.
func (r *AttributeRepo) Create(ctx context.Context, a *entity.AttributeDefinition) error {
	query := `INSERT INTO attributes (` + attributeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Code, texts(a.Names), a.ValueType, a.UnitKind, a.DefaultUnit,
		strs(a.EnumOptions), a.Provenance, a.NeedsReview, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert attribute: %w", err)
	}
	return nil
}

// GetByID obtiene un atributo por ID.
func (r *AttributeRepo) GetByID(ctx context.Context, id string) (*entity.AttributeDefinition, error) {
	a, err := scanAttribute(r.q.QueryRow(ctx, `SELECT `+attributeColumns+` FROM attributes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute: %w", err)
	}
	return a, nil
}

// GetByCode obtiene un atributo por su code.
func (r *AttributeRepo) GetByCode(ctx context.Context, code string) (*entity.AttributeDefinition, error) {
	a, err := scanAttribute(r.q.QueryRow(ctx, `SELECT `+attributeColumns+` FROM attributes WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute by code: %w", err)
	}
	return a, nil
}

// List devuelve el diccionario completo ordenado por code.
func (r *AttributeRepo) List(ctx context.Context) ([]*entity.AttributeDefinition, error) {
	rows, err := r.q.Query(ctx, `SELECT `+attributeColumns+` FROM attributes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	defer rows.Close()
	var list []*entity.AttributeDefinition
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update actualiza todo salvo el code (inmutable).
func (r *AttributeRepo) Update(ctx context.Context, a *entity.AttributeDefinition) error {
	query := `
		UPDATE attributes SET names = $2, value_type = $3, unit_kind = $4, default_unit = $5, enum_options = $6,
			provenance = $7, needs_review = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, a.ID, texts(a.Names), a.ValueType, a.UnitKind, a.DefaultUnit,
		strs(a.EnumOptions), a.Provenance, a.NeedsReview, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update attribute: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el atributo. El caso de uso verifica antes IsReferenced.
func (r *AttributeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attribute: %w", err)
	}
	return nil
}

// IsReferenced indica si bindings, alias o valores apuntan al atributo.
func (r *AttributeRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM category_attribute_bindings WHERE attribute_id = $1)
			OR EXISTS (SELECT 1 FROM attribute_aliases WHERE attribute_id = $1)
			OR EXISTS (SELECT 1 FROM attribute_values WHERE attribute_id = $1)
			OR EXISTS (SELECT 1 FROM source_values WHERE attribute_id = $1)`
	var found bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&found); err != nil {
		return false, fmt.Errorf("attribute references: %w", err)
	}
	return found, nil
}

// CategoryRepo implementación del árbol de categorías y sus bindings sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, COALESCE(parent_id, ''), COALESCE(code, ''), names, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.ParentID, &c.Code, &c.Names, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, code, names, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.ParentID, c.Code, texts(c.Names), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// categoryTreeLockKey clave del advisory lock que serializa los movimientos del árbol.
const categoryTreeLockKey int64 = 0x63617467_74726565

// LockTree toma un advisory lock de transacción; dos movimientos concurrentes no pueden
// validar el ciclo contra el mismo árbol.
func (r *CategoryRepo) LockTree(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, categoryTreeLockKey); err != nil {
		return fmt.Errorf("lock category tree: %w", err)
	}
	return nil
}

// Update actualiza padre, code y nombres.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET parent_id = NULLIF($2, ''), code = NULLIF($3, ''), names = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.ParentID, c.Code, texts(c.Names), c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todas las categorías (el grafo se arma en memoria).
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

const bindingColumns = `category_id, attribute_id, required, visible, position, unit_override, constraints, state, updated_at`

func scanBinding(row pgx.Row) (*entity.CategoryAttributeBinding, error) {
	var b entity.CategoryAttributeBinding
	err := row.Scan(&b.CategoryID, &b.AttributeID, &b.Required, &b.Visible, &b.Position,
		&b.UnitOverride, &b.Constraints, &b.State, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpsertBinding crea o reemplaza el binding (CategoryID, AttributeID).
func (r *CategoryRepo) UpsertBinding(ctx context.Context, b *entity.CategoryAttributeBinding) error {
	query := `
		INSERT INTO category_attribute_bindings (` + bindingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (category_id, attribute_id) DO UPDATE SET
			required = EXCLUDED.required, visible = EXCLUDED.visible, position = EXCLUDED.position,
			unit_override = EXCLUDED.unit_override, constraints = EXCLUDED.constraints,
			state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, b.CategoryID, b.AttributeID, b.Required, b.Visible, b.Position,
		b.UnitOverride, b.Constraints, b.State, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert binding: %w", err)
	}
	return nil
}

// GetBinding obtiene el binding de un atributo en una categoría.
func (r *CategoryRepo) GetBinding(ctx context.Context, categoryID, attributeID string) (*entity.CategoryAttributeBinding, error) {
	query := `SELECT ` + bindingColumns + ` FROM category_attribute_bindings WHERE category_id = $1 AND attribute_id = $2`
	b, err := scanBinding(r.q.QueryRow(ctx, query, categoryID, attributeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get binding: %w", err)
	}
	return b, nil
}

// ListBindings devuelve todos los bindings.
func (r *CategoryRepo) ListBindings(ctx context.Context) ([]*entity.CategoryAttributeBinding, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bindingColumns+` FROM category_attribute_bindings`)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	defer rows.Close()
	var list []*entity.CategoryAttributeBinding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
