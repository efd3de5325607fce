package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/linking"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.SupplierEntityRepository = (*SupplierEntityRepo)(nil)
	_ repository.PriceRepository          = (*PriceRepo)(nil)
	_ repository.SourceValueRepository    = (*SourceValueRepo)(nil)
)

// SupplierEntityRepo entidades de proveedor sobre PostgreSQL.
type SupplierEntityRepo struct {
	q Querier
}

// NewSupplierEntityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierEntityRepository(q Querier) *SupplierEntityRepo {
	return &SupplierEntityRepo{q: q}
}

const supplierEntityColumns = `id, supplier_id, external_id, COALESCE(category_id, ''), names, brand, primary_code,
	secondary_code, media, stock, raw_attributes, created_at, updated_at`

func scanSupplierEntity(row pgx.Row) (*entity.SupplierEntity, error) {
	var e entity.SupplierEntity
	err := row.Scan(&e.ID, &e.SupplierID, &e.ExternalID, &e.CategoryID, &e.Names, &e.Brand, &e.PrimaryCode,
		&e.SecondaryCode, &e.Media, &e.Stock, &e.RawAttributes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SupplierEntityRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SupplierEntity, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplier entities: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierEntity
	for rows.Next() {
		e, err := scanSupplierEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier entity: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza por (supplier_id, external_id); devuelve en e el ID y CreatedAt vigentes.
func (r *SupplierEntityRepo) Upsert(ctx context.Context, e *entity.SupplierEntity) error {
	raw := e.RawAttributes
	if raw == nil {
		raw = map[string]string{}
	}
	query := `
		INSERT INTO supplier_entities (id, supplier_id, external_id, category_id, names, brand, primary_code,
			secondary_code, media, stock, raw_attributes, created_at, updated_at, primary_code_norm, secondary_code_norm)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (supplier_id, external_id) DO UPDATE SET
			category_id = EXCLUDED.category_id, names = EXCLUDED.names, brand = EXCLUDED.brand,
			primary_code = EXCLUDED.primary_code, secondary_code = EXCLUDED.secondary_code,
			media = EXCLUDED.media, stock = EXCLUDED.stock, raw_attributes = EXCLUDED.raw_attributes,
			updated_at = EXCLUDED.updated_at, primary_code_norm = EXCLUDED.primary_code_norm,
			secondary_code_norm = EXCLUDED.secondary_code_norm
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, e.ID, e.SupplierID, e.ExternalID, e.CategoryID, texts(e.Names), e.Brand,
		e.PrimaryCode, e.SecondaryCode, strs(e.Media), e.Stock, raw, e.CreatedAt, e.UpdatedAt,
		linking.NormalizeCode(e.PrimaryCode), linking.NormalizeCode(e.SecondaryCode),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert supplier entity: %w", err)
	}
	return nil
}

// GetByID obtiene una entidad por ID.
func (r *SupplierEntityRepo) GetByID(ctx context.Context, id string) (*entity.SupplierEntity, error) {
	query := `SELECT ` + supplierEntityColumns + ` FROM supplier_entities WHERE id = $1`
	e, err := scanSupplierEntity(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier entity: %w", err)
	}
	return e, nil
}

// GetByExternal obtiene una entidad por proveedor e id externo.
func (r *SupplierEntityRepo) GetByExternal(ctx context.Context, supplierID, externalID string) (*entity.SupplierEntity, error) {
	query := `SELECT ` + supplierEntityColumns + ` FROM supplier_entities WHERE supplier_id = $1 AND external_id = $2`
	e, err := scanSupplierEntity(r.q.QueryRow(ctx, query, supplierID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier entity by external id: %w", err)
	}
	return e, nil
}

// ListByIDs devuelve las entidades existentes de la lista.
func (r *SupplierEntityRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.SupplierEntity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+supplierEntityColumns+` FROM supplier_entities WHERE id = ANY($1) ORDER BY id`, ids)
}

// ListMatchCandidates entidades que comparten código normalizado (primario o secundario) o marca.
func (r *SupplierEntityRepo) ListMatchCandidates(ctx context.Context, primaryCode, secondaryCode, brand string) ([]*entity.SupplierEntity, error) {
	query := `
		SELECT ` + supplierEntityColumns + ` FROM supplier_entities
		WHERE ($1 <> '' AND primary_code_norm = $1)
		   OR ($2 <> '' AND secondary_code_norm = $2)
		   OR ($3 <> '' AND lower(brand) = lower($3))
		ORDER BY id`
	return r.list(ctx, query, linking.NormalizeCode(primaryCode), linking.NormalizeCode(secondaryCode), brand)
}

// PriceRepo precios de entidades de proveedor sobre PostgreSQL.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// Upsert por (entidad, clasificación).
func (r *PriceRepo) Upsert(ctx context.Context, p *entity.PriceRecord) error {
	query := `
		INSERT INTO supplier_prices (supplier_entity_id, classification, value, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supplier_entity_id, classification) DO UPDATE SET
			value = EXCLUDED.value, currency = EXCLUDED.currency, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, p.SupplierEntityID, p.Classification, p.Value, p.Currency, p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert price: %w", err)
	}
	return nil
}

// ListByEntities precios de las entidades dadas.
func (r *PriceRepo) ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.PriceRecord, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT supplier_entity_id, classification, value, currency, updated_at
		FROM supplier_prices WHERE supplier_entity_id = ANY($1)
		ORDER BY supplier_entity_id, classification`
	rows, err := r.q.Query(ctx, query, entityIDs)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceRecord
	for rows.Next() {
		var p entity.PriceRecord
		if err := rows.Scan(&p.SupplierEntityID, &p.Classification, &p.Value, &p.Currency, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SourceValueRepo almacén de valores fuente sobre PostgreSQL.
type SourceValueRepo struct {
	q Querier
}

// NewSourceValueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSourceValueRepository(q Querier) *SourceValueRepo {
	return &SourceValueRepo{q: q}
}

const sourceValueColumns = `id, supplier_entity_id, supplier_id, raw_label, normalized_label, raw_value,
	COALESCE(attribute_id, ''), value_kind, value_raw, priority_score, created_at, updated_at`

func (r *SourceValueRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SourceValue, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list source values: %w", err)
	}
	defer rows.Close()
	var list []*entity.SourceValue
	for rows.Next() {
		var (
			v    entity.SourceValue
			kind entity.ValueType
			raw  string
		)
		if err := rows.Scan(&v.ID, &v.SupplierEntityID, &v.SupplierID, &v.RawLabel, &v.NormalizedLabel, &v.RawValue,
			&v.AttributeID, &kind, &raw, &v.PriorityScore, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source value: %w", err)
		}
		v.Value = entity.DecodeValue(kind, raw)
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ReplaceForEntity deja exactamente las filas dadas para la entidad. Las etiquetas que
// ya existían conservan ID y created_at.
func (r *SourceValueRepo) ReplaceForEntity(ctx context.Context, entityID string, values []*entity.SourceValue) error {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, v.RawLabel)
	}
	if _, err := r.q.Exec(ctx,
		`DELETE FROM source_values WHERE supplier_entity_id = $1 AND NOT (raw_label = ANY($2))`,
		entityID, labels,
	); err != nil {
		return fmt.Errorf("delete stale source values: %w", err)
	}
	query := `
		INSERT INTO source_values (id, supplier_entity_id, supplier_id, raw_label, normalized_label, raw_value,
			attribute_id, value_kind, value_raw, priority_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
		ON CONFLICT (supplier_entity_id, raw_label) DO UPDATE SET
			supplier_id = EXCLUDED.supplier_id, normalized_label = EXCLUDED.normalized_label,
			raw_value = EXCLUDED.raw_value, attribute_id = EXCLUDED.attribute_id,
			value_kind = EXCLUDED.value_kind, value_raw = EXCLUDED.value_raw,
			priority_score = EXCLUDED.priority_score, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	for _, v := range values {
		v.SupplierEntityID = entityID
		err := r.q.QueryRow(ctx, query, v.ID, entityID, v.SupplierID, v.RawLabel, v.NormalizedLabel, v.RawValue,
			v.AttributeID, v.Value.Kind, v.Value.Raw(), v.PriorityScore, v.CreatedAt, v.UpdatedAt,
		).Scan(&v.ID, &v.CreatedAt)
		if err != nil {
			return fmt.Errorf("upsert source value %q: %w", v.RawLabel, err)
		}
	}
	return nil
}

// ListByEntities valores fuente de las entidades dadas.
func (r *SourceValueRepo) ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.SourceValue, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + sourceValueColumns + ` FROM source_values WHERE supplier_entity_id = ANY($1) ORDER BY supplier_entity_id, raw_label`
	return r.list(ctx, query, entityIDs)
}

// ListUnmapped filas sin atributo con esa etiqueta; supplierID vacío = de cualquier proveedor.
func (r *SourceValueRepo) ListUnmapped(ctx context.Context, normalizedLabel, supplierID string) ([]*entity.SourceValue, error) {
	query := `
		SELECT ` + sourceValueColumns + ` FROM source_values
		WHERE attribute_id IS NULL AND normalized_label = $1 AND ($2 = '' OR supplier_id = $2)
		ORDER BY supplier_entity_id, raw_label`
	return r.list(ctx, query, normalizedLabel, supplierID)
}

// Update actualiza el mapeo y el valor tipado de una fila.
func (r *SourceValueRepo) Update(ctx context.Context, v *entity.SourceValue) error {
	query := `
		UPDATE source_values SET attribute_id = NULLIF($2, ''), value_kind = $3, value_raw = $4,
			priority_score = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, v.ID, v.AttributeID, v.Value.Kind, v.Value.Raw(), v.PriorityScore, v.UpdatedAt); err != nil {
		return fmt.Errorf("update source value: %w", err)
	}
	return nil
}
