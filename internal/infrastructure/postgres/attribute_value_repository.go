package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.AttributeValueRepository = (*AttributeValueRepo)(nil)

// AttributeValueRepo candidatos de valor por (entrada, atributo, fuente) sobre PostgreSQL.
type AttributeValueRepo struct {
	q Querier
}

// NewAttributeValueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttributeValueRepository(q Querier) *AttributeValueRepo {
	return &AttributeValueRepo{q: q}
}

const attributeValueColumns = `catalog_entry_id, attribute_id, source_key, supplier_id, raw_value, value_kind, value_raw,
	active, manual_override, priority_score, conflict, conflict_count, rationale, created_by, created_at, updated_at`

func (r *AttributeValueRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AttributeValue, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}
	defer rows.Close()
	var list []*entity.AttributeValue
	for rows.Next() {
		var (
			v    entity.AttributeValue
			kind entity.ValueType
			raw  string
		)
		if err := rows.Scan(&v.CatalogEntryID, &v.AttributeID, &v.SourceKey, &v.SupplierID, &v.RawValue, &kind, &raw,
			&v.Active, &v.ManualOverride, &v.PriorityScore, &v.Conflict, &v.ConflictCount, &v.Rationale,
			&v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attribute value: %w", err)
		}
		v.Value = entity.DecodeValue(kind, raw)
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ListByEntry todas las filas de una entrada.
func (r *AttributeValueRepo) ListByEntry(ctx context.Context, entryID string) ([]*entity.AttributeValue, error) {
	query := `SELECT ` + attributeValueColumns + ` FROM attribute_values WHERE catalog_entry_id = $1 ORDER BY attribute_id, source_key`
	return r.list(ctx, query, entryID)
}

// ListByEntryAttribute filas candidatas de un atributo de una entrada.
func (r *AttributeValueRepo) ListByEntryAttribute(ctx context.Context, entryID, attributeID string) ([]*entity.AttributeValue, error) {
	query := `SELECT ` + attributeValueColumns + ` FROM attribute_values
		WHERE catalog_entry_id = $1 AND attribute_id = $2 ORDER BY source_key`
	return r.list(ctx, query, entryID, attributeID)
}

// Upsert por (entrada, atributo, fuente). created_at se conserva si la fila ya existía.
func (r *AttributeValueRepo) Upsert(ctx context.Context, v *entity.AttributeValue) error {
	query := `
		INSERT INTO attribute_values (` + attributeValueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (catalog_entry_id, attribute_id, source_key) DO UPDATE SET
			supplier_id = EXCLUDED.supplier_id, raw_value = EXCLUDED.raw_value,
			value_kind = EXCLUDED.value_kind, value_raw = EXCLUDED.value_raw,
			active = EXCLUDED.active, manual_override = EXCLUDED.manual_override,
			priority_score = EXCLUDED.priority_score, conflict = EXCLUDED.conflict,
			conflict_count = EXCLUDED.conflict_count, rationale = EXCLUDED.rationale,
			created_by = EXCLUDED.created_by, updated_at = EXCLUDED.updated_at
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query, v.CatalogEntryID, v.AttributeID, v.SourceKey, v.SupplierID, v.RawValue,
		v.Value.Kind, v.Value.Raw(), v.Active, v.ManualOverride, v.PriorityScore, v.Conflict, v.ConflictCount,
		v.Rationale, v.CreatedBy, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert attribute value: %w", err)
	}
	return nil
}

// Delete elimina una fila candidata.
func (r *AttributeValueRepo) Delete(ctx context.Context, entryID, attributeID, sourceKey string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM attribute_values WHERE catalog_entry_id = $1 AND attribute_id = $2 AND source_key = $3`,
		entryID, attributeID, sourceKey)
	if err != nil {
		return fmt.Errorf("delete attribute value: %w", err)
	}
	return nil
}
