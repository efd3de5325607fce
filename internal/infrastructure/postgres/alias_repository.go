package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.AliasRepository = (*AliasRepo)(nil)
	_ repository.InboxRepository = (*InboxRepo)(nil)
)

// AliasRepo índice de alias sobre PostgreSQL.
type AliasRepo struct {
	q Querier
}

// NewAliasRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAliasRepository(q Querier) *AliasRepo {
	return &AliasRepo{q: q}
}

// Upsert crea o reemplaza el alias por (etiqueta, proveedor).
func (r *AliasRepo) Upsert(ctx context.Context, a *entity.AliasEntry) error {
	query := `
		INSERT INTO attribute_aliases (id, normalized_label, supplier_id, attribute_id, confidence, ignored, created_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (normalized_label, supplier_id) DO UPDATE SET
			attribute_id = EXCLUDED.attribute_id, confidence = EXCLUDED.confidence,
			ignored = EXCLUDED.ignored, created_by = EXCLUDED.created_by`
	_, err := r.q.Exec(ctx, query, a.ID, a.NormalizedLabel, a.SupplierID, a.AttributeID,
		a.Confidence, a.Ignored, a.CreatedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert alias: %w", err)
	}
	return nil
}

// List devuelve todos los alias (el índice se arma en memoria).
func (r *AliasRepo) List(ctx context.Context) ([]*entity.AliasEntry, error) {
	query := `
		SELECT id, normalized_label, supplier_id, COALESCE(attribute_id, ''), confidence, ignored, created_by, created_at
		FROM attribute_aliases`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()
	var list []*entity.AliasEntry
	for rows.Next() {
		var a entity.AliasEntry
		if err := rows.Scan(&a.ID, &a.NormalizedLabel, &a.SupplierID, &a.AttributeID,
			&a.Confidence, &a.Ignored, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// InboxRepo inbox de etiquetas no reconocidas sobre PostgreSQL.
type InboxRepo struct {
	q Querier
}

// NewInboxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboxRepository(q Querier) *InboxRepo {
	return &InboxRepo{q: q}
}

const inboxColumns = `id, raw_label, normalized_label, origin, frequency, examples, COALESCE(suggested_attribute_id, ''),
	suggested_confidence, status, decided_by, decided_at, created_at, updated_at`

func scanInbox(row pgx.Row) (*entity.InboxItem, error) {
	var i entity.InboxItem
	err := row.Scan(&i.ID, &i.RawLabel, &i.NormalizedLabel, &i.Origin, &i.Frequency, &i.Examples,
		&i.SuggestedAttributeID, &i.SuggestedConfidence, &i.Status, &i.DecidedBy, &i.DecidedAt,
		&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByID obtiene un elemento del inbox.
func (r *InboxRepo) GetByID(ctx context.Context, id string) (*entity.InboxItem, error) {
	i, err := scanInbox(r.q.QueryRow(ctx, `SELECT `+inboxColumns+` FROM attribute_inbox WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbox item: %w", err)
	}
	return i, nil
}

// GetByLabel obtiene el elemento de una etiqueta normalizada y proveedor de origen.
func (r *InboxRepo) GetByLabel(ctx context.Context, normalizedLabel, origin string) (*entity.InboxItem, error) {
	query := `SELECT ` + inboxColumns + ` FROM attribute_inbox WHERE normalized_label = $1 AND origin = $2`
	i, err := scanInbox(r.q.QueryRow(ctx, query, normalizedLabel, origin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbox item by label: %w", err)
	}
	return i, nil
}

// Save inserta o actualiza por ID.
func (r *InboxRepo) Save(ctx context.Context, i *entity.InboxItem) error {
	query := `
		INSERT INTO attribute_inbox (id, raw_label, normalized_label, origin, frequency, examples, suggested_attribute_id,
			suggested_confidence, status, decided_by, decided_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			frequency = EXCLUDED.frequency, examples = EXCLUDED.examples,
			suggested_attribute_id = EXCLUDED.suggested_attribute_id, suggested_confidence = EXCLUDED.suggested_confidence,
			status = EXCLUDED.status, decided_by = EXCLUDED.decided_by, decided_at = EXCLUDED.decided_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, i.ID, i.RawLabel, i.NormalizedLabel, i.Origin, i.Frequency, strs(i.Examples),
		i.SuggestedAttributeID, i.SuggestedConfidence, i.Status, i.DecidedBy, i.DecidedAt, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save inbox item: %w", err)
	}
	return nil
}

// List filtra por estado (vacío = todos) ordenado por frecuencia descendente.
func (r *InboxRepo) List(ctx context.Context, status entity.InboxStatus, limit, offset int) ([]*entity.InboxItem, error) {
	query := `
		SELECT ` + inboxColumns + ` FROM attribute_inbox
		WHERE ($1 = '' OR status = $1)
		ORDER BY frequency DESC, normalized_label
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	defer rows.Close()
	var list []*entity.InboxItem
	for rows.Next() {
		i, err := scanInbox(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbox item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}
