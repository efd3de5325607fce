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

var _ repository.LinkRepository = (*LinkRepo)(nil)

// LinkRepo grafo de vínculos sobre PostgreSQL. La unicidad por entidad la garantiza
// la restricción UNIQUE(supplier_entity_id).
type LinkRepo struct {
	q Querier
}

// NewLinkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLinkRepository(q Querier) *LinkRepo {
	return &LinkRepo{q: q}
}

const linkColumns = `id, catalog_entry_id, supplier_entity_id, link_type, confidence, is_primary, needs_review,
	created_by, created_at, updated_at`

func scanLink(row pgx.Row) (*entity.EntityLink, error) {
	var l entity.EntityLink
	err := row.Scan(&l.ID, &l.CatalogEntryID, &l.SupplierEntityID, &l.Type, &l.Confidence, &l.IsPrimary,
		&l.NeedsReview, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LinkRepo) list(ctx context.Context, query string, args ...any) ([]*entity.EntityLink, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()
	var list []*entity.EntityLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create persiste un vínculo nuevo; si la entidad ya está vinculada devuelve domain.ErrAlreadyLinked.
func (r *LinkRepo) Create(ctx context.Context, l *entity.EntityLink) error {
	query := `INSERT INTO entity_links (` + linkColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, l.ID, l.CatalogEntryID, l.SupplierEntityID, l.Type, l.Confidence,
		l.IsPrimary, l.NeedsReview, l.CreatedBy, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyLinked
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// GetBySupplierEntity obtiene el vínculo de una entidad de proveedor.
func (r *LinkRepo) GetBySupplierEntity(ctx context.Context, supplierEntityID string) (*entity.EntityLink, error) {
	l, err := scanLink(r.q.QueryRow(ctx, `SELECT `+linkColumns+` FROM entity_links WHERE supplier_entity_id = $1`, supplierEntityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return l, nil
}

// ListByEntry vínculos de una entrada.
func (r *LinkRepo) ListByEntry(ctx context.Context, entryID string) ([]*entity.EntityLink, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM entity_links WHERE catalog_entry_id = $1 ORDER BY supplier_entity_id`, entryID)
}

// ListByEntities vínculos existentes de las entidades dadas.
func (r *LinkRepo) ListByEntities(ctx context.Context, supplierEntityIDs []string) ([]*entity.EntityLink, error) {
	if len(supplierEntityIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+linkColumns+` FROM entity_links WHERE supplier_entity_id = ANY($1) ORDER BY supplier_entity_id`, supplierEntityIDs)
}

// Update actualiza entrada, tipo, confianza y banderas del vínculo de la entidad.
func (r *LinkRepo) Update(ctx context.Context, l *entity.EntityLink) error {
	query := `
		UPDATE entity_links SET catalog_entry_id = $2, link_type = $3, confidence = $4, is_primary = $5,
			needs_review = $6, updated_at = $7
		WHERE supplier_entity_id = $1`
	cmd, err := r.q.Exec(ctx, query, l.SupplierEntityID, l.CatalogEntryID, l.Type, l.Confidence,
		l.IsPrimary, l.NeedsReview, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update link: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el vínculo de la entidad.
func (r *LinkRepo) Delete(ctx context.Context, supplierEntityID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM entity_links WHERE supplier_entity_id = $1`, supplierEntityID); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}
