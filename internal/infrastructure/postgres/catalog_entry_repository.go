package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CatalogEntryRepository = (*CatalogEntryRepo)(nil)

// CatalogEntryRepo entradas del catálogo sobre PostgreSQL.
type CatalogEntryRepo struct {
	q Querier
}

// NewCatalogEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogEntryRepository(q Querier) *CatalogEntryRepo {
	return &CatalogEntryRepo{q: q}
}

const catalogEntryColumns = `id, manual_names, manual_brand, COALESCE(manual_category_id, ''), names, brand,
	COALESCE(category_id, ''), barcode, vendor_code, media_count, stock, retail_min, retail_max, purchase_min,
	COALESCE(preferred_supplier_entity_id, ''), is_ready, blocking, warnings, quality_score,
	recompute_status, recompute_version, last_error, computed_at, created_at, updated_at`

func scanCatalogEntry(row pgx.Row) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	d := &e.Derived
	err := row.Scan(&e.ID, &e.ManualNames, &e.ManualBrand, &e.ManualCategoryID, &d.Names, &d.Brand,
		&d.CategoryID, &d.Barcode, &d.VendorCode, &d.MediaCount, &d.Stock, &d.RetailMin, &d.RetailMax, &d.PurchaseMin,
		&d.PreferredSupplierEntityID, &d.IsReady, &d.Blocking, &d.Warnings, &d.QualityScore,
		&e.RecomputeStatus, &e.StatusVersion, &e.LastError, &e.ComputedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste una entrada nueva (sin campos derivados todavía).
func (r *CatalogEntryRepo) Create(ctx context.Context, e *entity.CatalogEntry) error {
	query := `
		INSERT INTO catalog_entries (id, manual_names, manual_brand, manual_category_id, recompute_status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, texts(e.ManualNames), e.ManualBrand, e.ManualCategoryID,
		e.RecomputeStatus, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert catalog entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *CatalogEntryRepo) GetByID(ctx context.Context, id string) (*entity.CatalogEntry, error) {
	e, err := scanCatalogEntry(r.q.QueryRow(ctx, `SELECT `+catalogEntryColumns+` FROM catalog_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return e, nil
}

// Update persiste solo los campos manuales.
func (r *CatalogEntryRepo) Update(ctx context.Context, e *entity.CatalogEntry) error {
	query := `
		UPDATE catalog_entries SET manual_names = $2, manual_brand = $3, manual_category_id = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, e.ID, texts(e.ManualNames), e.ManualBrand, e.ManualCategoryID, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update catalog entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List entradas filtradas con paginación, de la más antigua a la más nueva.
func (r *CatalogEntryRepo) List(ctx context.Context, f repository.EntryFilter, limit, offset int) ([]*entity.CatalogEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("COALESCE(manual_category_id, category_id) = $%d", len(args)))
	}
	if f.Ready != nil {
		args = append(args, *f.Ready)
		where = append(where, fmt.Sprintf("is_ready = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("recompute_status = $%d", len(args)))
	}
	query := `SELECT ` + catalogEntryColumns + ` FROM catalog_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *CatalogEntryRepo) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog entry ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan catalog entry id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListIDs todos los ids de entradas.
func (r *CatalogEntryRepo) ListIDs(ctx context.Context) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM catalog_entries ORDER BY id`)
}

// ListIDsByCategories entradas cuya categoría efectiva está en la lista.
func (r *CatalogEntryRepo) ListIDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	return r.listIDs(ctx,
		`SELECT id FROM catalog_entries WHERE COALESCE(manual_category_id, category_id) = ANY($1) ORDER BY id`,
		categoryIDs)
}

// SaveDerived publica los campos derivados. Pasa a fresh solo si recompute_version no cambió
// desde la lectura del pipeline.
func (r *CatalogEntryRepo) SaveDerived(ctx context.Context, id string, d entity.EntryDerived, computedAt time.Time, readVersion int64) (bool, error) {
	query := `
		UPDATE catalog_entries SET names = $2, brand = $3, category_id = NULLIF($4, ''), barcode = $5, vendor_code = $6,
			media_count = $7, stock = $8, retail_min = $9, retail_max = $10, purchase_min = $11,
			preferred_supplier_entity_id = NULLIF($12, ''), is_ready = $13, blocking = $14, warnings = $15,
			quality_score = $16, computed_at = $18,
			recompute_status = CASE WHEN recompute_version = $19 THEN $17 ELSE recompute_status END,
			last_error = CASE WHEN recompute_version = $19 THEN '' ELSE last_error END
		WHERE id = $1
		RETURNING recompute_version = $19`
	var fresh bool
	err := r.q.QueryRow(ctx, query, id, texts(d.Names), d.Brand, d.CategoryID, d.Barcode, d.VendorCode,
		d.MediaCount, d.Stock, d.RetailMin, d.RetailMax, d.PurchaseMin, d.PreferredSupplierEntityID,
		d.IsReady, reasons(d.Blocking), reasons(d.Warnings), d.QualityScore, entity.RecomputeFresh, computedAt,
		readVersion).Scan(&fresh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("save derived fields: %w", err)
	}
	return fresh, nil
}

// SetRecomputeStatus actualiza el indicador de recomputación y el último error.
func (r *CatalogEntryRepo) SetRecomputeStatus(ctx context.Context, id, status, lastError string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE catalog_entries SET recompute_status = $2, last_error = $3, recompute_version = recompute_version + 1 WHERE id = $1`,
		id, status, lastError)
	if err != nil {
		return fmt.Errorf("set recompute status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
