package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.LinkRepository           = (*LinkRepo)(nil)
	_ repository.AttributeValueRepository = (*AttributeValueRepo)(nil)
	_ repository.CatalogEntryRepository   = (*CatalogEntryRepo)(nil)
)

// LinkRepo vínculos en memoria, indexados por entidad de proveedor.
type LinkRepo struct{ base }

func (r *LinkRepo) Create(_ context.Context, l *entity.EntityLink) error {
	return r.do(func(st *state) error {
		if _, ok := st.links[l.SupplierEntityID]; ok {
			return domain.ErrAlreadyLinked
		}
		st.links[l.SupplierEntityID] = *l
		return nil
	})
}

func (r *LinkRepo) GetBySupplierEntity(_ context.Context, supplierEntityID string) (*entity.EntityLink, error) {
	var out *entity.EntityLink
	err := r.do(func(st *state) error {
		if l, ok := st.links[supplierEntityID]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LinkRepo) ListByEntry(_ context.Context, entryID string) ([]*entity.EntityLink, error) {
	var out []*entity.EntityLink
	err := r.do(func(st *state) error {
		for _, l := range st.links {
			if l.CatalogEntryID == entryID {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sortLinks(out)
	return out, err
}

func (r *LinkRepo) ListByEntities(_ context.Context, supplierEntityIDs []string) ([]*entity.EntityLink, error) {
	var out []*entity.EntityLink
	err := r.do(func(st *state) error {
		for _, id := range supplierEntityIDs {
			if l, ok := st.links[id]; ok {
				out = append(out, &l)
			}
		}
		return nil
	})
	sortLinks(out)
	return out, err
}

func (r *LinkRepo) Update(_ context.Context, l *entity.EntityLink) error {
	return r.do(func(st *state) error {
		if _, ok := st.links[l.SupplierEntityID]; !ok {
			return domain.ErrNotFound
		}
		st.links[l.SupplierEntityID] = *l
		return nil
	})
}

func (r *LinkRepo) Delete(_ context.Context, supplierEntityID string) error {
	return r.do(func(st *state) error {
		delete(st.links, supplierEntityID)
		return nil
	})
}

func sortLinks(list []*entity.EntityLink) {
	sort.Slice(list, func(i, j int) bool { return list[i].SupplierEntityID < list[j].SupplierEntityID })
}

// AttributeValueRepo candidatos de valor en memoria.
type AttributeValueRepo struct{ base }

func valueKey(entryID, attributeID, sourceKey string) string {
	return entryID + "|" + attributeID + "|" + sourceKey
}

func (r *AttributeValueRepo) ListByEntry(_ context.Context, entryID string) ([]*entity.AttributeValue, error) {
	return r.list(func(v entity.AttributeValue) bool { return v.CatalogEntryID == entryID })
}

func (r *AttributeValueRepo) ListByEntryAttribute(_ context.Context, entryID, attributeID string) ([]*entity.AttributeValue, error) {
	return r.list(func(v entity.AttributeValue) bool {
		return v.CatalogEntryID == entryID && v.AttributeID == attributeID
	})
}

func (r *AttributeValueRepo) list(keep func(entity.AttributeValue) bool) ([]*entity.AttributeValue, error) {
	var out []*entity.AttributeValue
	err := r.do(func(st *state) error {
		for _, v := range st.values {
			if keep(v) {
				v := v
				out = append(out, &v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].AttributeID != out[j].AttributeID {
			return out[i].AttributeID < out[j].AttributeID
		}
		return out[i].SourceKey < out[j].SourceKey
	})
	return out, err
}

func (r *AttributeValueRepo) Upsert(_ context.Context, v *entity.AttributeValue) error {
	return r.do(func(st *state) error {
		key := valueKey(v.CatalogEntryID, v.AttributeID, v.SourceKey)
		if cur, ok := st.values[key]; ok && !cur.CreatedAt.IsZero() {
			v.CreatedAt = cur.CreatedAt
		}
		st.values[key] = *v
		return nil
	})
}

func (r *AttributeValueRepo) Delete(_ context.Context, entryID, attributeID, sourceKey string) error {
	return r.do(func(st *state) error {
		delete(st.values, valueKey(entryID, attributeID, sourceKey))
		return nil
	})
}

// CatalogEntryRepo entradas del catálogo en memoria.
type CatalogEntryRepo struct{ base }

func (r *CatalogEntryRepo) Create(_ context.Context, e *entity.CatalogEntry) error {
	return r.do(func(st *state) error {
		if _, ok := st.entries[e.ID]; ok {
			return domain.ErrDuplicate
		}
		st.entries[e.ID] = *cloneEntry(*e)
		return nil
	})
}

func (r *CatalogEntryRepo) GetByID(_ context.Context, id string) (*entity.CatalogEntry, error) {
	var out *entity.CatalogEntry
	err := r.do(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			out = cloneEntry(e)
		}
		return nil
	})
	return out, err
}

func (r *CatalogEntryRepo) Update(_ context.Context, e *entity.CatalogEntry) error {
	return r.do(func(st *state) error {
		cur, ok := st.entries[e.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.ManualNames = e.ManualNames.Clone()
		cur.ManualBrand = e.ManualBrand
		cur.ManualCategoryID = e.ManualCategoryID
		cur.UpdatedAt = e.UpdatedAt
		st.entries[e.ID] = cur
		return nil
	})
}

func (r *CatalogEntryRepo) List(_ context.Context, f repository.EntryFilter, limit, offset int) ([]*entity.CatalogEntry, error) {
	var out []*entity.CatalogEntry
	err := r.do(func(st *state) error {
		for _, e := range st.entries {
			if f.CategoryID != "" && effectiveCategory(e) != f.CategoryID {
				continue
			}
			if f.Ready != nil && e.Derived.IsReady != *f.Ready {
				continue
			}
			if f.Status != "" && e.RecomputeStatus != f.Status {
				continue
			}
			out = append(out, cloneEntry(e))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), err
}

func (r *CatalogEntryRepo) ListIDs(_ context.Context) ([]string, error) {
	var out []string
	err := r.do(func(st *state) error {
		for id := range st.entries {
			out = append(out, id)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *CatalogEntryRepo) ListIDsByCategories(_ context.Context, categoryIDs []string) ([]string, error) {
	want := toSet(categoryIDs)
	var out []string
	err := r.do(func(st *state) error {
		for id, e := range st.entries {
			if want[effectiveCategory(e)] {
				out = append(out, id)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *CatalogEntryRepo) SaveDerived(_ context.Context, id string, d entity.EntryDerived, computedAt time.Time, readVersion int64) (bool, error) {
	var fresh bool
	err := r.do(func(st *state) error {
		cur, ok := st.entries[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Derived = d
		cur.ComputedAt = &computedAt
		if cur.StatusVersion == readVersion {
			cur.RecomputeStatus = entity.RecomputeFresh
			cur.LastError = ""
			fresh = true
		}
		st.entries[id] = *cloneEntry(cur)
		return nil
	})
	return fresh, err
}

func (r *CatalogEntryRepo) SetRecomputeStatus(_ context.Context, id, status, lastError string) error {
	return r.do(func(st *state) error {
		cur, ok := st.entries[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.RecomputeStatus = status
		cur.LastError = lastError
		cur.StatusVersion++
		st.entries[id] = cur
		return nil
	})
}

func effectiveCategory(e entity.CatalogEntry) string {
	if e.ManualCategoryID != "" {
		return e.ManualCategoryID
	}
	return e.Derived.CategoryID
}
