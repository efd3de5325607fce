package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/linking"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.SupplierEntityRepository = (*SupplierEntityRepo)(nil)
	_ repository.PriceRepository          = (*PriceRepo)(nil)
	_ repository.SourceValueRepository    = (*SourceValueRepo)(nil)
)

// SupplierEntityRepo entidades de proveedor en memoria.
type SupplierEntityRepo struct{ base }

func (r *SupplierEntityRepo) Upsert(_ context.Context, e *entity.SupplierEntity) error {
	return r.do(func(st *state) error {
		for id, cur := range st.entities {
			if cur.SupplierID == e.SupplierID && cur.ExternalID == e.ExternalID {
				e.ID = id
				e.CreatedAt = cur.CreatedAt
				break
			}
		}
		st.entities[e.ID] = *cloneEntity(*e)
		return nil
	})
}

func (r *SupplierEntityRepo) GetByID(_ context.Context, id string) (*entity.SupplierEntity, error) {
	var out *entity.SupplierEntity
	err := r.do(func(st *state) error {
		if e, ok := st.entities[id]; ok {
			out = cloneEntity(e)
		}
		return nil
	})
	return out, err
}

func (r *SupplierEntityRepo) GetByExternal(_ context.Context, supplierID, externalID string) (*entity.SupplierEntity, error) {
	var out *entity.SupplierEntity
	err := r.do(func(st *state) error {
		for _, e := range st.entities {
			if e.SupplierID == supplierID && e.ExternalID == externalID {
				out = cloneEntity(e)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *SupplierEntityRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.SupplierEntity, error) {
	var out []*entity.SupplierEntity
	err := r.do(func(st *state) error {
		for _, id := range ids {
			if e, ok := st.entities[id]; ok {
				out = append(out, cloneEntity(e))
			}
		}
		return nil
	})
	return out, err
}

func (r *SupplierEntityRepo) ListMatchCandidates(_ context.Context, primaryCode, secondaryCode, brand string) ([]*entity.SupplierEntity, error) {
	var out []*entity.SupplierEntity
	primary, secondary := linking.NormalizeCode(primaryCode), linking.NormalizeCode(secondaryCode)
	sameCode := func(norm, code string) bool { return norm != "" && norm == linking.NormalizeCode(code) }
	sameBrand := func(a, b string) bool { return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
	err := r.do(func(st *state) error {
		for _, e := range st.entities {
			if sameCode(primary, e.PrimaryCode) || sameCode(secondary, e.SecondaryCode) || sameBrand(brand, e.Brand) {
				out = append(out, cloneEntity(e))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// PriceRepo precios en memoria.
type PriceRepo struct{ base }

func (r *PriceRepo) Upsert(_ context.Context, p *entity.PriceRecord) error {
	return r.do(func(st *state) error {
		st.prices[p.SupplierEntityID+"|"+p.Classification] = *p
		return nil
	})
}

func (r *PriceRepo) ListByEntities(_ context.Context, entityIDs []string) ([]*entity.PriceRecord, error) {
	want := toSet(entityIDs)
	var out []*entity.PriceRecord
	err := r.do(func(st *state) error {
		for _, p := range st.prices {
			if want[p.SupplierEntityID] {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SupplierEntityID != out[j].SupplierEntityID {
			return out[i].SupplierEntityID < out[j].SupplierEntityID
		}
		return out[i].Classification < out[j].Classification
	})
	return out, err
}

// SourceValueRepo valores fuente en memoria.
type SourceValueRepo struct{ base }

func (r *SourceValueRepo) ReplaceForEntity(_ context.Context, entityID string, values []*entity.SourceValue) error {
	return r.do(func(st *state) error {
		previous := map[string]entity.SourceValue{}
		for id, v := range st.sourceValues {
			if v.SupplierEntityID == entityID {
				previous[v.RawLabel] = v
				delete(st.sourceValues, id)
			}
		}
		for _, v := range values {
			if old, ok := previous[v.RawLabel]; ok {
				v.ID = old.ID
				v.CreatedAt = old.CreatedAt
			}
			v.SupplierEntityID = entityID
			st.sourceValues[v.ID] = *v
		}
		return nil
	})
}

func (r *SourceValueRepo) ListByEntities(_ context.Context, entityIDs []string) ([]*entity.SourceValue, error) {
	want := toSet(entityIDs)
	var out []*entity.SourceValue
	err := r.do(func(st *state) error {
		for _, v := range st.sourceValues {
			if want[v.SupplierEntityID] {
				v := v
				out = append(out, &v)
			}
		}
		return nil
	})
	sortSourceValues(out)
	return out, err
}

func (r *SourceValueRepo) ListUnmapped(_ context.Context, normalizedLabel, supplierID string) ([]*entity.SourceValue, error) {
	var out []*entity.SourceValue
	err := r.do(func(st *state) error {
		for _, v := range st.sourceValues {
			if v.AttributeID != "" || v.NormalizedLabel != normalizedLabel {
				continue
			}
			if supplierID != "" && v.SupplierID != supplierID {
				continue
			}
			v := v
			out = append(out, &v)
		}
		return nil
	})
	sortSourceValues(out)
	return out, err
}

func (r *SourceValueRepo) Update(_ context.Context, v *entity.SourceValue) error {
	return r.do(func(st *state) error {
		st.sourceValues[v.ID] = *v
		return nil
	})
}

func sortSourceValues(list []*entity.SourceValue) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].SupplierEntityID != list[j].SupplierEntityID {
			return list[i].SupplierEntityID < list[j].SupplierEntityID
		}
		return list[i].RawLabel < list[j].RawLabel
	})
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
