package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.AttributeRepository = (*AttributeRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.AliasRepository     = (*AliasRepo)(nil)
	_ repository.InboxRepository     = (*InboxRepo)(nil)
)

// AttributeRepo diccionario en memoria.
type AttributeRepo struct{ base }

func (r *AttributeRepo) Create(_ context.Context, a *entity.AttributeDefinition) error {
	return r.do(func(st *state) error {
		for _, cur := range st.attributes {
			if cur.Code == a.Code {
				return domain.ErrDuplicate
			}
		}
		st.attributes[a.ID] = *cloneAttribute(*a)
		return nil
	})
}

func (r *AttributeRepo) GetByID(_ context.Context, id string) (*entity.AttributeDefinition, error) {
	var out *entity.AttributeDefinition
	err := r.do(func(st *state) error {
		if a, ok := st.attributes[id]; ok {
			out = cloneAttribute(a)
		}
		return nil
	})
	return out, err
}

func (r *AttributeRepo) GetByCode(_ context.Context, code string) (*entity.AttributeDefinition, error) {
	var out *entity.AttributeDefinition
	err := r.do(func(st *state) error {
		for _, a := range st.attributes {
			if a.Code == code {
				out = cloneAttribute(a)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *AttributeRepo) List(_ context.Context) ([]*entity.AttributeDefinition, error) {
	var out []*entity.AttributeDefinition
	err := r.do(func(st *state) error {
		for _, a := range st.attributes {
			out = append(out, cloneAttribute(a))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *AttributeRepo) Update(_ context.Context, a *entity.AttributeDefinition) error {
	return r.do(func(st *state) error {
		cur, ok := st.attributes[a.ID]
		if !ok {
			return domain.ErrNotFound
		}
		upd := *cloneAttribute(*a)
		upd.Code = cur.Code // el code es inmutable
		upd.CreatedAt = cur.CreatedAt
		st.attributes[a.ID] = upd
		return nil
	})
}

func (r *AttributeRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		delete(st.attributes, id)
		return nil
	})
}

func (r *AttributeRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	found := false
	err := r.do(func(st *state) error {
		for _, b := range st.bindings {
			if b.AttributeID == id {
				found = true
				return nil
			}
		}
		for _, a := range st.aliases {
			if a.AttributeID == id {
				found = true
				return nil
			}
		}
		for _, v := range st.values {
			if v.AttributeID == id {
				found = true
				return nil
			}
		}
		for _, v := range st.sourceValues {
			if v.AttributeID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// CategoryRepo árbol de categorías en memoria.
type CategoryRepo struct{ base }

func bindingKey(categoryID, attributeID string) string { return categoryID + "|" + attributeID }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.do(func(st *state) error {
		if _, ok := st.categories[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if c.Code != "" {
			for _, cur := range st.categories {
				if cur.Code == c.Code {
					return domain.ErrDuplicate
				}
			}
		}
		st.categories[c.ID] = *cloneCategory(*c)
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.do(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = cloneCategory(c)
		}
		return nil
	})
	return out, err
}

// LockTree no hace nada: la transacción ya tiene el lock del almacén.
func (r *CategoryRepo) LockTree(context.Context) error { return nil }

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.do(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.categories[c.ID] = *cloneCategory(*c)
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.do(func(st *state) error {
		for _, c := range st.categories {
			out = append(out, cloneCategory(c))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *CategoryRepo) UpsertBinding(_ context.Context, b *entity.CategoryAttributeBinding) error {
	return r.do(func(st *state) error {
		st.bindings[bindingKey(b.CategoryID, b.AttributeID)] = *b
		return nil
	})
}

func (r *CategoryRepo) GetBinding(_ context.Context, categoryID, attributeID string) (*entity.CategoryAttributeBinding, error) {
	var out *entity.CategoryAttributeBinding
	err := r.do(func(st *state) error {
		if b, ok := st.bindings[bindingKey(categoryID, attributeID)]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) ListBindings(_ context.Context) ([]*entity.CategoryAttributeBinding, error) {
	var out []*entity.CategoryAttributeBinding
	err := r.do(func(st *state) error {
		for _, b := range st.bindings {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	return out, err
}

// AliasRepo índice de alias en memoria.
type AliasRepo struct{ base }

func (r *AliasRepo) Upsert(_ context.Context, a *entity.AliasEntry) error {
	return r.do(func(st *state) error {
		st.aliases[a.NormalizedLabel+"|"+a.SupplierID] = *a
		return nil
	})
}

func (r *AliasRepo) List(_ context.Context) ([]*entity.AliasEntry, error) {
	var out []*entity.AliasEntry
	err := r.do(func(st *state) error {
		for _, a := range st.aliases {
			a := a
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}

// InboxRepo inbox en memoria.
type InboxRepo struct{ base }

func (r *InboxRepo) GetByID(_ context.Context, id string) (*entity.InboxItem, error) {
	var out *entity.InboxItem
	err := r.do(func(st *state) error {
		if i, ok := st.inbox[id]; ok {
			out = cloneInbox(i)
		}
		return nil
	})
	return out, err
}

func (r *InboxRepo) GetByLabel(_ context.Context, normalizedLabel, origin string) (*entity.InboxItem, error) {
	var out *entity.InboxItem
	err := r.do(func(st *state) error {
		for _, i := range st.inbox {
			if i.NormalizedLabel == normalizedLabel && i.Origin == origin {
				out = cloneInbox(i)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *InboxRepo) Save(_ context.Context, item *entity.InboxItem) error {
	return r.do(func(st *state) error {
		st.inbox[item.ID] = *cloneInbox(*item)
		return nil
	})
}

func (r *InboxRepo) List(_ context.Context, status entity.InboxStatus, limit, offset int) ([]*entity.InboxItem, error) {
	var out []*entity.InboxItem
	err := r.do(func(st *state) error {
		for _, i := range st.inbox {
			if status == "" || i.Status == status {
				out = append(out, cloneInbox(i))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].NormalizedLabel < out[j].NormalizedLabel
	})
	return page(out, limit, offset), err
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
