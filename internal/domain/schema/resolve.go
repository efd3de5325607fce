package schema

import (
	"sort"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ResolvedAttribute atributo efectivo de una categoría tras aplicar la herencia.
type ResolvedAttribute struct {
	Attribute   *entity.AttributeDefinition
	OriginID    string // categoría donde se vinculó
	Inherited   bool   // OriginID != categoría consultada
	Required    bool
	Visible     bool
	Position    *int
	Unit        string
	Constraints entity.Constraints
}

// Resolve recorre raíz → categoría acumulando un conjunto de trabajo por atributo:
// un binding deshabilitado quita el atributo; uno nuevo lo inserta; uno existente
// reemplaza solo sus campos no nulos (gana el último escritor por campo).
// Devuelve solo atributos activos, ordenados por posición y luego nombre visible.
// Es una función pura del estado actual del grafo.
func (g *Graph) Resolve(categoryID string, dictionary map[string]*entity.AttributeDefinition, locale string) ([]ResolvedAttribute, error) {
	i, ok := g.index[categoryID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	path, err := g.chain(i)
	if err != nil {
		return nil, err
	}

	working := make(map[string]*ResolvedAttribute)
	for _, n := range path {
		nd := g.nodes[n]
		for _, attrID := range sortedKeys(nd.bindings) {
			b := nd.bindings[attrID]
			if b.Disabled() {
				delete(working, attrID)
				continue
			}
			cur, exists := working[attrID]
			if !exists {
				def, known := dictionary[attrID]
				if !known {
					continue
				}
				cur = &ResolvedAttribute{
					Attribute: def,
					OriginID:  nd.category.ID,
					Visible:   true,
					Unit:      def.DefaultUnit,
				}
				working[attrID] = cur
			}
			apply(cur, b)
		}
	}

	out := make([]ResolvedAttribute, 0, len(working))
	for _, r := range working {
		r.Inherited = r.OriginID != categoryID
		out = append(out, *r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		pa, pb := out[a].Position, out[b].Position
		switch {
		case pa != nil && pb != nil && *pa != *pb:
			return *pa < *pb
		case pa != nil && pb == nil:
			return true
		case pa == nil && pb != nil:
			return false
		}
		na := strings.ToLower(out[a].Attribute.DisplayName(locale))
		nb := strings.ToLower(out[b].Attribute.DisplayName(locale))
		if na != nb {
			return na < nb
		}
		return out[a].Attribute.Code < out[b].Attribute.Code
	})
	return out, nil
}

func apply(r *ResolvedAttribute, b *entity.CategoryAttributeBinding) {
	if b.Required != nil {
		r.Required = *b.Required
	}
	if b.Visible != nil {
		r.Visible = *b.Visible
	}
	if b.Position != nil {
		p := *b.Position
		r.Position = &p
	}
	if b.UnitOverride != nil {
		r.Unit = *b.UnitOverride
	}
	if c := b.Constraints; !c.IsEmpty() {
		if c.Min != nil {
			r.Constraints.Min = c.Min
		}
		if c.Max != nil {
			r.Constraints.Max = c.Max
		}
		if c.MaxLength != nil {
			r.Constraints.MaxLength = c.MaxLength
		}
		if len(c.Options) > 0 {
			r.Constraints.Options = append([]string(nil), c.Options...)
		}
	}
}

func sortedKeys(m map[string]*entity.CategoryAttributeBinding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
