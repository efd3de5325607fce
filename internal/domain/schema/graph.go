// Package schema resuelve el esquema de atributos de una categoría heredando
// bindings a lo largo del árbol (raíz → categoría).
package schema

import (
	"fmt"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const noParent = -1

type node struct {
	category *entity.Category
	parent   int
	bindings map[string]*entity.CategoryAttributeBinding // por AttributeID
}

// Graph árbol de categorías como arena plana con índice de padre (sin referencias vivas).
type Graph struct {
	nodes []node
	index map[string]int
}

// NewGraph construye la arena. Falla con ErrNotFound si un padre no existe y con
// ErrCycle si el árbol tiene ciclos.
func NewGraph(categories []*entity.Category, bindings []*entity.CategoryAttributeBinding) (*Graph, error) {
	g := &Graph{
		nodes: make([]node, 0, len(categories)),
		index: make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if _, dup := g.index[c.ID]; dup {
			return nil, fmt.Errorf("categoría %s repetida: %w", c.ID, domain.ErrDuplicate)
		}
		g.index[c.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node{category: c, parent: noParent, bindings: map[string]*entity.CategoryAttributeBinding{}})
	}
	for i := range g.nodes {
		pid := g.nodes[i].category.ParentID
		if pid == "" {
			continue
		}
		p, ok := g.index[pid]
		if !ok {
			return nil, fmt.Errorf("padre %s de %s: %w", pid, g.nodes[i].category.ID, domain.ErrNotFound)
		}
		g.nodes[i].parent = p
	}
	for _, b := range bindings {
		i, ok := g.index[b.CategoryID]
		if !ok {
			continue
		}
		g.nodes[i].bindings[b.AttributeID] = b
	}
	for i := range g.nodes {
		if _, err := g.chain(i); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Has indica si la categoría existe.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// chain devuelve los índices raíz → i. La longitud está acotada por la cantidad de nodos.
func (g *Graph) chain(i int) ([]int, error) {
	stack := make([]int, 0, 8)
	for cur := i; cur != noParent; cur = g.nodes[cur].parent {
		if len(stack) > len(g.nodes) {
			return nil, fmt.Errorf("categoría %s: %w", g.nodes[i].category.ID, domain.ErrCycle)
		}
		stack = append(stack, cur)
	}
	for l, r := 0, len(stack)-1; l < r; l, r = l+1, r-1 {
		stack[l], stack[r] = stack[r], stack[l]
	}
	return stack, nil
}

// Ancestors ids raíz → categoría (incluida).
func (g *Graph) Ancestors(id string) ([]string, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	idx, err := g.chain(i)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idx))
	for k, n := range idx {
		out[k] = g.nodes[n].category.ID
	}
	return out, nil
}

// Subtree ids de la categoría y todos sus descendientes.
func (g *Graph) Subtree(id string) []string {
	root, ok := g.index[id]
	if !ok {
		return nil
	}
	children := make(map[int][]int, len(g.nodes))
	for i := range g.nodes {
		if p := g.nodes[i].parent; p != noParent {
			children[p] = append(children[p], i)
		}
	}
	var out []string
	queue := []int{root}
	seen := make(map[int]bool, len(g.nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, g.nodes[cur].category.ID)
		queue = append(queue, children[cur]...)
	}
	return out
}

// ValidateParent comprueba que mover childID bajo parentID no crea un ciclo.
// parentID vacío (mover a raíz) siempre es válido.
func (g *Graph) ValidateParent(childID, parentID string) error {
	if parentID == "" {
		return nil
	}
	if _, ok := g.index[parentID]; !ok {
		return fmt.Errorf("padre %s: %w", parentID, domain.ErrNotFound)
	}
	if childID == "" {
		return nil
	}
	if childID == parentID {
		return domain.ErrCycle
	}
	ancestors, err := g.Ancestors(parentID)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a == childID {
			return domain.ErrCycle
		}
	}
	return nil
}
