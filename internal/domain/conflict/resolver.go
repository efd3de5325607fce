// Package conflict elige un único valor activo por (entrada, atributo) entre las
// filas aportadas por cada proveedor y los overrides manuales.
package conflict

import (
	"fmt"
	"sort"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Outcome resultado de resolver un par (entrada, atributo).
type Outcome struct {
	Rows          []entity.AttributeValue // copias con Active/Conflict/ConflictCount/Rationale fijados
	ActiveIndex   int                     // índice en Rows; -1 si no hay valor
	Conflict      bool
	ConflictCount int
	Distinct      int
	Rationale     string
}

// Active devuelve la fila activa o nil.
func (o Outcome) Active() *entity.AttributeValue {
	if o.ActiveIndex < 0 {
		return nil
	}
	return &o.Rows[o.ActiveIndex]
}

// Resolve aplica, en orden: override manual (gana siempre, sin conflicto) → valor
// único → ranking por regla de fuente preferida, puntaje de prioridad y momento de
// inserción. Con varios valores distintos marca conflicto con count = distintos - 1.
// Es determinista: el resultado no depende del orden de las filas de entrada.
func Resolve(rows []entity.AttributeValue, rule Rule) Outcome {
	out := Outcome{Rows: make([]entity.AttributeValue, len(rows)), ActiveIndex: -1}
	copy(out.Rows, rows)
	for i := range out.Rows {
		out.Rows[i].Active = false
		out.Rows[i].Conflict = false
		out.Rows[i].ConflictCount = 0
		out.Rows[i].Rationale = ""
	}

	candidates := make([]int, 0, len(out.Rows))
	manual := -1
	for i := range out.Rows {
		r := &out.Rows[i]
		if r.Value.IsZero() {
			continue
		}
		if r.ManualOverride {
			if manual < 0 || r.UpdatedAt.After(out.Rows[manual].UpdatedAt) {
				manual = i
			}
			continue
		}
		candidates = append(candidates, i)
	}

	distinct := map[string]bool{}
	for _, i := range candidates {
		distinct[out.Rows[i].Value.Key()] = true
	}
	out.Distinct = len(distinct)

	if manual >= 0 {
		out.ActiveIndex = manual
		out.Rationale = "override manual"
		out.Rows[manual].Active = true
		out.Rows[manual].Rationale = out.Rationale
		return out
	}
	if len(candidates) == 0 {
		return out
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return ranksBefore(&out.Rows[candidates[a]], &out.Rows[candidates[b]], rule)
	})
	best := candidates[0]
	out.ActiveIndex = best

	if out.Distinct == 1 {
		out.Rationale = fmt.Sprintf("valor único (%d fuentes)", len(candidates))
	} else {
		out.Conflict = true
		out.ConflictCount = out.Distinct - 1
		out.Rationale = fmt.Sprintf("%d valores distintos; regla %s; prioridad %d",
			out.Distinct, rule.String(), out.Rows[best].PriorityScore)
	}
	for _, i := range candidates {
		out.Rows[i].Conflict = out.Conflict
		out.Rows[i].ConflictCount = out.ConflictCount
	}
	out.Rows[best].Active = true
	out.Rows[best].Rationale = out.Rationale
	return out
}

// ranksBefore orden total: regla → prioridad desc → inserción asc → SourceKey.
func ranksBefore(a, b *entity.AttributeValue, rule Rule) bool {
	switch rule.Kind {
	case RuleFixedSupplier:
		ap, bp := a.SupplierID == rule.SupplierID, b.SupplierID == rule.SupplierID
		if ap != bp {
			return ap
		}
	case RuleMostRecent:
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	case RuleOldest:
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.SourceKey < b.SourceKey
}
