package conflict

import (
	"fmt"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain"
)

// RuleKind estrategia cerrada de fuente preferida.
type RuleKind string

const (
	RulePriorityScore RuleKind = "priority"
	RuleFixedSupplier RuleKind = "supplier"
	RuleMostRecent    RuleKind = "most_recent"
	RuleOldest        RuleKind = "oldest"
)

// Rule regla de fuente preferida para un atributo. SupplierID solo aplica a RuleFixedSupplier.
type Rule struct {
	Kind       RuleKind
	SupplierID string
}

// DefaultRule ordena solo por puntaje de prioridad.
var DefaultRule = Rule{Kind: RulePriorityScore}

// FixedSupplier regla que prefiere siempre al proveedor indicado.
func FixedSupplier(id string) Rule { return Rule{Kind: RuleFixedSupplier, SupplierID: id} }

// String forma textual usada en configuración y en la justificación.
func (r Rule) String() string {
	if r.Kind == RuleFixedSupplier {
		return string(r.Kind) + ":" + r.SupplierID
	}
	if r.Kind == "" {
		return string(RulePriorityScore)
	}
	return string(r.Kind)
}

// ParseRule interpreta "priority", "most_recent", "oldest" o "supplier:<id>".
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	switch RuleKind(s) {
	case RulePriorityScore, "":
		return DefaultRule, nil
	case RuleMostRecent, RuleOldest:
		return Rule{Kind: RuleKind(s)}, nil
	}
	if id, ok := strings.CutPrefix(s, string(RuleFixedSupplier)+":"); ok && id != "" {
		return FixedSupplier(id), nil
	}
	return Rule{}, fmt.Errorf("regla %q: %w", s, domain.ErrInvalidInput)
}

// Rules reglas por code de atributo con una regla por defecto.
type Rules struct {
	Default Rule
	ByCode  map[string]Rule
}

// For devuelve la regla del atributo o la regla por defecto.
func (r Rules) For(attributeCode string) Rule {
	if rule, ok := r.ByCode[attributeCode]; ok {
		return rule
	}
	if r.Default.Kind == "" {
		return DefaultRule
	}
	return r.Default
}
