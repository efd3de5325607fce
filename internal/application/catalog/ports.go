// Package catalog casos de uso del catálogo unificado: diccionario de atributos,
// árbol de categorías, mapeo de etiquetas, importación, vínculos y entradas.
// Toda escritura que afecta a una entrada termina en una intención de recomputación.
package catalog

import (
	"context"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain/conflict"
)

// Scheduler encola recomputaciones (implementado por recompute.Scheduler).
type Scheduler interface {
	Schedule(ctx context.Context, reason string, entryIDs ...string) error
	ScheduleAll(ctx context.Context) (int, error)
}

// Settings parámetros de negocio de los casos de uso.
type Settings struct {
	Locales             []string
	DefaultLocale       string
	AutoAccept          float64 // confianza mínima para aplicar un mapeo sin pasar por el inbox
	SimilarityThreshold float64 // puntaje mínimo del vínculo automático por similitud
	DefaultPriority     int
	SupplierPriorities  map[string]int
	Rules               conflict.Rules
}

// PriorityFor puntaje de prioridad de las filas del proveedor.
func (s Settings) PriorityFor(supplierID string) int {
	if p, ok := s.SupplierPriorities[supplierID]; ok {
		return p
	}
	return s.DefaultPriority
}

func (s Settings) locale(requested string) string {
	if l := strings.TrimSpace(requested); l != "" {
		return l
	}
	if s.DefaultLocale != "" {
		return s.DefaultLocale
	}
	if len(s.Locales) > 0 {
		return s.Locales[0]
	}
	return "es"
}
