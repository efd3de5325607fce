// Package recompute mantiene al día los campos derivados de las entradas del catálogo:
// cada escritura produce una intención por entrada y un pool acotado de workers ejecuta
// resolución de conflictos, agregación y evaluación de publicabilidad.
package recompute

import (
	"context"
	"time"
)

// Intent pedido de recomputar una entrada.
type Intent struct {
	ID       string // recibo asignado por la cola (id del mensaje en Redis)
	EntryID  string
	Attempt  int
	Reason   string
	QueuedAt time.Time
}

// IntentQueue cola de intenciones de recomputación.
type IntentQueue interface {
	Enqueue(ctx context.Context, intent Intent) error
	// Dequeue espera hasta un intervalo corto; devuelve nil, nil si no llegó nada.
	Dequeue(ctx context.Context) (*Intent, error)
	// Ack confirma el procesamiento (éxito o reintento ya encolado).
	Ack(ctx context.Context, intent *Intent) error
	Len(ctx context.Context) (int64, error)
}

// EntryLocker exclusión mutua por entrada: un solo escritor por id a la vez.
type EntryLocker interface {
	Lock(ctx context.Context, entryID string) (unlock func(), err error)
}
