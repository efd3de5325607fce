package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/recompute"
)

const (
	testStream = "catalog:recompute"
	testGroup  = "workers"
)

// newStreamQueue cola sobre un Redis en memoria (miniredis).
func newStreamQueue(t *testing.T, mr *miniredis.Miniredis, consumer string, minIdle time.Duration) *StreamQueue {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	q, err := NewStreamQueue(context.Background(), client, StreamConfig{
		Stream:   testStream,
		Group:    testGroup,
		Consumer: consumer,
		Block:    10 * time.Millisecond,
		MinIdle:  minIdle,
	}, zerolog.Nop())
	require.NoError(t, err)
	return q
}

func TestStreamQueue_EncolarLeerConfirmar(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	q := newStreamQueue(t, mr, "w1", time.Hour)
	// el grupo ya existe: BUSYGROUP no es error
	_ = newStreamQueue(t, mr, "w1", time.Hour)

	queuedAt := time.Date(2026, 3, 1, 10, 30, 0, 123456789, time.UTC)
	require.NoError(t, q.Enqueue(ctx, recompute.Intent{EntryID: "entry-1", Attempt: 3, Reason: "import", QueuedAt: queuedAt}))
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	intent, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.NotEmpty(t, intent.ID)
	assert.Equal(t, "entry-1", intent.EntryID)
	assert.Equal(t, 3, intent.Attempt)
	assert.Equal(t, "import", intent.Reason)
	assert.True(t, queuedAt.Equal(intent.QueuedAt), "queued_at conserva los nanosegundos")

	// sin mensajes nuevos ni abandonados
	empty, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)

	// en proceso sigue contando hasta confirmar
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, q.Ack(ctx, intent))
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStreamQueue_ReclamaMensajeDeConsumidorInactivo(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	caido := newStreamQueue(t, mr, "w1", time.Hour)
	vivo := newStreamQueue(t, mr, "w2", 5*time.Millisecond)

	require.NoError(t, caido.Enqueue(ctx, recompute.Intent{EntryID: "entry-2", Attempt: 1, QueuedAt: time.Now()}))
	leido, err := caido.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, leido)

	// w1 nunca confirma; pasado MinIdle w2 lo reclama con el mismo id
	time.Sleep(30 * time.Millisecond)
	reclamado, err := vivo.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, reclamado)
	assert.Equal(t, leido.ID, reclamado.ID)
	assert.Equal(t, "entry-2", reclamado.EntryID)

	require.NoError(t, vivo.Ack(ctx, reclamado))
	n, err := vivo.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecodeIntent(t *testing.T) {
	queuedAt := time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)
	intent := decodeIntent(redis.XMessage{ID: "1-0", Values: map[string]interface{}{
		"entry_id":  "entry-1",
		"reason":    "relink",
		"attempt":   "4",
		"queued_at": queuedAt.Format(time.RFC3339Nano),
	}})
	assert.Equal(t, "1-0", intent.ID)
	assert.Equal(t, "entry-1", intent.EntryID)
	assert.Equal(t, "relink", intent.Reason)
	assert.Equal(t, 4, intent.Attempt)
	assert.True(t, queuedAt.Equal(intent.QueuedAt))

	// valores inválidos: attempt vuelve a 1 y queued_at queda en cero
	intent = decodeIntent(redis.XMessage{ID: "2-0", Values: map[string]interface{}{
		"entry_id":  "entry-2",
		"attempt":   "0",
		"queued_at": "ayer",
	}})
	assert.Equal(t, 1, intent.Attempt)
	assert.True(t, intent.QueuedAt.IsZero())

	intent = decodeIntent(redis.XMessage{ID: "3-0", Values: map[string]interface{}{"attempt": "x"}})
	assert.Equal(t, 1, intent.Attempt)
	assert.Empty(t, intent.EntryID)
}
