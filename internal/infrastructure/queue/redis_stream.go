// Package queue implementa la cola de intenciones de recomputación sobre Redis Streams
// y el lock distribuido por entrada.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/recompute"
)

var _ recompute.IntentQueue = (*StreamQueue)(nil)

// StreamConfig parámetros del stream y del grupo de consumidores.
type StreamConfig struct {
	Stream   string
	Group    string
	Consumer string
	Block    time.Duration // espera de XREADGROUP
	MinIdle  time.Duration // mensajes pendientes más viejos que esto se reclaman (worker caído)
}

// StreamQueue cola sobre un stream de Redis con grupo de consumidores. Los mensajes no
// confirmados de un consumidor caído se recuperan con XAUTOCLAIM.
type StreamQueue struct {
	client *redis.Client
	cfg    StreamConfig
	log    zerolog.Logger
}

// NewStreamQueue crea el grupo (y el stream) si no existen.
func NewStreamQueue(ctx context.Context, client *redis.Client, cfg StreamConfig, log zerolog.Logger) (*StreamQueue, error) {
	if cfg.Block <= 0 {
		cfg.Block = 2 * time.Second
	}
	if cfg.MinIdle <= 0 {
		cfg.MinIdle = time.Minute
	}
	q := &StreamQueue{client: client, cfg: cfg, log: log}
	err := client.XGroupCreateMkStream(ctx, cfg.Stream, cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("crear grupo %s en %s: %w", cfg.Group, cfg.Stream, err)
	}
	return q, nil
}

// Enqueue agrega la intención con XADD.
func (q *StreamQueue) Enqueue(ctx context.Context, intent recompute.Intent) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.cfg.Stream,
		Values: map[string]interface{}{
			"entry_id":  intent.EntryID,
			"attempt":   intent.Attempt,
			"reason":    intent.Reason,
			"queued_at": intent.QueuedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", q.cfg.Stream, err)
	}
	return nil
}

// Dequeue reclama primero mensajes abandonados y luego lee mensajes nuevos.
func (q *StreamQueue) Dequeue(ctx context.Context) (*recompute.Intent, error) {
	claimed, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.cfg.Stream,
		Group:    q.cfg.Group,
		Consumer: q.cfg.Consumer,
		MinIdle:  q.cfg.MinIdle,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("xautoclaim %s: %w", q.cfg.Stream, err)
	}
	if len(claimed) > 0 {
		q.log.Warn().Str("message_id", claimed[0].ID).Msg("intención reclamada de un consumidor inactivo")
		return decodeIntent(claimed[0]), nil
	}

	result, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.cfg.Group,
		Consumer: q.cfg.Consumer,
		Streams:  []string{q.cfg.Stream, ">"},
		Count:    1,
		Block:    q.cfg.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("xreadgroup %s: %w", q.cfg.Stream, err)
	}
	if len(result) == 0 || len(result[0].Messages) == 0 {
		return nil, nil
	}
	return decodeIntent(result[0].Messages[0]), nil
}

// Ack confirma y borra el mensaje para que XLEN refleje solo lo pendiente.
func (q *StreamQueue) Ack(ctx context.Context, intent *recompute.Intent) error {
	if err := q.client.XAck(ctx, q.cfg.Stream, q.cfg.Group, intent.ID).Err(); err != nil {
		return fmt.Errorf("xack %s: %w", intent.ID, err)
	}
	if err := q.client.XDel(ctx, q.cfg.Stream, intent.ID).Err(); err != nil {
		return fmt.Errorf("xdel %s: %w", intent.ID, err)
	}
	return nil
}

// Len mensajes en el stream (en espera o en proceso).
func (q *StreamQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.XLen(ctx, q.cfg.Stream).Result()
	if err != nil {
		return 0, fmt.Errorf("xlen %s: %w", q.cfg.Stream, err)
	}
	return n, nil
}

func decodeIntent(msg redis.XMessage) *recompute.Intent {
	intent := &recompute.Intent{ID: msg.ID, Attempt: 1}
	if v, ok := msg.Values["entry_id"].(string); ok {
		intent.EntryID = v
	}
	if v, ok := msg.Values["reason"].(string); ok {
		intent.Reason = v
	}
	if v, ok := msg.Values["attempt"].(string); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			intent.Attempt = n
		}
	}
	if v, ok := msg.Values["queued_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			intent.QueuedAt = t
		}
	}
	return intent
}
