package recompute

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// DispatcherConfig tamaño del pool y política de reintentos.
type DispatcherConfig struct {
	Workers     int
	MaxAttempts int
}

// Dispatcher consume la cola con un pool acotado de workers. Un fallo reencola la misma
// entrada con attempt+1; al agotar MaxAttempts la entrada queda en failed con el error.
type Dispatcher struct {
	queue    IntentQueue
	locker   EntryLocker
	pipeline *Pipeline
	entries  repository.CatalogEntryRepository
	cfg      DispatcherConfig
	log      zerolog.Logger
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(
	queue IntentQueue,
	locker EntryLocker,
	pipeline *Pipeline,
	entries repository.CatalogEntryRepository,
	cfg DispatcherConfig,
	log zerolog.Logger,
) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Dispatcher{queue: queue, locker: locker, pipeline: pipeline, entries: entries, cfg: cfg, log: log}
}

// Run procesa intenciones hasta que se cancele ctx.
func (d *Dispatcher) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	g.SetLimit(d.cfg.Workers)
	d.log.Info().Int("workers", d.cfg.Workers).Msg("dispatcher de recomputación iniciado")
	for ctx.Err() == nil {
		intent, err := d.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			d.log.Error().Err(err).Msg("leer cola de recomputación")
			sleep(ctx, time.Second)
			continue
		}
		if intent == nil {
			continue
		}
		g.Go(func() error {
			d.handle(ctx, intent)
			return nil
		})
	}
	_ = g.Wait()
	d.log.Info().Msg("dispatcher de recomputación detenido")
	return nil
}

// Drain procesa lo que haya en la cola, incluidos los reintentos, y vuelve cuando queda vacía.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	processed := 0
	for {
		g := new(errgroup.Group)
		g.SetLimit(d.cfg.Workers)
		n := 0
		for {
			intent, err := d.queue.Dequeue(ctx)
			if err != nil {
				_ = g.Wait()
				return processed + n, err
			}
			if intent == nil {
				break
			}
			n++
			g.Go(func() error {
				d.handle(ctx, intent)
				return nil
			})
		}
		_ = g.Wait()
		processed += n
		if n == 0 {
			return processed, nil
		}
	}
}

// RecomputeNow recalcula las entradas dadas sin pasar por la cola, con el mismo pool y lock.
func (d *Dispatcher) RecomputeNow(ctx context.Context, entryIDs []string) (ready, failed int, err error) {
	type result struct{ ready, failed bool }
	results := make([]result, len(entryIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for i, id := range entryIDs {
		g.Go(func() error {
			report, err := d.recompute(gctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				d.log.Error().Err(err).Str("entry_id", id).Msg("recomputación fallida")
				_ = d.entries.SetRecomputeStatus(gctx, id, entity.RecomputeFailed, err.Error())
				results[i].failed = true
				return nil
			}
			results[i].ready = report.IsReady
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	for _, r := range results {
		if r.ready {
			ready++
		}
		if r.failed {
			failed++
		}
	}
	return ready, failed, nil
}

func (d *Dispatcher) recompute(ctx context.Context, entryID string) (*Report, error) {
	unlock, err := d.locker.Lock(ctx, entryID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return d.pipeline.Recompute(ctx, entryID)
}

func (d *Dispatcher) handle(ctx context.Context, intent *Intent) {
	log := d.log.With().Str("entry_id", intent.EntryID).Int("attempt", intent.Attempt).Str("reason", intent.Reason).Logger()
	_, err := d.recompute(ctx, intent.EntryID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		log.Warn().Msg("entrada eliminada; intención descartada")
	case ctx.Err() != nil:
		// Sin ack: en Redis el mensaje queda pendiente y otro consumidor lo reclama.
		return
	default:
		d.retry(ctx, intent, err, log)
	}
	if err := d.queue.Ack(ctx, intent); err != nil {
		log.Error().Err(err).Msg("ack de intención")
	}
}

func (d *Dispatcher) retry(ctx context.Context, intent *Intent, cause error, log zerolog.Logger) {
	if intent.Attempt >= d.cfg.MaxAttempts {
		log.Error().Err(cause).Msg("recomputación fallida; reintentos agotados")
		if err := d.entries.SetRecomputeStatus(ctx, intent.EntryID, entity.RecomputeFailed, cause.Error()); err != nil {
			log.Error().Err(err).Msg("marcar entrada como failed")
		}
		return
	}
	log.Warn().Err(cause).Msg("recomputación fallida; se reintenta")
	if err := d.entries.SetRecomputeStatus(ctx, intent.EntryID, entity.RecomputePending, cause.Error()); err != nil {
		log.Error().Err(err).Msg("marcar entrada como pending")
	}
	next := Intent{EntryID: intent.EntryID, Attempt: intent.Attempt + 1, Reason: intent.Reason, QueuedAt: time.Now()}
	if err := d.queue.Enqueue(ctx, next); err != nil {
		log.Error().Err(err).Msg("reencolar intención")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
