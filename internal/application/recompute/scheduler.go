package recompute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// Motivos de recomputación (solo informativos, quedan en logs).
const (
	ReasonImport   = "import"
	ReasonMapping  = "mapping"
	ReasonLink     = "link"
	ReasonSchema   = "schema"
	ReasonOverride = "override"
	ReasonEntry    = "entry"
	ReasonRebuild  = "rebuild"
)

// Scheduler marca entradas como pendientes y encola su recomputación.
type Scheduler struct {
	queue   IntentQueue
	entries repository.CatalogEntryRepository
	log     zerolog.Logger
	now     func() time.Time
}

// NewScheduler construye el planificador.
func NewScheduler(queue IntentQueue, entries repository.CatalogEntryRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{queue: queue, entries: entries, log: log, now: time.Now}
}

// Schedule encola una intención por cada entrada distinta. Las entradas que ya no
// existen se ignoran.
func (s *Scheduler) Schedule(ctx context.Context, reason string, entryIDs ...string) error {
	seen := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if err := s.entries.SetRecomputeStatus(ctx, id, entity.RecomputePending, ""); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return fmt.Errorf("marcar pendiente %s: %w", id, err)
		}
		intent := Intent{EntryID: id, Attempt: 1, Reason: reason, QueuedAt: s.now()}
		if err := s.queue.Enqueue(ctx, intent); err != nil {
			return fmt.Errorf("encolar %s: %w", id, err)
		}
		s.log.Debug().Str("entry_id", id).Str("reason", reason).Msg("recomputación encolada")
	}
	return nil
}

// ScheduleAll encola todas las entradas del catálogo.
func (s *Scheduler) ScheduleAll(ctx context.Context) (int, error) {
	ids, err := s.entries.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Schedule(ctx, ReasonRebuild, ids...); err != nil {
		return 0, err
	}
	return len(ids), nil
}
