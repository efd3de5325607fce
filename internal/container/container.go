// Package container arma las dependencias del servicio según la configuración
// (almacenamiento postgres|memory, cola memory|redis) para los binarios de cmd/.
package container

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/recompute"
	"github.com/jhoicas/catalogo-api/internal/domain/conflict"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/queue"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

// Container componentes inicializados.
type Container struct {
	Config *config.Config

	Repos repository.Repositories
	Tx    repository.TxRunner
	Queue recompute.IntentQueue

	Scheduler  *recompute.Scheduler
	Pipeline   *recompute.Pipeline
	Dispatcher *recompute.Dispatcher

	Dictionary *catalog.DictionaryUseCase
	Categories *catalog.CategoryUseCase
	Mapping    *catalog.MappingUseCase
	Import     *catalog.ImportUseCase
	Links      *catalog.LinkUseCase
	Entries    *catalog.EntryUseCase

	db    *pgxpool.Pool
	redis *redis.Client
}

// New inicializa almacenamiento, cola, pipeline y casos de uso.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg}

	rules, err := resolverRules(cfg.Catalog.ResolverRules)
	if err != nil {
		return nil, err
	}

	// 1. Almacenamiento
	switch cfg.App.StorageDriver {
	case "memory":
		store := memory.NewStore()
		c.Repos = store.Repositories()
		c.Tx = memory.NewTxRunner(store)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.db = pool
		c.Repos = postgres.NewRepositories(pool)
		c.Tx = postgres.NewTxRunner(pool)
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER %q no soportado", cfg.App.StorageDriver)
	}

	// 2. Cola de intenciones y lock por entrada
	var locker recompute.EntryLocker
	switch cfg.App.QueueDriver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		c.redis = rdb
		q, err := queue.NewStreamQueue(ctx, rdb, queue.StreamConfig{
			Stream:   cfg.Redis.Stream,
			Group:    cfg.Redis.Group,
			Consumer: consumerName(),
		}, log.With().Str("component", "queue").Logger())
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Queue = q
		locker = queue.NewRedisLocker(rdb, time.Duration(cfg.Recompute.LockTTLSeconds)*time.Second, log)
		log.Info().Str("stream", cfg.Redis.Stream).Str("group", cfg.Redis.Group).Msg("cola de recomputación en Redis")
	case "memory", "":
		c.Queue = memory.NewIntentQueue(0)
		locker = memory.NewKeyedLocker()
	default:
		c.Close()
		return nil, fmt.Errorf("QUEUE_DRIVER %q no soportado", cfg.App.QueueDriver)
	}

	// 3. Pipeline de recomputación
	recomputeLog := log.With().Str("component", "recompute").Logger()
	c.Scheduler = recompute.NewScheduler(c.Queue, c.Repos.Entries, recomputeLog)
	c.Pipeline = recompute.NewPipeline(c.Repos, c.Tx, recompute.Settings{
		Locales:      cfg.Catalog.Locales,
		BaseCurrency: cfg.Catalog.BaseCurrency,
		Rules:        rules,
	}, recomputeLog)
	c.Dispatcher = recompute.NewDispatcher(c.Queue, locker, c.Pipeline, c.Repos.Entries, recompute.DispatcherConfig{
		Workers:     cfg.Recompute.Workers,
		MaxAttempts: cfg.Recompute.MaxAttempts,
	}, recomputeLog)

	// 4. Casos de uso
	settings := catalog.Settings{
		Locales:             cfg.Catalog.Locales,
		DefaultLocale:       cfg.Catalog.DefaultLocale,
		AutoAccept:          cfg.Catalog.MappingAutoAccept,
		SimilarityThreshold: cfg.Catalog.LinkSimilarityThreshold,
		DefaultPriority:     cfg.Catalog.DefaultPriority,
		SupplierPriorities:  cfg.Catalog.SupplierPriorities,
		Rules:               rules,
	}
	appLog := log.With().Str("component", "catalog").Logger()
	c.Dictionary = catalog.NewDictionaryUseCase(c.Repos.Attributes, appLog)
	c.Categories = catalog.NewCategoryUseCase(c.Repos, c.Tx, c.Scheduler, settings, appLog)
	c.Mapping = catalog.NewMappingUseCase(c.Repos, c.Tx, c.Scheduler, settings, appLog)
	c.Links = catalog.NewLinkUseCase(c.Repos, c.Tx, c.Scheduler, settings, appLog)
	c.Import = catalog.NewImportUseCase(c.Repos, c.Tx, c.Mapping, c.Links, c.Scheduler, settings, appLog)
	c.Entries = catalog.NewEntryUseCase(c.Repos, c.Scheduler, settings, appLog)
	return c, nil
}

// Close libera conexiones.
func (c *Container) Close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

// resolverRules interpreta RESOLVER_RULES (code -> regla).
func resolverRules(raw map[string]string) (conflict.Rules, error) {
	rules := conflict.Rules{Default: conflict.DefaultRule, ByCode: make(map[string]conflict.Rule, len(raw))}
	for code, s := range raw {
		rule, err := conflict.ParseRule(s)
		if err != nil {
			return conflict.Rules{}, fmt.Errorf("RESOLVER_RULES %s: %w", code, err)
		}
		rules.ByCode[strings.ToLower(code)] = rule
	}
	return rules, nil
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "catalogo"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
