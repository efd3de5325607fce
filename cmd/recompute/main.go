// Comando recompute: recalcula todas las entradas del catálogo (o las indicadas como
// argumentos) sin pasar por la cola. Útil tras cambiar reglas de resolución o prioridades.
//
//	go run ./cmd/recompute [entry-id ...]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/catalogo-api/internal/container"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "recompute"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	ids := os.Args[1:]
	if len(ids) == 0 {
		ids, err = c.Repos.Entries.ListIDs(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("listar entradas")
		}
	}

	start := time.Now()
	ready, failed, err := c.Dispatcher.RecomputeNow(ctx, ids)
	if err != nil {
		log.Fatal().Err(err).Msg("recomputación interrumpida")
	}
	log.Info().
		Int("entries", len(ids)).
		Int("ready", ready).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("recomputación completa")
	if failed > 0 {
		os.Exit(1)
	}
}
