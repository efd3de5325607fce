package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, "memory", cfg.App.QueueDriver)
	assert.Equal(t, []string{"es", "en"}, cfg.Catalog.Locales)
	assert.Equal(t, 0.7, cfg.Catalog.MappingAutoAccept)
	assert.Equal(t, 0.6, cfg.Catalog.LinkSimilarityThreshold)
	assert.Equal(t, 50, cfg.Catalog.PriorityFor("cualquiera"))
	assert.Equal(t, 4, cfg.Recompute.Workers)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("QUEUE_DRIVER", "redis")
	t.Setenv("CATALOG_LOCALES", " ru , en ,")
	t.Setenv("CATALOG_BASE_CURRENCY", "cop")
	t.Setenv("MAPPING_AUTO_ACCEPT", "0.85")
	t.Setenv("RESOLVER_SUPPLIER_PRIORITIES", "acme:90, globex:10")
	t.Setenv("RESOLVER_RULES", "color:supplier:acme,weight:most_recent")
	t.Setenv("RECOMPUTE_WORKERS", "0")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, "redis", cfg.App.QueueDriver)
	assert.Equal(t, []string{"ru", "en"}, cfg.Catalog.Locales)
	assert.Equal(t, "COP", cfg.Catalog.BaseCurrency)
	assert.Equal(t, 0.85, cfg.Catalog.MappingAutoAccept)
	assert.Equal(t, 90, cfg.Catalog.PriorityFor("acme"))
	assert.Equal(t, 10, cfg.Catalog.PriorityFor("globex"))
	assert.Equal(t, map[string]string{"color": "supplier:acme", "weight": "most_recent"}, cfg.Catalog.ResolverRules)
	assert.Equal(t, 1, cfg.Recompute.Workers, "al menos un worker")
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_PrioridadInvalida(t *testing.T) {
	t.Setenv("RESOLVER_SUPPLIER_PRIORITIES", "acme:alta")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "catalogo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/catalogo?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
