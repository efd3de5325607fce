package catalog_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/container"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

const operator = "op-1"

type testEnv struct {
	ctx context.Context
	c   *container.Container
}

// newEnv contenedor completo sobre el almacenamiento y la cola en memoria.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnvWith(t, nil)
}

// newEnvWith como newEnv, con ajustes sobre la configuración base.
func newEnvWith(t *testing.T, tune func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{Env: "test", StorageDriver: "memory", QueueDriver: "memory"},
		Recompute: config.RecomputeConfig{Workers: 2, MaxAttempts: 2},
		Catalog: config.CatalogConfig{
			Locales:                 []string{"es", "en"},
			DefaultLocale:           "es",
			MappingAutoAccept:       0.7,
			LinkSimilarityThreshold: 0.6,
			DefaultPriority:         50,
			SupplierPriorities:      map[string]int{"acme": 80, "globex": 40},
			ResolverRules:           map[string]string{"color": "most_recent"},
		},
	}
	if tune != nil {
		tune(cfg)
	}
	c, err := container.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return &testEnv{ctx: context.Background(), c: c}
}

// drain procesa todas las recomputaciones pendientes.
func (e *testEnv) drain(t *testing.T) {
	t.Helper()
	_, err := e.c.Dispatcher.Drain(e.ctx)
	require.NoError(t, err)
}

func (e *testEnv) attribute(t *testing.T, code, valueType string, names map[string]string) string {
	t.Helper()
	a, err := e.c.Dictionary.Create(e.ctx, dto.CreateAttributeRequest{Code: code, ValueType: valueType, Names: names})
	require.NoError(t, err)
	return a.ID
}

func (e *testEnv) category(t *testing.T, id, parent string) {
	t.Helper()
	_, err := e.c.Categories.Create(e.ctx, dto.CreateCategoryRequest{ID: id, ParentID: parent, Names: map[string]string{"es": id}})
	require.NoError(t, err)
}

func (e *testEnv) importOne(t *testing.T, rec dto.ImportEntityRequest) dto.ImportEntityResult {
	t.Helper()
	out, err := e.c.Import.ImportEntities(e.ctx, dto.ImportEntitiesRequest{Entities: []dto.ImportEntityRequest{rec}})
	require.NoError(t, err)
	require.Empty(t, out.Errors)
	require.Len(t, out.Results, 1)
	return out.Results[0]
}

func prices(retail, purchase int64) []dto.PriceInput {
	return []dto.PriceInput{
		{Classification: "retail", Value: decimal.NewFromInt(retail), Currency: "cop"},
		{Classification: "purchase", Value: decimal.NewFromInt(purchase), Currency: "COP"},
	}
}

// drill registro de proveedor completo (listo para publicar salvo advertencias).
func drill(supplier, externalID, code string, weight string) dto.ImportEntityRequest {
	return dto.ImportEntityRequest{
		SupplierID:  supplier,
		ExternalID:  externalID,
		CategoryID:  "tools",
		Names:       map[string]string{"es": "Taladro percutor " + supplier},
		Brand:       "Bosch",
		PrimaryCode: code,
		Stock:       3,
		Attributes:  map[string]string{"Peso, kg": weight, "Material": "acero"},
		Prices:      prices(150, 100),
	}
}
