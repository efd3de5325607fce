package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/memory"
)

func TestTxRunner_RollbackRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	tx := memory.NewTxRunner(store)

	boom := errors.New("boom")
	err := tx.Run(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Entries.Create(ctx, &entity.CatalogEntry{ID: "e1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err := repos.Entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, tx.Run(ctx, func(r repository.Repositories) error {
		return r.Entries.Create(ctx, &entity.CatalogEntry{ID: "e1"})
	}))
	got, err = repos.Entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestLinkRepo_UnVinculoPorEntidad(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	require.NoError(t, repos.Links.Create(ctx, &entity.EntityLink{ID: "l1", CatalogEntryID: "e1", SupplierEntityID: "s1"}))
	err := repos.Links.Create(ctx, &entity.EntityLink{ID: "l2", CatalogEntryID: "e2", SupplierEntityID: "s1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyLinked)

	require.NoError(t, repos.Links.Create(ctx, &entity.EntityLink{ID: "l3", CatalogEntryID: "e1", SupplierEntityID: "s0"}))
	list, err := repos.Links.ListByEntry(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s0", list[0].SupplierEntityID)
}

func TestSupplierEntityRepo_UpsertPorClaveExterna(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	first := &entity.SupplierEntity{ID: "x1", SupplierID: "acme", ExternalID: "A-1", Brand: "Bosch"}
	require.NoError(t, repos.Entities.Upsert(ctx, first))
	again := &entity.SupplierEntity{ID: "x2", SupplierID: "acme", ExternalID: "A-1", Brand: "Makita"}
	require.NoError(t, repos.Entities.Upsert(ctx, again))
	assert.Equal(t, "x1", again.ID, "conserva el id de la entidad existente")

	got, err := repos.Entities.GetByExternal(ctx, "acme", "A-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Makita", got.Brand)

	candidates, err := repos.Entities.ListMatchCandidates(ctx, "", "", "makita")
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestSupplierEntityRepo_CandidatasPorCodigoNormalizado(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	require.NoError(t, repos.Entities.Upsert(ctx, &entity.SupplierEntity{ID: "x1", SupplierID: "acme", ExternalID: "A-1",
		Brand: "Bosch", PrimaryCode: "0770-1234567890", SecondaryCode: "gsb 13 re"}))
	require.NoError(t, repos.Entities.Upsert(ctx, &entity.SupplierEntity{ID: "x2", SupplierID: "globex", ExternalID: "G-1",
		Brand: "Makita", PrimaryCode: "999"}))

	byPrimary, err := repos.Entities.ListMatchCandidates(ctx, "7701234567890", "", "Otra")
	require.NoError(t, err)
	require.Len(t, byPrimary, 1)
	assert.Equal(t, "x1", byPrimary[0].ID)

	bySecondary, err := repos.Entities.ListMatchCandidates(ctx, "", "GSB-13RE", "")
	require.NoError(t, err)
	require.Len(t, bySecondary, 1)
	assert.Equal(t, "x1", bySecondary[0].ID)

	none, err := repos.Entities.ListMatchCandidates(ctx, "", "", "")
	require.NoError(t, err)
	assert.Empty(t, none, "sin claves no hay candidatas")
}

func TestSourceValueRepo_ListUnmappedPorProveedor(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	require.NoError(t, repos.SourceValues.ReplaceForEntity(ctx, "s1", []*entity.SourceValue{
		{ID: "v1", SupplierEntityID: "s1", SupplierID: "acme", NormalizedLabel: "tono"},
		{ID: "v2", SupplierEntityID: "s1", SupplierID: "acme", NormalizedLabel: "peso", AttributeID: "w"},
	}))
	require.NoError(t, repos.SourceValues.ReplaceForEntity(ctx, "s2", []*entity.SourceValue{
		{ID: "v3", SupplierEntityID: "s2", SupplierID: "globex", NormalizedLabel: "tono"},
	}))

	acme, err := repos.SourceValues.ListUnmapped(ctx, "tono", "acme")
	require.NoError(t, err)
	assert.Len(t, acme, 1)
	all, err := repos.SourceValues.ListUnmapped(ctx, "tono", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// reemplazar borra las filas anteriores de la entidad
	require.NoError(t, repos.SourceValues.ReplaceForEntity(ctx, "s1", nil))
	left, err := repos.SourceValues.ListByEntities(ctx, []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "v3", left[0].ID)
}
