package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func TestOverride_GanaYSeRevierte(t *testing.T) {
	env := newEnv(t)
	weight := env.attribute(t, "weight", "number", map[string]string{"es": "Peso"})
	entryID, _, _ := linkedPair(t, env)
	env.drain(t)

	v, err := env.c.Entries.SetOverride(env.ctx, operator, entryID, weight, dto.OverrideRequest{Value: "2,25 kg"})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceManual, v.SourceKey)
	assert.Equal(t, "2.25", v.Value)
	env.drain(t)

	c, err := env.c.Entries.Conflict(env.ctx, entryID, weight)
	require.NoError(t, err)
	require.NotNil(t, c.Active)
	assert.True(t, c.Active.ManualOverride)
	assert.Equal(t, "2.25", c.Active.Value)
	assert.Len(t, c.Candidates, 3, "las filas de proveedor se conservan inactivas")

	require.NoError(t, env.c.Entries.ClearOverride(env.ctx, entryID, weight))
	assert.ErrorIs(t, env.c.Entries.ClearOverride(env.ctx, entryID, weight), domain.ErrNotFound)
	env.drain(t)

	c, err = env.c.Entries.Conflict(env.ctx, entryID, weight)
	require.NoError(t, err)
	require.NotNil(t, c.Active)
	assert.False(t, c.Active.ManualOverride)
	assert.Equal(t, "1", c.Active.Value)
	assert.False(t, c.Conflict, "ambos proveedores reportan el mismo peso")
}

func TestOverride_ValorIncompatible(t *testing.T) {
	env := newEnv(t)
	weight := env.attribute(t, "weight", "number", map[string]string{"es": "Peso"})
	entry, err := env.c.Entries.Create(env.ctx, dto.CreateEntryRequest{})
	require.NoError(t, err)

	_, err = env.c.Entries.SetOverride(env.ctx, operator, entry.ID, weight, dto.OverrideRequest{Value: "pesado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.c.Entries.SetOverride(env.ctx, operator, entry.ID, weight, dto.OverrideRequest{Value: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.c.Entries.SetOverride(env.ctx, operator, entry.ID, "no-existe", dto.OverrideRequest{Value: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CamposManualesTienenPrioridad(t *testing.T) {
	env := newEnv(t)
	entryID, _, _ := linkedPair(t, env)
	env.category(t, "power-tools", "tools")

	brand := "Marca Propia"
	category := "power-tools"
	_, err := env.c.Entries.Update(env.ctx, entryID, dto.UpdateEntryRequest{
		Names:      map[string]string{"en": "Hammer drill"},
		Brand:      &brand,
		CategoryID: &category,
	})
	require.NoError(t, err)
	env.drain(t)

	got, err := env.c.Entries.GetByID(env.ctx, entryID, "en")
	require.NoError(t, err)
	assert.Equal(t, "Marca Propia", got.Brand)
	assert.Equal(t, "power-tools", got.CategoryID)
	assert.Equal(t, "Hammer drill", got.Names["en"])
	assert.Equal(t, "Taladro percutor acme", got.Names["es"])

	missing := "no-existe"
	_, err = env.c.Entries.Update(env.ctx, entryID, dto.UpdateEntryRequest{CategoryID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecomputeAll_EsIdempotente(t *testing.T) {
	env := newEnv(t)
	entryID, _, _ := linkedPair(t, env)
	env.drain(t)
	before, err := env.c.Entries.GetByID(env.ctx, entryID, "")
	require.NoError(t, err)

	n, err := env.c.Entries.RecomputeAll(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	env.drain(t)

	after, err := env.c.Entries.GetByID(env.ctx, entryID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.RecomputeFresh, after.RecomputeStatus)
	assert.Equal(t, before.IsReady, after.IsReady)
	assert.Equal(t, before.QualityScore, after.QualityScore)
	assert.Equal(t, before.Attributes, after.Attributes)
}
