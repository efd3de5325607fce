package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/mapping"
	"github.com/jhoicas/catalogo-api/pkg/config"
)

func pendingItem(t *testing.T, env *testEnv, label string) dto.InboxItemResponse {
	t.Helper()
	list, err := env.c.Mapping.ListInbox(env.ctx, string(entity.InboxNew), dto.PageRequest{})
	require.NoError(t, err)
	for _, it := range list.Items {
		if it.NormalizedLabel == label {
			return it
		}
	}
	t.Fatalf("etiqueta %q no está en el inbox", label)
	return dto.InboxItemResponse{}
}

func TestMapRawAttribute_Niveles(t *testing.T) {
	env := newEnv(t)
	weight := env.attribute(t, "weight", "number", map[string]string{"es": "Peso", "en": "Weight"})

	res, accepted, err := env.c.Mapping.MapRawAttribute(env.ctx, "WEIGHT", "2", "acme")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, mapping.MatchCode, res.Kind)
	assert.Equal(t, weight, res.AttributeID)

	res, accepted, err = env.c.Mapping.MapRawAttribute(env.ctx, "Peso (neto), kg", "2", "acme")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, mapping.MatchName, res.Kind)

	_, accepted, err = env.c.Mapping.MapRawAttribute(env.ctx, "Voltaje", "220 V", "acme")
	require.NoError(t, err)
	assert.False(t, accepted)
	item := pendingItem(t, env, "voltaje")
	assert.Equal(t, 1, item.Frequency)

	// la misma etiqueta suma frecuencia en lugar de duplicar el elemento
	_, _, err = env.c.Mapping.MapRawAttribute(env.ctx, "voltaje:", "110 V", "acme")
	require.NoError(t, err)
	item = pendingItem(t, env, "voltaje")
	assert.Equal(t, 2, item.Frequency)
	assert.ElementsMatch(t, []string{"220 V", "110 V"}, item.Examples)
}

func TestMapRawAttribute_SinAciertoBorraSugerenciaAnterior(t *testing.T) {
	env := newEnvWith(t, func(cfg *config.Config) { cfg.Catalog.MappingAutoAccept = 0.99 })
	weight := env.attribute(t, "weight", "number", map[string]string{"es": "Peso"})

	// acierto por code bajo el umbral: queda en el inbox con sugerencia
	_, accepted, err := env.c.Mapping.MapRawAttribute(env.ctx, "Weight", "2", "acme")
	require.NoError(t, err)
	assert.False(t, accepted)
	item := pendingItem(t, env, "weight")
	assert.Equal(t, weight, item.SuggestedAttributeID)
	assert.InDelta(t, mapping.ConfidenceCode, item.SuggestedConfidence, 1e-9)

	require.NoError(t, env.c.Dictionary.Delete(env.ctx, weight))

	res, accepted, err := env.c.Mapping.MapRawAttribute(env.ctx, "Weight", "3", "acme")
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.False(t, res.Found())
	item = pendingItem(t, env, "weight")
	assert.Empty(t, item.SuggestedAttributeID, "la sugerencia al atributo eliminado no sobrevive")
	assert.Zero(t, item.SuggestedConfidence)
	assert.Equal(t, 2, item.Frequency)
}

func TestDecide_CrearAtributoRellenaYRecalcula(t *testing.T) {
	env := newEnv(t)
	env.attribute(t, "weight", "number", map[string]string{"es": "Peso"})
	env.category(t, "tools", "")
	first := env.importOne(t, drill("acme", "A-1", "", "1"))
	entry, err := env.c.Links.CreateEntryFromEntity(env.ctx, operator, first.EntityID)
	require.NoError(t, err)
	env.drain(t)

	item := pendingItem(t, env, "material")
	out, err := env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{
		Action:    dto.InboxActionCreate,
		Attribute: &dto.CreateAttributeRequest{Code: "material", ValueType: "text", Names: map[string]string{"es": "Material"}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InboxCreated), out.Item.Status)
	assert.Equal(t, operator, out.Item.DecidedBy)
	assert.Equal(t, 1, out.Backfilled)
	assert.Equal(t, 1, out.EntriesScheduled)

	attr, err := env.c.Dictionary.GetByID(env.ctx, out.AttributeID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProvenanceInbox), attr.Provenance)
	assert.True(t, attr.NeedsReview)

	env.drain(t)
	got, err := env.c.Entries.GetByID(env.ctx, entry.ID, "")
	require.NoError(t, err)
	values := map[string]string{}
	for _, v := range got.Attributes {
		values[v.Code] = v.Value
	}
	assert.Equal(t, "acero", values["material"])

	// una segunda decisión sobre el mismo elemento no procede
	_, err = env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{Action: dto.InboxActionIgnore})
	assert.ErrorIs(t, err, domain.ErrNotPending)

	// el alias queda para el proveedor de origen
	res := env.importOne(t, drill("acme", "A-2", "", "1"))
	assert.Equal(t, 2, res.Mapped)
	assert.Equal(t, 0, res.Unmapped)
}

func TestDecide_IgnorarDescartaLaEtiqueta(t *testing.T) {
	env := newEnv(t)
	rec := dto.ImportEntityRequest{SupplierID: "acme", ExternalID: "A-1", Attributes: map[string]string{"Garantía": "12 meses"}}
	res := env.importOne(t, rec)
	assert.Equal(t, 1, res.Unmapped)

	item := pendingItem(t, env, "garantía")
	out, err := env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{Action: dto.InboxActionIgnore})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InboxIgnored), out.Item.Status)
	assert.Empty(t, out.AttributeID)

	res = env.importOne(t, rec)
	assert.Equal(t, 1, res.Ignored)
	assert.Equal(t, 0, res.Unmapped)

	pending, err := env.c.Mapping.ListInbox(env.ctx, string(entity.InboxNew), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)
}

func TestDecide_VincularGlobalAplicaATodosLosProveedores(t *testing.T) {
	env := newEnv(t)
	color := env.attribute(t, "color", "text", map[string]string{"es": "Color"})
	env.importOne(t, dto.ImportEntityRequest{SupplierID: "acme", ExternalID: "A-1", Attributes: map[string]string{"Tono": "rojo"}})

	item := pendingItem(t, env, "tono")
	out, err := env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{
		Action: dto.InboxActionLink, AttributeID: color, Global: true,
	})
	require.NoError(t, err)
	assert.Equal(t, color, out.AttributeID)
	assert.Equal(t, 1, out.Backfilled)

	res := env.importOne(t, dto.ImportEntityRequest{SupplierID: "globex", ExternalID: "G-1", Attributes: map[string]string{"TONO": "azul"}})
	assert.Equal(t, 1, res.Mapped)
}

func TestDecide_Errores(t *testing.T) {
	env := newEnv(t)
	_, err := env.c.Mapping.Decide(env.ctx, operator, "no-existe", dto.InboxDecisionRequest{Action: dto.InboxActionIgnore})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	env.importOne(t, dto.ImportEntityRequest{SupplierID: "acme", ExternalID: "A-1", Attributes: map[string]string{"Tono": "rojo"}})
	item := pendingItem(t, env, "tono")

	_, err = env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{Action: "borrar"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{Action: dto.InboxActionLink, AttributeID: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.c.Mapping.Decide(env.ctx, operator, item.ID, dto.InboxDecisionRequest{Action: dto.InboxActionCreate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// los intentos fallidos no tocan el elemento
	assert.Equal(t, item.ID, pendingItem(t, env, "tono").ID)

	_, err = env.c.Mapping.ListInbox(env.ctx, "raro", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
