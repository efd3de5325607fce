package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/schema"
)

func ptr[T any](v T) *T { return &v }

func dictionary() map[string]*entity.AttributeDefinition {
	return map[string]*entity.AttributeDefinition{
		"color":  {ID: "color", Code: "color", Names: entity.LocalizedText{"es": "Color"}, DefaultUnit: ""},
		"peso":   {ID: "peso", Code: "weight", Names: entity.LocalizedText{"es": "Peso"}, DefaultUnit: "kg"},
		"marca":  {ID: "marca", Code: "brand", Names: entity.LocalizedText{"es": "Marca"}},
		"volt":   {ID: "volt", Code: "voltage", Names: entity.LocalizedText{"es": "Voltaje"}, DefaultUnit: "V"},
		"alto":   {ID: "alto", Code: "height", Names: entity.LocalizedText{"es": "Alto"}, DefaultUnit: "mm"},
		"zancho": {ID: "zancho", Code: "width", Names: entity.LocalizedText{"es": "Ancho"}, DefaultUnit: "mm"},
	}
}

// raiz -> herramientas -> taladros
func tree() []*entity.Category {
	return []*entity.Category{
		{ID: "raiz"},
		{ID: "herramientas", ParentID: "raiz"},
		{ID: "taladros", ParentID: "herramientas"},
	}
}

func codes(list []schema.ResolvedAttribute) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Attribute.Code)
	}
	return out
}

func TestResolve_HerenciaYOverridePorCampo(t *testing.T) {
	bindings := []*entity.CategoryAttributeBinding{
		{CategoryID: "raiz", AttributeID: "marca", Required: ptr(true), Position: ptr(1), State: entity.BindingActive},
		{CategoryID: "raiz", AttributeID: "peso", Required: ptr(false), Visible: ptr(false), State: entity.BindingActive},
		// solo cambia Visible; Required se hereda de la raíz
		{CategoryID: "taladros", AttributeID: "peso", Visible: ptr(true), UnitOverride: ptr("g"), State: entity.BindingActive},
		{CategoryID: "taladros", AttributeID: "volt", Required: ptr(true), State: entity.BindingActive},
	}
	g, err := schema.NewGraph(tree(), bindings)
	require.NoError(t, err)

	got, err := g.Resolve("taladros", dictionary(), "es")
	require.NoError(t, err)
	require.Equal(t, []string{"brand", "weight", "voltage"}, codes(got))

	assert.True(t, got[0].Inherited)
	assert.Equal(t, "raiz", got[0].OriginID)

	peso := got[1]
	assert.True(t, peso.Inherited)
	assert.False(t, peso.Required, "Required no se sobrescribe si el hijo lo deja nulo")
	assert.True(t, peso.Visible)
	assert.Equal(t, "g", peso.Unit)

	volt := got[2]
	assert.False(t, volt.Inherited)
	assert.True(t, volt.Required)
	assert.Equal(t, "V", volt.Unit)
}

func TestResolve_DeshabilitadoQuitaHeredado(t *testing.T) {
	bindings := []*entity.CategoryAttributeBinding{
		{CategoryID: "raiz", AttributeID: "color", State: entity.BindingActive},
		{CategoryID: "herramientas", AttributeID: "color", Required: ptr(true), State: entity.BindingActive},
		{CategoryID: "taladros", AttributeID: "color", State: entity.BindingDisabled},
		{CategoryID: "raiz", AttributeID: "marca", State: entity.BindingActive},
	}
	g, err := schema.NewGraph(tree(), bindings)
	require.NoError(t, err)

	got, err := g.Resolve("taladros", dictionary(), "es")
	require.NoError(t, err)
	assert.Equal(t, []string{"brand"}, codes(got))

	// el binding del ancestro sigue intacto
	mid, err := g.Resolve("herramientas", dictionary(), "es")
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "brand"}, codes(mid))
}

func TestResolve_InvarianteAlOrdenDeInsercion(t *testing.T) {
	bindings := []*entity.CategoryAttributeBinding{
		{CategoryID: "raiz", AttributeID: "alto", Position: ptr(2), State: entity.BindingActive},
		{CategoryID: "raiz", AttributeID: "zancho", Position: ptr(2), State: entity.BindingActive},
		{CategoryID: "herramientas", AttributeID: "color", State: entity.BindingActive},
		{CategoryID: "taladros", AttributeID: "alto", Position: ptr(5), State: entity.BindingActive},
		{CategoryID: "taladros", AttributeID: "marca", Position: ptr(0), State: entity.BindingActive},
	}
	reversed := make([]*entity.CategoryAttributeBinding, len(bindings))
	for i, b := range bindings {
		reversed[len(bindings)-1-i] = b
	}
	cats := tree()
	revCats := []*entity.Category{cats[2], cats[0], cats[1]}

	g1, err := schema.NewGraph(cats, bindings)
	require.NoError(t, err)
	g2, err := schema.NewGraph(revCats, reversed)
	require.NoError(t, err)

	r1, err := g1.Resolve("taladros", dictionary(), "es")
	require.NoError(t, err)
	r2, err := g2.Resolve("taladros", dictionary(), "es")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	// posición explícita primero, empate por nombre, sin posición al final
	assert.Equal(t, []string{"brand", "width", "height", "color"}, codes(r1))
}

func TestResolve_CategoriaSinBindings(t *testing.T) {
	g, err := schema.NewGraph(tree(), nil)
	require.NoError(t, err)
	got, err := g.Resolve("taladros", dictionary(), "es")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = g.Resolve("inexistente", dictionary(), "es")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGraph_DetectaCiclos(t *testing.T) {
	_, err := schema.NewGraph([]*entity.Category{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrCycle)

	g, err := schema.NewGraph(tree(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, g.ValidateParent("raiz", "taladros"), domain.ErrCycle)
	assert.ErrorIs(t, g.ValidateParent("taladros", "taladros"), domain.ErrCycle)
	assert.NoError(t, g.ValidateParent("taladros", "raiz"))
	assert.ErrorIs(t, g.ValidateParent("taladros", "nadie"), domain.ErrNotFound)
	assert.ElementsMatch(t, []string{"herramientas", "taladros"}, g.Subtree("herramientas"))
}
