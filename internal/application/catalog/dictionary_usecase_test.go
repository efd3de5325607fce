package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

func TestDictionary_Create(t *testing.T) {
	env := newEnv(t)
	a, err := env.c.Dictionary.Create(env.ctx, dto.CreateAttributeRequest{
		Code:        "  Voltage ",
		Names:       map[string]string{"ES": "Voltaje"},
		ValueType:   "enum",
		EnumOptions: []string{"110", " 220 ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "voltage", a.Code)
	assert.Equal(t, "Voltaje", a.Names["es"])
	assert.Equal(t, []string{"110", "220"}, a.EnumOptions)
	assert.Equal(t, "manual", a.Provenance)
	assert.False(t, a.NeedsReview)

	_, err = env.c.Dictionary.Create(env.ctx, dto.CreateAttributeRequest{Code: "VOLTAGE", Names: map[string]string{"es": "Otro"}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDictionary_CreateInvalido(t *testing.T) {
	env := newEnv(t)
	cases := []dto.CreateAttributeRequest{
		{Code: "", Names: map[string]string{"es": "x"}},
		{Code: "dos palabras", Names: map[string]string{"es": "x"}},
		{Code: "x", Names: map[string]string{"es": "x"}, ValueType: "date"},
		{Code: "x", Names: map[string]string{"es": "  "}},
	}
	for _, in := range cases {
		_, err := env.c.Dictionary.Create(env.ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestDictionary_DeleteEnUso(t *testing.T) {
	env := newEnv(t)
	weight := env.attribute(t, "weight", "number", map[string]string{"es": "Peso"})
	free := env.attribute(t, "unused", "text", map[string]string{"es": "Libre"})
	env.category(t, "tools", "")
	_, err := env.c.Categories.SetBinding(env.ctx, "tools", weight, dto.BindingRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, env.c.Dictionary.Delete(env.ctx, weight), domain.ErrInUse)
	require.NoError(t, env.c.Dictionary.Delete(env.ctx, free))
	assert.ErrorIs(t, env.c.Dictionary.Delete(env.ctx, free), domain.ErrNotFound)
}
