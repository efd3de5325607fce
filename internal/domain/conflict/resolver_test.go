package conflict_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain/conflict"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var t0 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

func row(source, supplier, text string, priority int, created time.Time) entity.AttributeValue {
	return entity.AttributeValue{
		CatalogEntryID: "e1",
		AttributeID:    "color",
		SourceKey:      source,
		SupplierID:     supplier,
		RawValue:       text,
		Value:          entity.Value{Kind: entity.ValueTypeText, Text: text},
		PriorityScore:  priority,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestResolve_PrioridadMayorGanaConConflicto(t *testing.T) {
	rows := []entity.AttributeValue{
		row("ent-b", "sup-b", "Azul", 50, t0),
		row("ent-a", "sup-a", "Rojo", 100, t0.Add(time.Hour)),
	}
	out := conflict.Resolve(rows, conflict.DefaultRule)

	active := out.Active()
	require.NotNil(t, active)
	assert.Equal(t, "ent-a", active.SourceKey)
	assert.True(t, out.Conflict)
	assert.Equal(t, 1, out.ConflictCount)
	for _, r := range out.Rows {
		assert.True(t, r.Conflict)
		assert.Equal(t, 1, r.ConflictCount)
	}
}

func TestResolve_OverrideManualSiempreGana(t *testing.T) {
	manual := row(entity.SourceManual, "", "Verde", 0, t0.Add(-time.Hour))
	manual.ManualOverride = true
	rows := []entity.AttributeValue{
		row("ent-a", "sup-a", "Rojo", 100, t0),
		row("ent-b", "sup-b", "Azul", 90, t0),
		manual,
	}
	out := conflict.Resolve(rows, conflict.FixedSupplier("sup-b"))

	require.NotNil(t, out.Active())
	assert.Equal(t, entity.SourceManual, out.Active().SourceKey)
	assert.False(t, out.Conflict, "el override limpia el conflicto aunque haya desacuerdo")
	assert.Equal(t, 0, out.ConflictCount)
	actives := 0
	for _, r := range out.Rows {
		if r.Active {
			actives++
		}
		assert.False(t, r.Conflict)
	}
	assert.Equal(t, 1, actives)
	assert.Len(t, out.Rows, 3, "las filas hermanas no se borran")
}

func TestResolve_ValorUnicoSinConflicto(t *testing.T) {
	rows := []entity.AttributeValue{
		row("ent-a", "sup-a", "rojo", 10, t0.Add(time.Minute)),
		row("ent-b", "sup-b", "Rojo", 10, t0),
		{SourceKey: "ent-c", SupplierID: "sup-c", PriorityScore: 999}, // vacío: se ignora
	}
	out := conflict.Resolve(rows, conflict.DefaultRule)
	assert.False(t, out.Conflict)
	assert.Equal(t, 1, out.Distinct)
	assert.Equal(t, "ent-b", out.Active().SourceKey, "empate de prioridad: gana la inserción más antigua")
	assert.False(t, out.Rows[2].Active)
}

func TestResolve_ReglasDeFuentePreferida(t *testing.T) {
	rows := []entity.AttributeValue{
		row("ent-a", "sup-a", "1", 100, t0),
		row("ent-b", "sup-b", "2", 10, t0.Add(2*time.Hour)),
		row("ent-c", "sup-c", "3", 50, t0.Add(time.Hour)),
	}
	assert.Equal(t, "ent-b", conflict.Resolve(rows, conflict.FixedSupplier("sup-b")).Active().SourceKey)
	assert.Equal(t, "ent-b", conflict.Resolve(rows, conflict.Rule{Kind: conflict.RuleMostRecent}).Active().SourceKey)
	assert.Equal(t, "ent-a", conflict.Resolve(rows, conflict.Rule{Kind: conflict.RuleOldest}).Active().SourceKey)

	out := conflict.Resolve(rows, conflict.DefaultRule)
	assert.Equal(t, "ent-a", out.Active().SourceKey)
	assert.Equal(t, 2, out.ConflictCount)
}

func TestResolve_NumericoComparaPorValor(t *testing.T) {
	a := row("ent-a", "sup-a", "", 10, t0)
	a.Value = entity.Value{Kind: entity.ValueTypeNumber, Number: decimal.RequireFromString("1.50")}
	b := row("ent-b", "sup-b", "", 20, t0)
	b.Value = entity.Value{Kind: entity.ValueTypeNumber, Number: decimal.RequireFromString("1.5")}
	out := conflict.Resolve([]entity.AttributeValue{a, b}, conflict.DefaultRule)
	assert.False(t, out.Conflict)
	assert.Equal(t, "ent-b", out.Active().SourceKey)
}

func TestResolve_IdempotenteEIndependienteDelOrden(t *testing.T) {
	rows := []entity.AttributeValue{
		row("ent-a", "sup-a", "Rojo", 70, t0),
		row("ent-b", "sup-b", "Azul", 70, t0),
		row("ent-c", "sup-c", "Negro", 20, t0),
	}
	first := conflict.Resolve(rows, conflict.DefaultRule)
	second := conflict.Resolve(first.Rows, conflict.DefaultRule)
	assert.Equal(t, first, second)

	reversed := []entity.AttributeValue{rows[2], rows[1], rows[0]}
	assert.Equal(t, first.Active().SourceKey, conflict.Resolve(reversed, conflict.DefaultRule).Active().SourceKey)
	assert.Equal(t, "ent-a", first.Active().SourceKey)
}

func TestParseRule(t *testing.T) {
	r, err := conflict.ParseRule("supplier:acme")
	require.NoError(t, err)
	assert.Equal(t, conflict.FixedSupplier("acme"), r)
	r, err = conflict.ParseRule("most_recent")
	require.NoError(t, err)
	assert.Equal(t, conflict.RuleMostRecent, r.Kind)
	_, err = conflict.ParseRule("lo-que-sea")
	assert.Error(t, err)
}
