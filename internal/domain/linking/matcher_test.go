package linking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/linking"
)

func profile(id, entry, primary, secondary, brand, name string) linking.Profile {
	return linking.NewProfile(&entity.SupplierEntity{
		ID:            id,
		PrimaryCode:   primary,
		SecondaryCode: secondary,
		Brand:         brand,
		Names:         entity.LocalizedText{"es": name},
	}, entry, nil)
}

func TestFindMatch_CodigoPrimario(t *testing.T) {
	in := profile("nuevo", "", "0770 1234-5678", "X1", "Acme", "Taladro")
	cands := []linking.Profile{
		profile("s1", "E1", "77012345678", "", "Acme", "Taladro percutor"),
		profile("s2", "E2", "", "X1", "Acme", "Otro"),
	}
	m, ok := linking.FindMatch(in, cands, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "E1", m.EntryID)
	assert.Equal(t, entity.LinkAutoPrimaryCode, m.Type)
	assert.Equal(t, 0.95, m.Confidence)
	assert.False(t, m.NeedsReview)
}

func TestFindMatch_CodigoAmbiguoPasaAlSecundario(t *testing.T) {
	in := profile("nuevo", "", "111", "MPN-9", "Acme", "Taladro")
	cands := []linking.Profile{
		profile("s1", "E1", "111", "", "Acme", "a"),
		profile("s2", "E2", "111", "", "Acme", "b"),
		profile("s3", "E3", "", "mpn 9", "Acme", "c"),
	}
	m, ok := linking.FindMatch(in, cands, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "E3", m.EntryID)
	assert.Equal(t, entity.LinkAutoSecondaryCode, m.Type)
	assert.Equal(t, 0.90, m.Confidence)
}

func TestFindMatch_MismaEntradaVariasEntidadesNoEsAmbiguo(t *testing.T) {
	in := profile("nuevo", "", "222", "", "", "")
	cands := []linking.Profile{
		profile("s1", "E1", "222", "", "", ""),
		profile("s2", "E1", "222", "", "", ""),
	}
	m, ok := linking.FindMatch(in, cands, 0.6)
	assert.True(t, ok)
	assert.Equal(t, "E1", m.EntryID)
}

func TestFindMatch_SimilitudSiempreParaRevision(t *testing.T) {
	in := profile("nuevo", "", "", "", "ACME", "Taladro percutor 800W")
	cands := []linking.Profile{
		profile("s1", "E1", "", "", "Acme", "Taladro percutor 800 W"),
		profile("s2", "E2", "", "", "Bosch", "Taladro percutor 800W"),
	}
	m, ok := linking.FindMatch(in, cands, 0.5)
	assert.True(t, ok)
	assert.Equal(t, "E1", m.EntryID, "solo compara contra la misma marca")
	assert.Equal(t, entity.LinkAutoSimilarity, m.Type)
	assert.True(t, m.NeedsReview)
	assert.LessOrEqual(t, m.Confidence, 0.85)
}

func TestFindMatch_SinCoincidencia(t *testing.T) {
	in := profile("nuevo", "", "", "", "", "Taladro")
	_, ok := linking.FindMatch(in, []linking.Profile{profile("s1", "E1", "", "", "Acme", "Taladro")}, 0.5)
	assert.False(t, ok, "sin marca no hay similitud")
}
