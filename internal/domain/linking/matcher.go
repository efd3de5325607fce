// Package linking decide automáticamente a qué entrada del catálogo pertenece una
// entidad de proveedor todavía no vinculada.
package linking

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/mapping"
)

// Confianza de las estrategias por código.
const (
	ConfidencePrimaryCode   = 0.95
	ConfidenceSecondaryCode = 0.90
	// maxSimilarityConfidence la similitud nunca supera a las estrategias por código.
	maxSimilarityConfidence = 0.85
)

// Profile vista comparable de una entidad de proveedor.
type Profile struct {
	EntityID      string
	EntryID       string // vacío para la entidad entrante
	PrimaryCode   string
	SecondaryCode string
	Brand         string
	NameTokens    map[string]bool
	Values        map[string]string // AttributeID -> Value.Key()
}

// NewProfile arma el perfil con códigos y marca normalizados.
func NewProfile(e *entity.SupplierEntity, entryID string, values []*entity.SourceValue) Profile {
	p := Profile{
		EntityID:      e.ID,
		EntryID:       entryID,
		PrimaryCode:   NormalizeCode(e.PrimaryCode),
		SecondaryCode: NormalizeCode(e.SecondaryCode),
		Brand:         mapping.Normalize(e.Brand),
		NameTokens:    map[string]bool{},
		Values:        map[string]string{},
	}
	locales := make([]string, 0, len(e.Names))
	for l := range e.Names {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		for _, tok := range strings.Fields(mapping.Normalize(e.Names[l])) {
			p.NameTokens[tok] = true
		}
	}
	for _, v := range values {
		if v.AttributeID == "" || v.Value.IsZero() {
			continue
		}
		p.Values[v.AttributeID] = v.Value.Key()
	}
	return p
}

// NormalizeCode mayúsculas sin espacios ni guiones; los códigos numéricos pierden
// los ceros a la izquierda (UPC-A vs EAN-13).
func NormalizeCode(code string) string {
	var b strings.Builder
	digits := true
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			continue
		}
		if !unicode.IsDigit(r) {
			digits = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if digits {
		s = strings.TrimLeft(s, "0")
	}
	return s
}

// Match propuesta de vínculo.
type Match struct {
	EntryID     string
	Type        entity.LinkType
	Confidence  float64
	NeedsReview bool
}

// FindMatch prueba en orden: código primario idéntico, código secundario idéntico y
// similitud de marca + atributos. Las estrategias por código exigen código no vacío
// y una única entrada candidata; la similitud siempre queda marcada para revisión.
func FindMatch(in Profile, candidates []Profile, similarityThreshold float64) (Match, bool) {
	if id, ok := uniqueEntry(candidates, in.EntityID, in.PrimaryCode, func(p Profile) string { return p.PrimaryCode }); ok {
		return Match{EntryID: id, Type: entity.LinkAutoPrimaryCode, Confidence: ConfidencePrimaryCode}, true
	}
	if id, ok := uniqueEntry(candidates, in.EntityID, in.SecondaryCode, func(p Profile) string { return p.SecondaryCode }); ok {
		return Match{EntryID: id, Type: entity.LinkAutoSecondaryCode, Confidence: ConfidenceSecondaryCode}, true
	}
	if in.Brand == "" {
		return Match{}, false
	}

	best := map[string]float64{}
	for _, c := range candidates {
		if c.EntryID == "" || c.EntityID == in.EntityID || c.Brand != in.Brand {
			continue
		}
		if s := Similarity(in, c); s > best[c.EntryID] {
			best[c.EntryID] = s
		}
	}
	var (
		topID    string
		topScore float64
		tie      bool
	)
	for id, s := range best {
		switch {
		case s > topScore:
			topID, topScore, tie = id, s, false
		case s == topScore:
			tie = true
		}
	}
	if topID == "" || tie || topScore < similarityThreshold {
		return Match{}, false
	}
	conf := math.Min(math.Round(topScore*100)/100, maxSimilarityConfidence)
	return Match{EntryID: topID, Type: entity.LinkAutoSimilarity, Confidence: conf, NeedsReview: true}, true
}

func uniqueEntry(candidates []Profile, selfID, code string, key func(Profile) string) (string, bool) {
	if code == "" {
		return "", false
	}
	found := ""
	for _, c := range candidates {
		if c.EntryID == "" || c.EntityID == selfID || key(c) != code {
			continue
		}
		if found != "" && found != c.EntryID {
			return "", false
		}
		found = c.EntryID
	}
	return found, found != ""
}

// Similarity mezcla Jaccard de tokens del nombre y coincidencia de valores de atributos
// compartidos. Sin atributos en común solo cuenta el nombre.
func Similarity(a, b Profile) float64 {
	name := jaccard(a.NameTokens, b.NameTokens)
	shared, equal := 0, 0
	for attr, v := range a.Values {
		if w, ok := b.Values[attr]; ok {
			shared++
			if v == w {
				equal++
			}
		}
	}
	if shared == 0 {
		return name
	}
	return 0.5*name + 0.5*float64(equal)/float64(shared)
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
