package mapping

import (
	"sort"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// MatchKind nivel en el que se encontró el atributo.
type MatchKind string

const (
	MatchNone      MatchKind = ""
	MatchAlias     MatchKind = "alias"
	MatchCode      MatchKind = "code"
	MatchName      MatchKind = "name"
	MatchSubstring MatchKind = "substring"
)

// Confianza fija por nivel.
const (
	ConfidenceAlias     = 1.0
	ConfidenceCode      = 0.95
	ConfidenceName      = 0.9
	ConfidenceSubstring = 0.7
)

// minSubstringLen evita que etiquetas de 1-2 letras coincidan con todo.
const minSubstringLen = 3

// Result resultado de MapRawAttribute.
type Result struct {
	RawLabel    string
	Normalized  string
	Kind        MatchKind
	AttributeID string
	Confidence  float64
	Ignored     bool // alias marcado como ignorado: descartar la etiqueta
}

// Found indica que hubo coincidencia con un atributo.
func (r Result) Found() bool { return r.Kind != MatchNone && !r.Ignored && r.AttributeID != "" }

type needle struct {
	text        string
	attributeID string
	code        string
}

// Index índice en memoria del diccionario y los alias para una tanda de mapeos.
type Index struct {
	aliases map[string]*entity.AliasEntry // supplierID + "\x00" + label
	codes   map[string]string             // code normalizado -> attributeID
	names   map[string]string             // nombre normalizado -> attributeID
	needles []needle                      // para coincidencia por subcadena, más largas primero
}

func aliasKey(supplierID, label string) string { return supplierID + "\x00" + label }

// NewIndex construye el índice. Ante nombres repetidos entre atributos gana el code menor,
// para que el resultado no dependa del orden de entrada.
func NewIndex(attrs []*entity.AttributeDefinition, aliases []*entity.AliasEntry) *Index {
	sorted := append([]*entity.AttributeDefinition(nil), attrs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	ix := &Index{
		aliases: make(map[string]*entity.AliasEntry, len(aliases)),
		codes:   make(map[string]string, len(sorted)),
		names:   make(map[string]string, len(sorted)),
	}
	for _, a := range aliases {
		ix.aliases[aliasKey(a.SupplierID, a.NormalizedLabel)] = a
	}
	seen := map[string]bool{}
	for _, a := range sorted {
		code := NormalizeCode(a.Code)
		if _, dup := ix.codes[code]; !dup && code != "" {
			ix.codes[code] = a.ID
		}
		if code != "" && !seen[code+a.ID] {
			seen[code+a.ID] = true
			ix.needles = append(ix.needles, needle{text: code, attributeID: a.ID, code: a.Code})
		}
		locales := make([]string, 0, len(a.Names))
		for l := range a.Names {
			locales = append(locales, l)
		}
		sort.Strings(locales)
		for _, l := range locales {
			n := Normalize(a.Names[l])
			if n == "" {
				continue
			}
			if _, dup := ix.names[n]; !dup {
				ix.names[n] = a.ID
			}
			if !seen[n+a.ID] {
				seen[n+a.ID] = true
				ix.needles = append(ix.needles, needle{text: n, attributeID: a.ID, code: a.Code})
			}
		}
	}
	sort.SliceStable(ix.needles, func(i, j int) bool {
		if len(ix.needles[i].text) != len(ix.needles[j].text) {
			return len(ix.needles[i].text) > len(ix.needles[j].text)
		}
		return ix.needles[i].code < ix.needles[j].code
	})
	return ix
}

// AddAlias incorpora un alias recién creado sin reconstruir el índice.
func (ix *Index) AddAlias(a *entity.AliasEntry) {
	ix.aliases[aliasKey(a.SupplierID, a.NormalizedLabel)] = a
}

// Match prueba en orden: alias (del proveedor, luego global) → code exacto →
// nombre exacto → subcadena. Gana el primer acierto.
func (ix *Index) Match(rawLabel, supplierID string) Result {
	n := Normalize(rawLabel)
	res := Result{RawLabel: rawLabel, Normalized: n}
	if n == "" {
		return res
	}
	for _, key := range []string{aliasKey(supplierID, n), aliasKey("", n)} {
		if a, ok := ix.aliases[key]; ok {
			res.Kind = MatchAlias
			res.Confidence = ConfidenceAlias
			res.AttributeID = a.AttributeID
			res.Ignored = a.Ignored
			return res
		}
	}
	if id, ok := ix.codes[n]; ok {
		return withHit(res, MatchCode, id, ConfidenceCode)
	}
	if id, ok := ix.codes[NormalizeCode(n)]; ok {
		return withHit(res, MatchCode, id, ConfidenceCode)
	}
	if id, ok := ix.names[n]; ok {
		return withHit(res, MatchName, id, ConfidenceName)
	}
	if len([]rune(n)) >= minSubstringLen {
		for _, nd := range ix.needles {
			if len([]rune(nd.text)) < minSubstringLen {
				continue
			}
			if strings.Contains(n, nd.text) || strings.Contains(nd.text, n) {
				return withHit(res, MatchSubstring, nd.attributeID, ConfidenceSubstring)
			}
		}
	}
	return res
}

func withHit(r Result, kind MatchKind, attributeID string, confidence float64) Result {
	r.Kind = kind
	r.AttributeID = attributeID
	r.Confidence = confidence
	return r
}
