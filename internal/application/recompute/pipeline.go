package recompute

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/aggregate"
	"github.com/jhoicas/catalogo-api/internal/domain/conflict"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/readiness"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// Settings parámetros de dominio que usa el pipeline.
type Settings struct {
	Locales      []string
	BaseCurrency string
	Rules        conflict.Rules
}

// Report resumen de una recomputación.
type Report struct {
	EntryID        string
	ValuesWritten  int
	ValuesDeleted  int
	Conflicts      int
	DerivedChanged bool
	IsReady        bool
	// Superseded: se marcó pendiente durante el cálculo; la entrada sigue en pending.
	Superseded bool
}

// Changed indica si se publicó algo.
func (r Report) Changed() bool {
	return r.ValuesWritten > 0 || r.ValuesDeleted > 0 || r.DerivedChanged
}

// Pipeline resolución → agregación → publicabilidad para una entrada. Lee el estado,
// calcula en memoria y publica en una sola transacción solo lo que cambió.
type Pipeline struct {
	repos    repository.Repositories
	tx       repository.TxRunner
	settings Settings
	log      zerolog.Logger
	now      func() time.Time
}

// NewPipeline construye el pipeline.
func NewPipeline(repos repository.Repositories, tx repository.TxRunner, settings Settings, log zerolog.Logger) *Pipeline {
	return &Pipeline{repos: repos, tx: tx, settings: settings, log: log, now: time.Now}
}

type valueKey struct{ attributeID, sourceKey string }

// Recompute recalcula y publica los campos derivados de la entrada.
func (p *Pipeline) Recompute(ctx context.Context, entryID string) (*Report, error) {
	// 1. Estado fuente
	entry, err := p.repos.Entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	links, err := p.repos.Links.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entityIDs := make([]string, 0, len(links))
	for _, l := range links {
		entityIDs = append(entityIDs, l.SupplierEntityID)
	}
	entities, err := p.repos.Entities.ListByIDs(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.SupplierEntity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}
	sourceValues, err := p.repos.SourceValues.ListByEntities(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	prices, err := p.repos.Prices.ListByEntities(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	existing, err := p.repos.Values.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	attrs, err := p.repos.Attributes.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(attrs))
	for _, a := range attrs {
		codes[a.ID] = a.Code
	}

	// 2. Resolución de conflictos por atributo
	current := make(map[valueKey]*entity.AttributeValue, len(existing))
	for _, v := range existing {
		current[valueKey{v.AttributeID, v.SourceKey}] = v
	}
	candidates := candidateRows(entryID, sourceValues, current)
	for _, v := range existing {
		if v.SourceKey == entity.SourceManual {
			candidates[v.AttributeID] = append(candidates[v.AttributeID], *v)
		}
	}

	report := &Report{EntryID: entryID}
	var upserts []entity.AttributeValue
	desired := map[valueKey]bool{}
	for _, attributeID := range sortedAttributes(candidates) {
		out := conflict.Resolve(candidates[attributeID], p.settings.Rules.For(codes[attributeID]))
		if out.Conflict {
			report.Conflicts++
		}
		for _, row := range out.Rows {
			key := valueKey{row.AttributeID, row.SourceKey}
			desired[key] = true
			if old, ok := current[key]; ok && sameRow(old, &row) {
				continue
			}
			upserts = append(upserts, row)
		}
	}
	var stale []valueKey
	for _, v := range existing {
		key := valueKey{v.AttributeID, v.SourceKey}
		if v.SourceKey != entity.SourceManual && !desired[key] {
			stale = append(stale, key)
		}
	}

	// 3. Campos visibles, agregados y publicabilidad
	derived := p.derive(entry, links, byID, prices)
	report.DerivedChanged = !derived.Equal(entry.Derived) || entry.RecomputeStatus != entity.RecomputeFresh
	report.ValuesWritten = len(upserts)
	report.ValuesDeleted = len(stale)
	report.IsReady = derived.IsReady
	if !report.Changed() {
		return report, nil
	}

	// 4. Publicación atómica
	err = p.tx.Run(ctx, func(r repository.Repositories) error {
		for i := range upserts {
			if err := r.Values.Upsert(ctx, &upserts[i]); err != nil {
				return err
			}
		}
		for _, k := range stale {
			if err := r.Values.Delete(ctx, entryID, k.attributeID, k.sourceKey); err != nil {
				return err
			}
		}
		fresh, err := r.Entries.SaveDerived(ctx, entryID, derived, p.now().UTC(), entry.StatusVersion)
		report.Superseded = !fresh
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("publicar entrada %s: %w", entryID, err)
	}
	if report.Superseded {
		p.log.Debug().Str("entry_id", entryID).Msg("entrada marcada durante la recomputación, sigue pendiente")
	}
	p.log.Debug().Str("entry_id", entryID).Int("written", report.ValuesWritten).
		Int("deleted", report.ValuesDeleted).Bool("ready", report.IsReady).Msg("entrada recomputada")
	return report, nil
}

// candidateRows una fila por (atributo, entidad de proveedor). Si varias etiquetas de una
// misma entidad apuntan al mismo atributo gana la observada más recientemente.
func candidateRows(entryID string, values []*entity.SourceValue, current map[valueKey]*entity.AttributeValue) map[string][]entity.AttributeValue {
	best := map[valueKey]*entity.SourceValue{}
	for _, sv := range values {
		if sv.AttributeID == "" || sv.Value.IsZero() {
			continue
		}
		key := valueKey{sv.AttributeID, sv.SupplierEntityID}
		cur, ok := best[key]
		if !ok || sv.UpdatedAt.After(cur.UpdatedAt) ||
			(sv.UpdatedAt.Equal(cur.UpdatedAt) && sv.RawLabel < cur.RawLabel) {
			best[key] = sv
		}
	}
	out := map[string][]entity.AttributeValue{}
	for key, sv := range best {
		row := entity.AttributeValue{
			CatalogEntryID: entryID,
			AttributeID:    sv.AttributeID,
			SourceKey:      sv.SupplierEntityID,
			SupplierID:     sv.SupplierID,
			RawValue:       sv.RawValue,
			Value:          sv.Value,
			PriorityScore:  sv.PriorityScore,
			CreatedAt:      sv.CreatedAt,
			UpdatedAt:      sv.UpdatedAt,
		}
		if old, ok := current[key]; ok {
			row.CreatedAt = old.CreatedAt
		}
		out[key.attributeID] = append(out[key.attributeID], row)
	}
	return out
}

func sortedAttributes(m map[string][]entity.AttributeValue) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sameRow(a, b *entity.AttributeValue) bool {
	return a.SameResolution(b) && a.Value.Equal(b.Value) && a.RawValue == b.RawValue &&
		a.SupplierID == b.SupplierID && a.PriorityScore == b.PriorityScore &&
		a.ManualOverride == b.ManualOverride && a.UpdatedAt.Equal(b.UpdatedAt)
}

// derive campos visibles (manual > vínculo primario > resto por id de entidad),
// agregados y veredicto.
func (p *Pipeline) derive(
	entry *entity.CatalogEntry,
	links []*entity.EntityLink,
	byID map[string]*entity.SupplierEntity,
	prices []*entity.PriceRecord,
) entity.EntryDerived {
	ordered := orderedEntities(links, byID)

	d := entity.EntryDerived{Names: entity.LocalizedText{}}
	media := map[string]bool{}
	for _, e := range ordered {
		for locale, name := range e.Names {
			if name != "" && d.Names[locale] == "" {
				d.Names[locale] = name
			}
		}
		if d.Brand == "" {
			d.Brand = e.Brand
		}
		if d.CategoryID == "" {
			d.CategoryID = e.CategoryID
		}
		if d.Barcode == "" {
			d.Barcode = e.PrimaryCode
		}
		if d.VendorCode == "" {
			d.VendorCode = e.SecondaryCode
		}
		for _, url := range e.Media {
			if url != "" {
				media[url] = true
			}
		}
	}
	for locale, name := range entry.ManualNames {
		if name != "" {
			d.Names[locale] = name
		}
	}
	if entry.ManualBrand != "" {
		d.Brand = entry.ManualBrand
	}
	if entry.ManualCategoryID != "" {
		d.CategoryID = entry.ManualCategoryID
	}
	d.MediaCount = len(media)

	agg := aggregate.Aggregate(aggregate.Input{
		Links:        links,
		Entities:     byID,
		Prices:       prices,
		BaseCurrency: p.settings.BaseCurrency,
	})
	d.Stock = agg.Stock
	d.RetailMin = agg.RetailMin
	d.RetailMax = agg.RetailMax
	d.PurchaseMin = agg.PurchaseMin
	d.PreferredSupplierEntityID = agg.PreferredSupplierEntityID

	verdict := readiness.Evaluate(readiness.Input{
		CategoryID:  d.CategoryID,
		Names:       d.Names,
		Brand:       d.Brand,
		RetailMin:   d.RetailMin,
		PurchaseMin: d.PurchaseMin,
		Stock:       d.Stock,
		MediaCount:  d.MediaCount,
		Barcode:     d.Barcode,
		VendorCode:  d.VendorCode,
		Locales:     p.settings.Locales,
	})
	d.IsReady = verdict.IsReady
	d.Blocking = verdict.Blocking
	d.Warnings = verdict.Warnings
	d.QualityScore = verdict.QualityScore
	return d
}

func orderedEntities(links []*entity.EntityLink, byID map[string]*entity.SupplierEntity) []*entity.SupplierEntity {
	sorted := make([]*entity.EntityLink, len(links))
	copy(sorted, links)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsPrimary != sorted[j].IsPrimary {
			return sorted[i].IsPrimary
		}
		return sorted[i].SupplierEntityID < sorted[j].SupplierEntityID
	})
	out := make([]*entity.SupplierEntity, 0, len(sorted))
	for _, l := range sorted {
		if e, ok := byID[l.SupplierEntityID]; ok {
			out = append(out, e)
		}
	}
	return out
}
