package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/recompute"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ImportUseCase punto de entrada del colaborador de importación: recibe registros de
// proveedor ya deserializados, los guarda en el almacén de valores fuente y dispara
// el vínculo automático o la recomputación de la entrada dueña.
type ImportUseCase struct {
	repos     repository.Repositories
	tx        repository.TxRunner
	mapping   *MappingUseCase
	links     *LinkUseCase
	scheduler Scheduler
	settings  Settings
	log       zerolog.Logger
	now       func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	repos repository.Repositories,
	tx repository.TxRunner,
	mapping *MappingUseCase,
	links *LinkUseCase,
	scheduler Scheduler,
	settings Settings,
	log zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		repos:     repos,
		tx:        tx,
		mapping:   mapping,
		links:     links,
		scheduler: scheduler,
		settings:  settings,
		log:       log,
		now:       time.Now,
	}
}

// ImportEntities procesa un lote. Un elemento inválido se informa en Errors y no
// detiene al resto.
func (uc *ImportUseCase) ImportEntities(ctx context.Context, in dto.ImportEntitiesRequest) (*dto.ImportResponse, error) {
	mapper, err := uc.mapping.newMapper(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	out := &dto.ImportResponse{Results: []dto.ImportEntityResult{}, Errors: []dto.ImportError{}}
	var entries []string
	for i, rec := range in.Entities {
		res, err := uc.importEntity(ctx, mapper, rec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			uc.log.Warn().Err(err).Str("supplier_id", rec.SupplierID).Str("external_id", rec.ExternalID).Msg("registro de importación rechazado")
			out.Errors = append(out.Errors, dto.ImportError{Index: i, ExternalID: rec.ExternalID, Code: errorCode(err), Message: err.Error()})
			continue
		}
		out.Results = append(out.Results, *res)
		if res.EntryID != "" {
			entries = append(entries, res.EntryID)
		}
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonImport, entries...); err != nil {
		return nil, err
	}
	out.EntriesScheduled = countDistinct(entries)
	uc.log.Info().Int("entities", len(out.Results)).Int("errors", len(out.Errors)).
		Int("entries", out.EntriesScheduled).Msg("lote de entidades importado")
	return out, nil
}

func (uc *ImportUseCase) importEntity(ctx context.Context, mapper *labelMapper, rec dto.ImportEntityRequest) (*dto.ImportEntityResult, error) {
	supplierID := strings.TrimSpace(rec.SupplierID)
	externalID := strings.TrimSpace(rec.ExternalID)
	if supplierID == "" || externalID == "" {
		return nil, fmt.Errorf("supplier_id y external_id son obligatorios: %w", domain.ErrInvalidInput)
	}
	if rec.Stock < 0 {
		return nil, fmt.Errorf("stock %d negativo: %w", rec.Stock, domain.ErrInvalidInput)
	}
	prices, err := normalizePrices(rec.Prices)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	e := &entity.SupplierEntity{
		ID:            uuid.New().String(),
		SupplierID:    supplierID,
		ExternalID:    externalID,
		CategoryID:    strings.TrimSpace(rec.CategoryID),
		Names:         entity.LocalizedText(rec.Names).Clone(),
		Brand:         strings.TrimSpace(rec.Brand),
		PrimaryCode:   strings.TrimSpace(rec.PrimaryCode),
		SecondaryCode: strings.TrimSpace(rec.SecondaryCode),
		Media:         rec.Media,
		Stock:         rec.Stock,
		RawAttributes: rec.Attributes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res := &dto.ImportEntityResult{ExternalID: externalID}

	// 1. Entidad, valores fuente y precios en una transacción
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := r.Entities.Upsert(ctx, e); err != nil {
			return err
		}
		labels := make([]string, 0, len(rec.Attributes))
		for label := range rec.Attributes {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		values := make([]*entity.SourceValue, 0, len(labels))
		priority := uc.settings.PriorityFor(supplierID)
		for _, label := range labels {
			raw := rec.Attributes[label]
			m, accepted, err := mapper.mapLabel(ctx, r.Inbox, label, raw, supplierID)
			if err != nil {
				return err
			}
			if m.Normalized == "" {
				continue
			}
			if m.Ignored {
				res.Ignored++
				continue
			}
			sv := &entity.SourceValue{
				ID:               uuid.New().String(),
				SupplierEntityID: e.ID,
				SupplierID:       supplierID,
				RawLabel:         label,
				NormalizedLabel:  m.Normalized,
				RawValue:         raw,
				PriorityScore:    priority,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if accepted {
				sv.AttributeID = m.AttributeID
				sv.Value = mapper.parse(m.AttributeID, raw)
				res.Mapped++
			} else {
				res.Unmapped++
			}
			values = append(values, sv)
		}
		if err := r.SourceValues.ReplaceForEntity(ctx, e.ID, values); err != nil {
			return err
		}
		for _, p := range prices {
			p.SupplierEntityID = e.ID
			p.UpdatedAt = now
			if err := r.Prices.Upsert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.EntityID = e.ID

	// 2. Dueño actual o vínculo automático
	link, err := uc.repos.Links.GetBySupplierEntity(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		link, err = uc.links.AutoLink(ctx, e.ID)
		if err != nil {
			return nil, err
		}
	}
	if link != nil {
		res.EntryID = link.CatalogEntryID
		res.LinkType = string(link.Type)
	}
	return res, nil
}

// ImportPrices actualiza precios sueltos de entidades ya importadas.
func (uc *ImportUseCase) ImportPrices(ctx context.Context, in dto.ImportPricesRequest) (*dto.ImportResponse, error) {
	out := &dto.ImportResponse{Results: []dto.ImportEntityResult{}, Errors: []dto.ImportError{}}
	var entries []string
	now := uc.now()
	for i, item := range in.Prices {
		res, entryID, err := uc.importPrice(ctx, item, now)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			out.Errors = append(out.Errors, dto.ImportError{Index: i, ExternalID: item.ExternalID, Code: errorCode(err), Message: err.Error()})
			continue
		}
		out.Results = append(out.Results, *res)
		if entryID != "" {
			entries = append(entries, entryID)
		}
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonImport, entries...); err != nil {
		return nil, err
	}
	out.EntriesScheduled = countDistinct(entries)
	return out, nil
}

func (uc *ImportUseCase) importPrice(ctx context.Context, item dto.ImportPriceRequest, now time.Time) (*dto.ImportEntityResult, string, error) {
	prices, err := normalizePrices([]dto.PriceInput{item.PriceInput})
	if err != nil {
		return nil, "", err
	}
	e, err := uc.repos.Entities.GetByExternal(ctx, strings.TrimSpace(item.SupplierID), strings.TrimSpace(item.ExternalID))
	if err != nil {
		return nil, "", err
	}
	if e == nil {
		return nil, "", fmt.Errorf("entidad %s/%s: %w", item.SupplierID, item.ExternalID, domain.ErrNotFound)
	}
	p := prices[0]
	p.SupplierEntityID = e.ID
	p.UpdatedAt = now
	if err := uc.repos.Prices.Upsert(ctx, p); err != nil {
		return nil, "", err
	}
	res := &dto.ImportEntityResult{ExternalID: e.ExternalID, EntityID: e.ID}
	link, err := uc.repos.Links.GetBySupplierEntity(ctx, e.ID)
	if err != nil {
		return nil, "", err
	}
	if link == nil {
		return res, "", nil
	}
	res.EntryID = link.CatalogEntryID
	res.LinkType = string(link.Type)
	return res, link.CatalogEntryID, nil
}

// normalizePrices valida clasificación y valor; la moneda se guarda en mayúsculas.
func normalizePrices(in []dto.PriceInput) ([]*entity.PriceRecord, error) {
	out := make([]*entity.PriceRecord, 0, len(in))
	for _, p := range in {
		class := strings.ToLower(strings.TrimSpace(p.Classification))
		if class == "" {
			return nil, fmt.Errorf("precio sin clasificación: %w", domain.ErrInvalidInput)
		}
		if p.Value.IsNegative() {
			return nil, fmt.Errorf("precio %s negativo: %w", class, domain.ErrInvalidInput)
		}
		out = append(out, &entity.PriceRecord{
			Classification: class,
			Value:          p.Value,
			Currency:       strings.ToUpper(strings.TrimSpace(p.Currency)),
		})
	}
	return out, nil
}

// errorCode código de máquina para los errores por elemento de un lote.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return "CONFLICT"
	}
	return "INTERNAL"
}

func countDistinct(ids []string) int {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return len(seen)
}
