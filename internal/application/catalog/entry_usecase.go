package catalog

import (
	"context"
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

// EntryUseCase entradas del catálogo: alta, consulta, campos manuales y overrides.
type EntryUseCase struct {
	repos     repository.Repositories
	scheduler Scheduler
	settings  Settings
	log       zerolog.Logger
	now       func() time.Time
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(repos repository.Repositories, scheduler Scheduler, settings Settings, log zerolog.Logger) *EntryUseCase {
	return &EntryUseCase{repos: repos, scheduler: scheduler, settings: settings, log: log, now: time.Now}
}

// Create da de alta una entrada vacía con los campos manuales indicados.
func (uc *EntryUseCase) Create(ctx context.Context, in dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	categoryID := strings.TrimSpace(in.CategoryID)
	if err := uc.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	now := uc.now()
	entry := &entity.CatalogEntry{
		ID:               uuid.New().String(),
		ManualNames:      cleanNames(in.Names),
		ManualBrand:      strings.TrimSpace(in.Brand),
		ManualCategoryID: categoryID,
		RecomputeStatus:  entity.RecomputePending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonEntry, entry.ID); err != nil {
		return nil, err
	}
	return toEntryResponse(entry, uc.settings.locale("")), nil
}

// Update cambia los campos manuales. Un campo nil no cambia; vacío quita el valor manual.
func (uc *EntryUseCase) Update(ctx context.Context, id string, in dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	entry, err := uc.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Names != nil {
		entry.ManualNames = cleanNames(in.Names)
	}
	if in.Brand != nil {
		entry.ManualBrand = strings.TrimSpace(*in.Brand)
	}
	if in.CategoryID != nil {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if err := uc.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		entry.ManualCategoryID = categoryID
	}
	entry.UpdatedAt = uc.now()
	if err := uc.repos.Entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonEntry, entry.ID); err != nil {
		return nil, err
	}
	entry.RecomputeStatus = entity.RecomputePending
	return toEntryResponse(entry, uc.settings.locale("")), nil
}

// GetByID devuelve la entrada con sus vínculos y valores de atributos.
func (uc *EntryUseCase) GetByID(ctx context.Context, id, locale string) (*dto.EntryResponse, error) {
	entry, err := uc.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := uc.repos.Links.ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	values, err := uc.repos.Values.ListByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	codes, err := uc.attributeCodes(ctx)
	if err != nil {
		return nil, err
	}
	out := toEntryResponse(entry, uc.settings.locale(locale))
	out.Links = make([]dto.LinkResponse, 0, len(links))
	for _, l := range links {
		out.Links = append(out.Links, *toLinkResponse(l))
	}
	out.Attributes = make([]dto.ValueResponse, 0, len(values))
	for _, v := range values {
		out.Attributes = append(out.Attributes, toValueResponse(v, codes[v.AttributeID]))
	}
	return out, nil
}

// List lista entradas con filtros opcionales de categoría, publicabilidad y estado.
func (uc *EntryUseCase) List(ctx context.Context, f repository.EntryFilter, page dto.PageRequest, locale string) (*dto.EntryListResponse, error) {
	page.DefaultPage()
	switch f.Status {
	case "", entity.RecomputeFresh, entity.RecomputePending, entity.RecomputeFailed:
	default:
		return nil, fmt.Errorf("status %q: %w", f.Status, domain.ErrInvalidInput)
	}
	list, err := uc.repos.Entries.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	locale = uc.settings.locale(locale)
	items := make([]dto.EntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEntryResponse(e, locale))
	}
	return &dto.EntryListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Conflict detalle de la resolución de un atributo: fila activa, candidatas y justificación.
func (uc *EntryUseCase) Conflict(ctx context.Context, entryID, attributeID string) (*dto.ConflictResponse, error) {
	if _, err := uc.getEntry(ctx, entryID); err != nil {
		return nil, err
	}
	attr, err := uc.getAttribute(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repos.Values.ListByEntryAttribute(ctx, entryID, attributeID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Active != rows[j].Active {
			return rows[i].Active
		}
		return rows[i].SourceKey < rows[j].SourceKey
	})
	out := &dto.ConflictResponse{
		EntryID:     entryID,
		AttributeID: attributeID,
		Code:        attr.Code,
		Rule:        uc.settings.Rules.For(attr.Code).String(),
		Candidates:  make([]dto.ValueResponse, 0, len(rows)),
	}
	for _, r := range rows {
		v := toValueResponse(r, attr.Code)
		out.Candidates = append(out.Candidates, v)
		if r.Active {
			out.Active = &v
			out.Conflict = r.Conflict
			out.ConflictCount = r.ConflictCount
			out.Rationale = r.Rationale
		}
	}
	return out, nil
}

// SetOverride fija un valor manual que gana siempre la resolución del atributo.
func (uc *EntryUseCase) SetOverride(ctx context.Context, operatorID, entryID, attributeID string, in dto.OverrideRequest) (*dto.ValueResponse, error) {
	if _, err := uc.getEntry(ctx, entryID); err != nil {
		return nil, err
	}
	attr, err := uc.getAttribute(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	value, err := entity.ParseValue(attr.ValueType, in.Value, attr.EnumOptions)
	if err != nil {
		return nil, fmt.Errorf("valor %q para %s: %w", in.Value, attr.Code, domain.ErrInvalidInput)
	}
	if value.IsZero() {
		return nil, fmt.Errorf("valor vacío: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	row := &entity.AttributeValue{
		CatalogEntryID: entryID,
		AttributeID:    attributeID,
		SourceKey:      entity.SourceManual,
		RawValue:       in.Value,
		Value:          value,
		ManualOverride: true,
		CreatedBy:      operatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repos.Values.Upsert(ctx, row); err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonOverride, entryID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", entryID).Str("attribute", attr.Code).Str("operator", operatorID).Msg("override manual fijado")
	resp := toValueResponse(row, attr.Code)
	return &resp, nil
}

// ClearOverride quita el override manual; la resolución vuelve a los proveedores.
func (uc *EntryUseCase) ClearOverride(ctx context.Context, entryID, attributeID string) error {
	rows, err := uc.repos.Values.ListByEntryAttribute(ctx, entryID, attributeID)
	if err != nil {
		return err
	}
	found := false
	for _, r := range rows {
		if r.SourceKey == entity.SourceManual {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("override de %s/%s: %w", entryID, attributeID, domain.ErrNotFound)
	}
	if err := uc.repos.Values.Delete(ctx, entryID, attributeID, entity.SourceManual); err != nil {
		return err
	}
	return uc.scheduler.Schedule(ctx, recompute.ReasonOverride, entryID)
}

// RecomputeAll encola todas las entradas del catálogo.
func (uc *EntryUseCase) RecomputeAll(ctx context.Context) (int, error) {
	n, err := uc.scheduler.ScheduleAll(ctx)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("entries", n).Msg("recomputación total encolada")
	return n, nil
}

func (uc *EntryUseCase) getEntry(ctx context.Context, id string) (*entity.CatalogEntry, error) {
	entry, err := uc.repos.Entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("entrada %s: %w", id, domain.ErrNotFound)
	}
	return entry, nil
}

func (uc *EntryUseCase) getAttribute(ctx context.Context, id string) (*entity.AttributeDefinition, error) {
	attr, err := uc.repos.Attributes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, fmt.Errorf("atributo %s: %w", id, domain.ErrNotFound)
	}
	return attr, nil
}

func (uc *EntryUseCase) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	cat, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (uc *EntryUseCase) attributeCodes(ctx context.Context) (map[string]string, error) {
	attrs, err := uc.repos.Attributes.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(attrs))
	for _, a := range attrs {
		codes[a.ID] = a.Code
	}
	return codes, nil
}

func cleanNames(in map[string]string) entity.LocalizedText {
	out := entity.LocalizedText{}
	for locale, name := range in {
		if s := strings.TrimSpace(name); s != "" {
			out[strings.ToLower(strings.TrimSpace(locale))] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
