package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/recompute"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/mapping"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// MappingUseCase mapeo de etiquetas crudas al diccionario y triage del inbox.
type MappingUseCase struct {
	repos     repository.Repositories
	tx        repository.TxRunner
	scheduler Scheduler
	settings  Settings
	log       zerolog.Logger
	now       func() time.Time
}

// NewMappingUseCase construye el caso de uso.
func NewMappingUseCase(
	repos repository.Repositories,
	tx repository.TxRunner,
	scheduler Scheduler,
	settings Settings,
	log zerolog.Logger,
) *MappingUseCase {
	return &MappingUseCase{repos: repos, tx: tx, scheduler: scheduler, settings: settings, log: log, now: time.Now}
}

// labelMapper mapea etiquetas de un lote con un único índice del diccionario.
type labelMapper struct {
	ix         *mapping.Index
	attrs      map[string]*entity.AttributeDefinition
	autoAccept float64
	now        func() time.Time
}

func (uc *MappingUseCase) newMapper(ctx context.Context, r repository.Repositories) (*labelMapper, error) {
	attrs, err := r.Attributes.List(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := r.Aliases.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.AttributeDefinition, len(attrs))
	for _, a := range attrs {
		byID[a.ID] = a
	}
	return &labelMapper{
		ix:         mapping.NewIndex(attrs, aliases),
		attrs:      byID,
		autoAccept: uc.settings.AutoAccept,
		now:        uc.now,
	}, nil
}

// mapLabel devuelve el resultado y si se aplica. Sin acierto, o con confianza bajo el
// umbral, la etiqueta queda en el inbox (con la sugerencia si la hubo).
func (m *labelMapper) mapLabel(ctx context.Context, inbox repository.InboxRepository, rawLabel, example, supplierID string) (mapping.Result, bool, error) {
	res := m.ix.Match(rawLabel, supplierID)
	if res.Normalized == "" || res.Ignored {
		return res, false, nil
	}
	if res.Found() && res.Confidence >= m.autoAccept {
		if _, ok := m.attrs[res.AttributeID]; ok {
			return res, true, nil
		}
	}

	item, err := inbox.GetByLabel(ctx, res.Normalized, supplierID)
	if err != nil {
		return res, false, err
	}
	now := m.now()
	if item == nil {
		item = &entity.InboxItem{
			ID:              uuid.New().String(),
			RawLabel:        rawLabel,
			NormalizedLabel: res.Normalized,
			Origin:          supplierID,
			Status:          entity.InboxNew,
			CreatedAt:       now,
		}
	}
	if item.Status != entity.InboxNew {
		// La decisión anterior ya no aplica (p. ej. el atributo vinculado se eliminó).
		item.Status = entity.InboxNew
		item.DecidedBy = ""
		item.DecidedAt = nil
	}
	item.AddExample(example)
	if res.Found() {
		item.SuggestedAttributeID = res.AttributeID
		item.SuggestedConfidence = res.Confidence
	} else {
		// Una sugerencia anterior puede apuntar a un atributo que ya no existe.
		item.SuggestedAttributeID = ""
		item.SuggestedConfidence = 0
	}
	item.UpdatedAt = now
	if err := inbox.Save(ctx, item); err != nil {
		return res, false, err
	}
	return res, false, nil
}

// parse interpreta el valor crudo con el tipo del atributo. Un valor incompatible deja la
// fila mapeada pero sin valor tipado.
func (m *labelMapper) parse(attributeID, raw string) entity.Value {
	attr, ok := m.attrs[attributeID]
	if !ok {
		return entity.Value{}
	}
	v, err := entity.ParseValue(attr.ValueType, raw, attr.EnumOptions)
	if err != nil {
		return entity.Value{}
	}
	return v
}

// MapRawAttribute mapea una etiqueta cruda en el contexto del proveedor y registra en el
// inbox lo que no se pueda aplicar.
func (uc *MappingUseCase) MapRawAttribute(ctx context.Context, rawLabel, example, supplierID string) (mapping.Result, bool, error) {
	m, err := uc.newMapper(ctx, uc.repos)
	if err != nil {
		return mapping.Result{}, false, err
	}
	return m.mapLabel(ctx, uc.repos.Inbox, rawLabel, example, supplierID)
}

// ListInbox elementos del inbox filtrados por estado (vacío = todos).
func (uc *MappingUseCase) ListInbox(ctx context.Context, status string, page dto.PageRequest) (*dto.InboxListResponse, error) {
	page.DefaultPage()
	st := entity.InboxStatus(status)
	switch st {
	case "", entity.InboxNew, entity.InboxLinked, entity.InboxCreated, entity.InboxIgnored:
	default:
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}
	list, err := uc.repos.Inbox.List(ctx, st, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InboxItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toInboxItemResponse(i))
	}
	return &dto.InboxListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Decide aplica la decisión del operador sobre un elemento pendiente:
// link o create escriben un alias y rellenan las filas sin mapear; ignore escribe un
// alias ignorado para descartar la etiqueta en adelante.
func (uc *MappingUseCase) Decide(ctx context.Context, operatorID, itemID string, in dto.InboxDecisionRequest) (*dto.InboxDecisionResponse, error) {
	var (
		item      *entity.InboxItem
		attribute *entity.AttributeDefinition
		touched   []string
		filled    int
	)
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		// 1. Elemento pendiente
		var err error
		item, err = r.Inbox.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Status != entity.InboxNew {
			return domain.ErrNotPending
		}

		// 2. Atributo destino
		now := uc.now()
		switch in.Action {
		case dto.InboxActionLink:
			attribute, err = r.Attributes.GetByID(ctx, in.AttributeID)
			if err != nil {
				return err
			}
			if attribute == nil {
				return fmt.Errorf("atributo %s: %w", in.AttributeID, domain.ErrNotFound)
			}
			item.Status = entity.InboxLinked
		case dto.InboxActionCreate:
			if in.Attribute == nil {
				return fmt.Errorf("falta la definición del atributo: %w", domain.ErrInvalidInput)
			}
			attribute, err = createAttribute(ctx, r.Attributes, *in.Attribute, entity.ProvenanceInbox, now)
			if err != nil {
				return err
			}
			item.Status = entity.InboxCreated
		case dto.InboxActionIgnore:
			item.Status = entity.InboxIgnored
		default:
			return fmt.Errorf("acción %q: %w", in.Action, domain.ErrInvalidInput)
		}

		// 3. Alias
		scope := item.Origin
		if in.Global {
			scope = ""
		}
		alias := &entity.AliasEntry{
			ID:              uuid.New().String(),
			NormalizedLabel: item.NormalizedLabel,
			SupplierID:      scope,
			Confidence:      mapping.ConfidenceAlias,
			Ignored:         attribute == nil,
			CreatedBy:       operatorID,
			CreatedAt:       now,
		}
		if attribute != nil {
			alias.AttributeID = attribute.ID
		}
		if err := r.Aliases.Upsert(ctx, alias); err != nil {
			return err
		}

		// 4. Relleno de filas sin mapear
		if attribute != nil {
			touched, filled, err = backfill(ctx, r.SourceValues, attribute, item.NormalizedLabel, scope, now)
			if err != nil {
				return err
			}
		}

		item.DecidedBy = operatorID
		item.DecidedAt = &now
		item.UpdatedAt = now
		return r.Inbox.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	// 5. Recomputar entradas afectadas
	scheduled, err := uc.scheduleEntities(ctx, touched)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", itemID).Str("action", in.Action).Str("label", item.NormalizedLabel).
		Int("backfilled", filled).Int("entries", scheduled).Msg("decisión del inbox aplicada")

	out := &dto.InboxDecisionResponse{
		Item:             *toInboxItemResponse(item),
		Backfilled:       filled,
		EntriesScheduled: scheduled,
	}
	if attribute != nil {
		out.AttributeID = attribute.ID
	}
	return out, nil
}

// backfill asigna el atributo a las filas sin mapear con esa etiqueta. Devuelve las
// entidades tocadas y la cantidad de filas.
func backfill(
	ctx context.Context,
	values repository.SourceValueRepository,
	attr *entity.AttributeDefinition,
	normalizedLabel, supplierID string,
	now time.Time,
) ([]string, int, error) {
	rows, err := values.ListUnmapped(ctx, normalizedLabel, supplierID)
	if err != nil {
		return nil, 0, err
	}
	entities := map[string]bool{}
	for _, sv := range rows {
		sv.AttributeID = attr.ID
		// Un crudo incompatible con el tipo queda mapeado pero sin valor tipado.
		sv.Value, _ = entity.ParseValue(attr.ValueType, sv.RawValue, attr.EnumOptions)
		sv.UpdatedAt = now
		if err := values.Update(ctx, sv); err != nil {
			return nil, 0, err
		}
		entities[sv.SupplierEntityID] = true
	}
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, len(rows), nil
}

// scheduleEntities encola las entradas que poseen alguna de las entidades.
func (uc *MappingUseCase) scheduleEntities(ctx context.Context, entityIDs []string) (int, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}
	links, err := uc.repos.Links.ListByEntities(ctx, entityIDs)
	if err != nil {
		return 0, err
	}
	seen := map[string]bool{}
	entries := make([]string, 0, len(links))
	for _, l := range links {
		if !seen[l.CatalogEntryID] {
			seen[l.CatalogEntryID] = true
			entries = append(entries, l.CatalogEntryID)
		}
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonMapping, entries...); err != nil {
		return 0, err
	}
	return len(entries), nil
}
