package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/recompute"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/linking"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// SystemOperator autor de los vínculos automáticos.
const SystemOperator = "system"

// LinkUseCase grafo de vínculos entidad de proveedor -> entrada del catálogo.
// Invariantes: una entidad con a lo sumo un vínculo; una entrada con a lo sumo un primario.
type LinkUseCase struct {
	repos     repository.Repositories
	tx        repository.TxRunner
	scheduler Scheduler
	settings  Settings
	log       zerolog.Logger
	now       func() time.Time
}

// NewLinkUseCase construye el caso de uso.
func NewLinkUseCase(
	repos repository.Repositories,
	tx repository.TxRunner,
	scheduler Scheduler,
	settings Settings,
	log zerolog.Logger,
) *LinkUseCase {
	return &LinkUseCase{repos: repos, tx: tx, scheduler: scheduler, settings: settings, log: log, now: time.Now}
}

// Link vincula la entidad a la entrada. Falla con ErrAlreadyLinked si la entidad ya tiene vínculo.
func (uc *LinkUseCase) Link(ctx context.Context, operatorID string, in dto.LinkRequest) (*dto.LinkResponse, error) {
	linkType := entity.LinkType(strings.TrimSpace(in.Type))
	if linkType == "" {
		linkType = entity.LinkManual
	}
	if !linkType.Valid() {
		return nil, fmt.Errorf("tipo de vínculo %q: %w", in.Type, domain.ErrInvalidInput)
	}
	confidence := 1.0
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confianza %v fuera de [0,1]: %w", confidence, domain.ErrInvalidInput)
	}
	if err := uc.checkTargets(ctx, in.EntryID, in.SupplierEntityID); err != nil {
		return nil, err
	}

	now := uc.now()
	link := &entity.EntityLink{
		ID:               uuid.New().String(),
		CatalogEntryID:   in.EntryID,
		SupplierEntityID: in.SupplierEntityID,
		Type:             linkType,
		Confidence:       confidence,
		IsPrimary:        in.IsPrimary,
		NeedsReview:      linkType == entity.LinkAutoSimilarity,
		CreatedBy:        operatorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		existing, err := r.Links.GetBySupplierEntity(ctx, link.SupplierEntityID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyLinked
		}
		if link.IsPrimary {
			if err := demotePrimary(ctx, r.Links, link.CatalogEntryID, link.SupplierEntityID, now); err != nil {
				return err
			}
		}
		return r.Links.Create(ctx, link)
	})
	if err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonLink, link.CatalogEntryID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", link.CatalogEntryID).Str("entity_id", link.SupplierEntityID).
		Str("type", string(link.Type)).Bool("primary", link.IsPrimary).Msg("entidad vinculada")
	return toLinkResponse(link), nil
}

// Relink mueve la entidad a otra entrada. Recalcula tanto el dueño anterior como el nuevo.
func (uc *LinkUseCase) Relink(ctx context.Context, operatorID, entityID, entryID string) (*dto.LinkResponse, error) {
	if err := uc.checkTargets(ctx, entryID, entityID); err != nil {
		return nil, err
	}
	var (
		link     *entity.EntityLink
		oldEntry string
	)
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		var err error
		link, err = r.Links.GetBySupplierEntity(ctx, entityID)
		if err != nil {
			return err
		}
		if link == nil {
			return fmt.Errorf("vínculo de %s: %w", entityID, domain.ErrNotFound)
		}
		oldEntry = link.CatalogEntryID
		if oldEntry == entryID {
			return nil
		}
		link.CatalogEntryID = entryID
		link.IsPrimary = false
		link.Type = entity.LinkManual
		link.Confidence = 1
		link.NeedsReview = false
		link.CreatedBy = operatorID
		link.UpdatedAt = uc.now()
		return r.Links.Update(ctx, link)
	})
	if err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonLink, oldEntry, entryID); err != nil {
		return nil, err
	}
	return toLinkResponse(link), nil
}

// Unlink elimina el vínculo de la entidad.
func (uc *LinkUseCase) Unlink(ctx context.Context, entityID string) error {
	link, err := uc.repos.Links.GetBySupplierEntity(ctx, entityID)
	if err != nil {
		return err
	}
	if link == nil {
		return fmt.Errorf("vínculo de %s: %w", entityID, domain.ErrNotFound)
	}
	if err := uc.repos.Links.Delete(ctx, entityID); err != nil {
		return err
	}
	uc.log.Info().Str("entry_id", link.CatalogEntryID).Str("entity_id", entityID).Msg("entidad desvinculada")
	return uc.scheduler.Schedule(ctx, recompute.ReasonLink, link.CatalogEntryID)
}

// SetPrimary marca el vínculo de la entidad como primario; el primario anterior de la
// misma entrada se degrada en la misma transacción.
func (uc *LinkUseCase) SetPrimary(ctx context.Context, entityID string) (*dto.LinkResponse, error) {
	var link *entity.EntityLink
	err := uc.tx.Run(ctx, func(r repository.Repositories) error {
		var err error
		link, err = r.Links.GetBySupplierEntity(ctx, entityID)
		if err != nil {
			return err
		}
		if link == nil {
			return fmt.Errorf("vínculo de %s: %w", entityID, domain.ErrNotFound)
		}
		if link.IsPrimary {
			return nil
		}
		now := uc.now()
		if err := demotePrimary(ctx, r.Links, link.CatalogEntryID, entityID, now); err != nil {
			return err
		}
		link.IsPrimary = true
		link.UpdatedAt = now
		return r.Links.Update(ctx, link)
	})
	if err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonLink, link.CatalogEntryID); err != nil {
		return nil, err
	}
	return toLinkResponse(link), nil
}

// AutoLink busca una entrada para una entidad sin vínculo: código primario, código
// secundario y similitud, en ese orden. Devuelve nil si no hay coincidencia.
func (uc *LinkUseCase) AutoLink(ctx context.Context, entityID string) (*entity.EntityLink, error) {
	// 1. Entidad entrante
	e, err := uc.repos.Entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if existing, err := uc.repos.Links.GetBySupplierEntity(ctx, entityID); err != nil || existing != nil {
		return existing, err
	}

	// 2. Candidatas ya vinculadas que comparten código o marca
	candidates, err := uc.repos.Entities.ListMatchCandidates(ctx, e.PrimaryCode, e.SecondaryCode, e.Brand)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(candidates)+1)
	ids = append(ids, e.ID)
	for _, c := range candidates {
		if c.ID != e.ID {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 1 {
		return nil, nil
	}
	links, err := uc.repos.Links.ListByEntities(ctx, ids[1:])
	if err != nil {
		return nil, err
	}
	owner := make(map[string]string, len(links))
	for _, l := range links {
		owner[l.SupplierEntityID] = l.CatalogEntryID
	}
	values, err := uc.repos.SourceValues.ListByEntities(ctx, ids)
	if err != nil {
		return nil, err
	}
	byEntity := map[string][]*entity.SourceValue{}
	for _, v := range values {
		byEntity[v.SupplierEntityID] = append(byEntity[v.SupplierEntityID], v)
	}
	profiles := make([]linking.Profile, 0, len(candidates))
	for _, c := range candidates {
		if entryID, ok := owner[c.ID]; ok && c.ID != e.ID {
			profiles = append(profiles, linking.NewProfile(c, entryID, byEntity[c.ID]))
		}
	}

	// 3. Decisión
	match, ok := linking.FindMatch(linking.NewProfile(e, "", byEntity[e.ID]), profiles, uc.settings.SimilarityThreshold)
	if !ok {
		return nil, nil
	}
	now := uc.now()
	link := &entity.EntityLink{
		ID:               uuid.New().String(),
		CatalogEntryID:   match.EntryID,
		SupplierEntityID: e.ID,
		Type:             match.Type,
		Confidence:       match.Confidence,
		NeedsReview:      match.NeedsReview,
		CreatedBy:        SystemOperator,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Links.Create(ctx, link); err != nil {
		if errors.Is(err, domain.ErrAlreadyLinked) {
			// Otro import la vinculó entre la lectura y la escritura.
			return uc.repos.Links.GetBySupplierEntity(ctx, e.ID)
		}
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonLink, link.CatalogEntryID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", link.CatalogEntryID).Str("entity_id", e.ID).Str("type", string(link.Type)).
		Float64("confidence", link.Confidence).Bool("needs_review", link.NeedsReview).Msg("vínculo automático")
	return link, nil
}

// CreateEntryFromEntity crea una entrada nueva con la entidad como vínculo primario manual.
func (uc *LinkUseCase) CreateEntryFromEntity(ctx context.Context, operatorID, entityID string) (*dto.EntryResponse, error) {
	e, err := uc.repos.Entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("entidad %s: %w", entityID, domain.ErrNotFound)
	}
	now := uc.now()
	entry := &entity.CatalogEntry{
		ID:              uuid.New().String(),
		RecomputeStatus: entity.RecomputePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	link := &entity.EntityLink{
		ID:               uuid.New().String(),
		CatalogEntryID:   entry.ID,
		SupplierEntityID: e.ID,
		Type:             entity.LinkManual,
		Confidence:       1,
		IsPrimary:        true,
		CreatedBy:        operatorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		existing, err := r.Links.GetBySupplierEntity(ctx, e.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyLinked
		}
		if err := r.Entries.Create(ctx, entry); err != nil {
			return err
		}
		return r.Links.Create(ctx, link)
	})
	if err != nil {
		return nil, err
	}
	if err := uc.scheduler.Schedule(ctx, recompute.ReasonEntry, entry.ID); err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry, uc.settings.locale(""))
	resp.Links = []dto.LinkResponse{*toLinkResponse(link)}
	return resp, nil
}

func (uc *LinkUseCase) checkTargets(ctx context.Context, entryID, entityID string) error {
	entry, err := uc.repos.Entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("entrada %s: %w", entryID, domain.ErrNotFound)
	}
	e, err := uc.repos.Entities.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("entidad %s: %w", entityID, domain.ErrNotFound)
	}
	return nil
}

// demotePrimary quita la marca de primario a los vínculos de la entrada salvo el de except.
func demotePrimary(ctx context.Context, links repository.LinkRepository, entryID, except string, now time.Time) error {
	current, err := links.ListByEntry(ctx, entryID)
	if err != nil {
		return err
	}
	for _, l := range current {
		if !l.IsPrimary || l.SupplierEntityID == except {
			continue
		}
		l.IsPrimary = false
		l.UpdatedAt = now
		if err := links.Update(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
