package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// DictionaryUseCase casos de uso del diccionario global de atributos.
type DictionaryUseCase struct {
	attrs repository.AttributeRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewDictionaryUseCase construye el caso de uso.
func NewDictionaryUseCase(attrs repository.AttributeRepository, log zerolog.Logger) *DictionaryUseCase {
	return &DictionaryUseCase{attrs: attrs, log: log, now: time.Now}
}

// Create registra un atributo con procedencia manual. El code es único e inmutable.
func (uc *DictionaryUseCase) Create(ctx context.Context, in dto.CreateAttributeRequest) (*dto.AttributeResponse, error) {
	attr, err := createAttribute(ctx, uc.attrs, in, entity.ProvenanceManual, uc.now())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("attribute_id", attr.ID).Str("code", attr.Code).Msg("atributo creado")
	return toAttributeResponse(attr), nil
}

// GetByID obtiene un atributo.
func (uc *DictionaryUseCase) GetByID(ctx context.Context, id string) (*dto.AttributeResponse, error) {
	attr, err := uc.attrs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, domain.ErrNotFound
	}
	return toAttributeResponse(attr), nil
}

// List devuelve el diccionario completo.
func (uc *DictionaryUseCase) List(ctx context.Context) ([]dto.AttributeResponse, error) {
	list, err := uc.attrs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttributeResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAttributeResponse(a))
	}
	return out, nil
}

// Delete elimina un atributo que nada referencia; si está en uso devuelve ErrInUse.
func (uc *DictionaryUseCase) Delete(ctx context.Context, id string) error {
	attr, err := uc.attrs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if attr == nil {
		return domain.ErrNotFound
	}
	used, err := uc.attrs.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("atributo %s: %w", attr.Code, domain.ErrInUse)
	}
	return uc.attrs.Delete(ctx, id)
}

// createAttribute valida y persiste una definición nueva. Se usa también desde el inbox.
func createAttribute(
	ctx context.Context,
	attrs repository.AttributeRepository,
	in dto.CreateAttributeRequest,
	provenance string,
	now time.Time,
) (*entity.AttributeDefinition, error) {
	code := strings.ToLower(strings.TrimSpace(in.Code))
	if code == "" || strings.ContainsAny(code, " \t\n") {
		return nil, fmt.Errorf("code %q: %w", in.Code, domain.ErrInvalidInput)
	}
	vt := entity.ValueType(strings.ToLower(strings.TrimSpace(in.ValueType)))
	if vt == "" {
		vt = entity.ValueTypeText
	}
	if !vt.Valid() {
		return nil, fmt.Errorf("value_type %q: %w", in.ValueType, domain.ErrInvalidInput)
	}
	names := entity.LocalizedText{}
	for locale, name := range in.Names {
		if s := strings.TrimSpace(name); s != "" {
			names[strings.ToLower(strings.TrimSpace(locale))] = s
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("names vacío: %w", domain.ErrInvalidInput)
	}
	var options []string
	if vt == entity.ValueTypeEnum {
		for _, o := range in.EnumOptions {
			if s := strings.TrimSpace(o); s != "" {
				options = append(options, s)
			}
		}
	}

	existing, err := attrs.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("atributo %s: %w", code, domain.ErrDuplicate)
	}
	attr := &entity.AttributeDefinition{
		ID:          uuid.New().String(),
		Code:        code,
		Names:       names,
		ValueType:   vt,
		UnitKind:    strings.TrimSpace(in.UnitKind),
		DefaultUnit: strings.TrimSpace(in.DefaultUnit),
		EnumOptions: options,
		Provenance:  provenance,
		NeedsReview: provenance != entity.ProvenanceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := attrs.Create(ctx, attr); err != nil {
		return nil, err
	}
	return attr, nil
}
