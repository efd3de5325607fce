package catalog

import (
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/schema"
)

func toAttributeResponse(a *entity.AttributeDefinition) *dto.AttributeResponse {
	return &dto.AttributeResponse{
		ID:          a.ID,
		Code:        a.Code,
		Names:       a.Names,
		ValueType:   string(a.ValueType),
		UnitKind:    a.UnitKind,
		DefaultUnit: a.DefaultUnit,
		EnumOptions: a.EnumOptions,
		Provenance:  a.Provenance,
		NeedsReview: a.NeedsReview,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Code:      c.Code,
		Names:     c.Names,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toConstraintsDTO(c *entity.Constraints) *dto.ConstraintsDTO {
	if c.IsEmpty() {
		return nil
	}
	return &dto.ConstraintsDTO{Min: c.Min, Max: c.Max, MaxLength: c.MaxLength, Options: c.Options}
}

func fromConstraintsDTO(c *dto.ConstraintsDTO) *entity.Constraints {
	if c == nil {
		return nil
	}
	out := &entity.Constraints{Min: c.Min, Max: c.Max, MaxLength: c.MaxLength, Options: c.Options}
	if out.IsEmpty() {
		return nil
	}
	return out
}

func toBindingResponse(b *entity.CategoryAttributeBinding, scheduled int) *dto.BindingResponse {
	return &dto.BindingResponse{
		CategoryID:       b.CategoryID,
		AttributeID:      b.AttributeID,
		Required:         b.Required,
		Visible:          b.Visible,
		Position:         b.Position,
		UnitOverride:     b.UnitOverride,
		Constraints:      toConstraintsDTO(b.Constraints),
		State:            b.State,
		EntriesScheduled: scheduled,
		UpdatedAt:        b.UpdatedAt,
	}
}

func toSchemaAttribute(r schema.ResolvedAttribute, locale string) dto.SchemaAttributeResponse {
	out := dto.SchemaAttributeResponse{
		AttributeID:      r.Attribute.ID,
		Code:             r.Attribute.Code,
		Name:             r.Attribute.DisplayName(locale),
		ValueType:        string(r.Attribute.ValueType),
		OriginCategoryID: r.OriginID,
		Inherited:        r.Inherited,
		Required:         r.Required,
		Visible:          r.Visible,
		Position:         r.Position,
		Unit:             r.Unit,
	}
	if c := toConstraintsDTO(&r.Constraints); c != nil {
		out.Constraints = *c
	}
	return out
}

func toInboxItemResponse(i *entity.InboxItem) *dto.InboxItemResponse {
	return &dto.InboxItemResponse{
		ID:                   i.ID,
		RawLabel:             i.RawLabel,
		NormalizedLabel:      i.NormalizedLabel,
		Origin:               i.Origin,
		Frequency:            i.Frequency,
		Examples:             i.Examples,
		SuggestedAttributeID: i.SuggestedAttributeID,
		SuggestedConfidence:  i.SuggestedConfidence,
		Status:               string(i.Status),
		DecidedBy:            i.DecidedBy,
		DecidedAt:            i.DecidedAt,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}

func toLinkResponse(l *entity.EntityLink) *dto.LinkResponse {
	return &dto.LinkResponse{
		ID:               l.ID,
		EntryID:          l.CatalogEntryID,
		SupplierEntityID: l.SupplierEntityID,
		Type:             string(l.Type),
		Confidence:       l.Confidence,
		IsPrimary:        l.IsPrimary,
		NeedsReview:      l.NeedsReview,
		CreatedBy:        l.CreatedBy,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toValueResponse(v *entity.AttributeValue, code string) dto.ValueResponse {
	out := dto.ValueResponse{
		AttributeID:    v.AttributeID,
		Code:           code,
		SourceKey:      v.SourceKey,
		SupplierID:     v.SupplierID,
		RawValue:       v.RawValue,
		Value:          v.Value.Raw(),
		Active:         v.Active,
		ManualOverride: v.ManualOverride,
		PriorityScore:  v.PriorityScore,
		Conflict:       v.Conflict,
		ConflictCount:  v.ConflictCount,
		Rationale:      v.Rationale,
		CreatedBy:      v.CreatedBy,
		UpdatedAt:      v.UpdatedAt,
	}
	return out
}

func toReasons(in []entity.Reason, locale string) []dto.ReasonResponse {
	out := make([]dto.ReasonResponse, 0, len(in))
	for _, r := range in {
		msg := r.Message.In(locale)
		if msg == "" {
			msg = r.Message.First([]string{"es", "en"})
		}
		out = append(out, dto.ReasonResponse{Code: r.Code, Message: msg, Messages: r.Message})
	}
	return out
}

func toEntryResponse(e *entity.CatalogEntry, locale string) *dto.EntryResponse {
	d := e.Derived
	names := d.Names
	if names == nil {
		names = entity.LocalizedText{}
	}
	return &dto.EntryResponse{
		ID:                        e.ID,
		Names:                     names,
		Brand:                     d.Brand,
		CategoryID:                d.CategoryID,
		Barcode:                   d.Barcode,
		VendorCode:                d.VendorCode,
		MediaCount:                d.MediaCount,
		Stock:                     d.Stock,
		RetailMin:                 d.RetailMin,
		RetailMax:                 d.RetailMax,
		PurchaseMin:               d.PurchaseMin,
		PreferredSupplierEntityID: d.PreferredSupplierEntityID,
		IsReady:                   d.IsReady,
		Blocking:                  toReasons(d.Blocking, locale),
		Warnings:                  toReasons(d.Warnings, locale),
		QualityScore:              d.QualityScore,
		RecomputeStatus:           e.RecomputeStatus,
		LastError:                 e.LastError,
		ComputedAt:                e.ComputedAt,
		Manual: dto.ManualFields{
			Names:      e.ManualNames,
			Brand:      e.ManualBrand,
			CategoryID: e.ManualCategoryID,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
