package memory

import (
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneAttribute(a entity.AttributeDefinition) *entity.AttributeDefinition {
	a.Names = a.Names.Clone()
	a.EnumOptions = cloneStrings(a.EnumOptions)
	return &a
}

func cloneCategory(c entity.Category) *entity.Category {
	c.Names = c.Names.Clone()
	return &c
}

func cloneEntity(e entity.SupplierEntity) *entity.SupplierEntity {
	e.Names = e.Names.Clone()
	e.Media = cloneStrings(e.Media)
	if e.RawAttributes != nil {
		raw := make(map[string]string, len(e.RawAttributes))
		for k, v := range e.RawAttributes {
			raw[k] = v
		}
		e.RawAttributes = raw
	}
	return &e
}

func cloneInbox(i entity.InboxItem) *entity.InboxItem {
	i.Examples = cloneStrings(i.Examples)
	if i.DecidedAt != nil {
		t := *i.DecidedAt
		i.DecidedAt = &t
	}
	return &i
}

func cloneReasons(rs []entity.Reason) []entity.Reason {
	if rs == nil {
		return nil
	}
	out := make([]entity.Reason, len(rs))
	for i, r := range rs {
		out[i] = entity.Reason{Code: r.Code, Message: r.Message.Clone()}
	}
	return out
}

func cloneEntry(e entity.CatalogEntry) *entity.CatalogEntry {
	e.ManualNames = e.ManualNames.Clone()
	e.Derived.Names = e.Derived.Names.Clone()
	e.Derived.Blocking = cloneReasons(e.Derived.Blocking)
	e.Derived.Warnings = cloneReasons(e.Derived.Warnings)
	if e.ComputedAt != nil {
		t := *e.ComputedAt
		e.ComputedAt = &t
	}
	return &e
}
