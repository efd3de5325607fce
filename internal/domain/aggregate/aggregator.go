// Package aggregate deriva stock y cotas de precio de una entrada a partir de las
// entidades de proveedor vinculadas.
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Input estado fuente de una entrada.
type Input struct {
	Links    []*entity.EntityLink
	Entities map[string]*entity.SupplierEntity // por SupplierEntityID
	Prices   []*entity.PriceRecord
	// BaseCurrency si no está vacío, solo se consideran precios en esa moneda.
	BaseCurrency string
}

// Result agregados. Un puntero nil significa "sin precio que califique" y nunca cero.
type Result struct {
	Stock                     int64
	RetailMin                 *decimal.Decimal
	RetailMax                 *decimal.Decimal
	PurchaseMin               *decimal.Decimal
	PreferredSupplierEntityID string
}

// Aggregate suma el stock de las entidades vinculadas y calcula min/max de precios
// retail y el mínimo de compra.
func Aggregate(in Input) Result {
	var res Result
	linked := make(map[string]bool, len(in.Links))
	for _, l := range in.Links {
		linked[l.SupplierEntityID] = true
		if e, ok := in.Entities[l.SupplierEntityID]; ok {
			res.Stock += e.Stock
		}
	}

	purchaseBy := map[string]decimal.Decimal{}
	for _, p := range in.Prices {
		if !linked[p.SupplierEntityID] {
			continue
		}
		if in.BaseCurrency != "" && !strings.EqualFold(p.Currency, in.BaseCurrency) {
			continue
		}
		switch strings.ToLower(p.Classification) {
		case entity.PriceRetail:
			res.RetailMin = minPtr(res.RetailMin, p.Value)
			res.RetailMax = maxPtr(res.RetailMax, p.Value)
		case entity.PricePurchase:
			res.PurchaseMin = minPtr(res.PurchaseMin, p.Value)
			if cur, ok := purchaseBy[p.SupplierEntityID]; !ok || p.Value.LessThan(cur) {
				purchaseBy[p.SupplierEntityID] = p.Value
			}
		}
	}
	res.PreferredSupplierEntityID = preferred(in.Links, purchaseBy)
	return res
}

// preferred vínculo primario; si no hay, la entidad con menor precio de compra;
// si tampoco, el primer vínculo por id de entidad.
func preferred(links []*entity.EntityLink, purchaseBy map[string]decimal.Decimal) string {
	if len(links) == 0 {
		return ""
	}
	for _, l := range links {
		if l.IsPrimary {
			return l.SupplierEntityID
		}
	}
	best := ""
	var bestPrice decimal.Decimal
	for _, l := range links {
		p, ok := purchaseBy[l.SupplierEntityID]
		if !ok {
			continue
		}
		if best == "" || p.LessThan(bestPrice) || (p.Equal(bestPrice) && l.SupplierEntityID < best) {
			best, bestPrice = l.SupplierEntityID, p
		}
	}
	if best != "" {
		return best
	}
	first := links[0].SupplierEntityID
	for _, l := range links[1:] {
		if l.SupplierEntityID < first {
			first = l.SupplierEntityID
		}
	}
	return first
}

func minPtr(cur *decimal.Decimal, v decimal.Decimal) *decimal.Decimal {
	if cur == nil || v.LessThan(*cur) {
		return &v
	}
	return cur
}

func maxPtr(cur *decimal.Decimal, v decimal.Decimal) *decimal.Decimal {
	if cur == nil || v.GreaterThan(*cur) {
		return &v
	}
	return cur
}
