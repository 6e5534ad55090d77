package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// ResolverMarkup resolves the markup cascade: the product's own markup wins,
// then the subcategory's, then the category's, else 0.
//
// Each argument is the raw text column from the table store. A value counts
// as "set" only when it parses as a number; empty or malformed values fall
// through to the next level silently. A markup of "15%" or "abc" at product
// level means the subcategory rate applies.
func ResolverMarkup(producto, subcategoria, categoria string) decimal.Decimal {
	for _, raw := range []string{producto, subcategoria, categoria} {
		if pct, ok := parseMarkup(raw); ok {
			return pct
		}
	}
	return decimal.Zero
}

func parseMarkup(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return pct, true
}

// ResultadoPrecio is the pricing snapshot for one product at one date.
// Once copied into a quote item it is never recomputed: later cost or markup
// changes do not touch existing items.
type ResultadoPrecio struct {
	TieneCosto     bool
	PrecioUnitario decimal.Decimal
	Markup         decimal.Decimal
	Moneda         string
}

// PrecioService combines the cost ledger and the markup cascade into a unit
// sale price: precio = costo × (1 + markup/100).
type PrecioService interface {
	// CalcularPrecio prices productoID as of alDia. TieneCosto=false (with a
	// zero price) when no ledger entry covers that day. The product record is
	// returned alongside so callers can snapshot name/code.
	CalcularPrecio(ctx context.Context, productoID string, alDia model.Fecha) (*ResultadoPrecio, *model.Producto, error)
}

type precioService struct {
	productos repository.ProductoRepository
	costos    CostoService
}

func NewPrecioService(productos repository.ProductoRepository, costos CostoService) PrecioService {
	return &precioService{productos: productos, costos: costos}
}

func (s *precioService) CalcularPrecio(ctx context.Context, productoID string, alDia model.Fecha) (*ResultadoPrecio, *model.Producto, error) {
	producto, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, nil, fmt.Errorf("producto %s: %w", productoID, err)
	}

	costo, err := s.costos.CostoVigente(ctx, productoID, alDia)
	if err != nil {
		return nil, nil, err
	}
	if costo == nil {
		return &ResultadoPrecio{TieneCosto: false, Moneda: model.MonedaARS}, producto, nil
	}

	markupSub, markupCat := s.markupsCatalogo(ctx, producto)
	markup := ResolverMarkup(producto.Markup, markupSub, markupCat)
	precio := costo.Monto.Mul(cien.Add(markup)).Div(cien)

	return &ResultadoPrecio{
		TieneCosto:     true,
		PrecioUnitario: precio,
		Markup:         markup,
		Moneda:         costo.Moneda,
	}, producto, nil
}

// markupsCatalogo fetches the subcategory and category markup columns.
// A missing or unreadable record behaves exactly like a blank markup: the
// cascade just moves on (the catalog may legitimately have orphan products).
func (s *precioService) markupsCatalogo(ctx context.Context, producto *model.Producto) (string, string) {
	if producto.SubcategoriaID == "" {
		return "", ""
	}
	sub, err := s.productos.FindSubcategoria(ctx, producto.SubcategoriaID)
	if err != nil {
		return "", ""
	}
	if sub.CategoriaID == "" {
		return sub.Markup, ""
	}
	cat, err := s.productos.FindCategoria(ctx, sub.CategoriaID)
	if err != nil {
		return sub.Markup, ""
	}
	return sub.Markup, cat.Markup
}
