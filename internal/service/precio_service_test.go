package service

import (
	"context"
	"testing"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProductoRepo is an in-memory ProductoRepository.
type stubProductoRepo struct {
	productos     map[string]*model.Producto
	subcategorias map[string]*model.Subcategoria
	categorias    map[string]*model.Categoria
}

func (r *stubProductoRepo) FindByID(_ context.Context, id string) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, infra.ErrNoEncontrado
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	return nil, 0, nil
}

func (r *stubProductoRepo) FindSubcategoria(_ context.Context, id string) (*model.Subcategoria, error) {
	s, ok := r.subcategorias[id]
	if !ok {
		return nil, infra.ErrNoEncontrado
	}
	return s, nil
}

func (r *stubProductoRepo) FindCategoria(_ context.Context, id string) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, infra.ErrNoEncontrado
	}
	return c, nil
}

func TestResolverMarkupCascada(t *testing.T) {
	cases := []struct {
		nombre                           string
		producto, subcategoria, categoria string
		esperado                         string
	}{
		{"producto gana", "30", "15", "10", "30"},
		{"producto vacio cae a subcategoria", "", "15", "10", "15"},
		{"producto malformado cae a subcategoria", "15%", "20", "10", "20"},
		{"subcategoria malformada cae a categoria", "", "abc", "10", "10"},
		{"todo vacio es cero", "", "", "", "0"},
		{"todo malformado es cero", "x", "y", "z", "0"},
		{"markup decimal", "12.5", "", "", "12.5"},
		{"markup cero explicito corta la cascada", "0", "15", "10", "0"},
		{"espacios se toleran", " 18 ", "", "", "18"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			got := ResolverMarkup(tc.producto, tc.subcategoria, tc.categoria)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.esperado)),
				"esperado %s, obtenido %s", tc.esperado, got)
		})
	}
}

func catalogoDePrueba() *stubProductoRepo {
	return &stubProductoRepo{
		productos: map[string]*model.Producto{
			"p1": {ID: "p1", Nombre: "Tirante 2x4", Codigo: "T24", SubcategoriaID: "s1"},
			"p2": {ID: "p2", Nombre: "Machimbre", Codigo: "MA1", SubcategoriaID: "s1", Markup: "40"},
			"p3": {ID: "p3", Nombre: "Huérfano", Codigo: "HU1"},
		},
		subcategorias: map[string]*model.Subcategoria{
			"s1": {ID: "s1", Nombre: "Maderas duras", Markup: "15", CategoriaID: "c1"},
		},
		categorias: map[string]*model.Categoria{
			"c1": {ID: "c1", Nombre: "Maderas", Markup: "10"},
		},
	}
}

func TestCalcularPrecioAplicaMarkupSobreCosto(t *testing.T) {
	catalogo := catalogoDePrueba()
	costos := &stubCostoRepo{costos: []model.CostoProducto{
		{ID: "c1", ProductoID: "p1", Monto: decimal.NewFromInt(1000), Moneda: model.MonedaARS, FechaDesde: fecha(2025, 1, 1)},
	}}
	svc := NewPrecioService(catalogo, NewCostoService(costos, nil))

	res, producto, err := svc.CalcularPrecio(context.Background(), "p1", fecha(2025, 6, 1))
	require.NoError(t, err)
	assert.True(t, res.TieneCosto)
	assert.Equal(t, "Tirante 2x4", producto.Nombre)
	// costo 1000, markup de subcategoria 15 → 1150
	assert.True(t, res.PrecioUnitario.Equal(decimal.NewFromInt(1150)), "precio %s", res.PrecioUnitario)
	assert.True(t, res.Markup.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, model.MonedaARS, res.Moneda)
}

func TestCalcularPrecioMarkupDeProductoTienePrioridad(t *testing.T) {
	catalogo := catalogoDePrueba()
	costos := &stubCostoRepo{costos: []model.CostoProducto{
		{ID: "c1", ProductoID: "p2", Monto: decimal.NewFromInt(200), Moneda: model.MonedaUSD, FechaDesde: fecha(2025, 1, 1)},
	}}
	svc := NewPrecioService(catalogo, NewCostoService(costos, nil))

	res, _, err := svc.CalcularPrecio(context.Background(), "p2", fecha(2025, 6, 1))
	require.NoError(t, err)
	// costo 200, markup propio 40 → 280
	assert.True(t, res.PrecioUnitario.Equal(decimal.NewFromInt(280)), "precio %s", res.PrecioUnitario)
	assert.Equal(t, model.MonedaUSD, res.Moneda)
}

func TestCalcularPrecioProductoSinCatalogoUsaMarkupCero(t *testing.T) {
	catalogo := catalogoDePrueba()
	costos := &stubCostoRepo{costos: []model.CostoProducto{
		{ID: "c1", ProductoID: "p3", Monto: decimal.NewFromInt(500), Moneda: model.MonedaARS, FechaDesde: fecha(2025, 1, 1)},
	}}
	svc := NewPrecioService(catalogo, NewCostoService(costos, nil))

	res, _, err := svc.CalcularPrecio(context.Background(), "p3", fecha(2025, 6, 1))
	require.NoError(t, err)
	assert.True(t, res.PrecioUnitario.Equal(decimal.NewFromInt(500)), "precio %s", res.PrecioUnitario)
	assert.True(t, res.Markup.IsZero())
}

func TestCalcularPrecioSinCostoVigente(t *testing.T) {
	catalogo := catalogoDePrueba()
	svc := NewPrecioService(catalogo, NewCostoService(&stubCostoRepo{}, nil))

	res, producto, err := svc.CalcularPrecio(context.Background(), "p1", fecha(2025, 6, 1))
	require.NoError(t, err)
	assert.False(t, res.TieneCosto)
	assert.True(t, res.PrecioUnitario.IsZero())
	assert.Equal(t, "p1", producto.ID)
}

func TestCalcularPrecioProductoInexistente(t *testing.T) {
	svc := NewPrecioService(catalogoDePrueba(), NewCostoService(&stubCostoRepo{}, nil))

	_, _, err := svc.CalcularPrecio(context.Background(), "nope", fecha(2025, 6, 1))
	assert.ErrorIs(t, err, infra.ErrNoEncontrado)
}
