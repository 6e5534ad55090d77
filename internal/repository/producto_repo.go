package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/model"
)

const (
	tablaProductos     = "productos"
	tablaSubcategorias = "subcategorias"
	tablaCategorias    = "categorias"
)

// ProductoRepository is the read surface over the catalog collections.
// Services depend on this interface, not on the record-store client,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	FindByID(ctx context.Context, id string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	FindSubcategoria(ctx context.Context, id string) (*model.Subcategoria, error)
	FindCategoria(ctx context.Context, id string) (*model.Categoria, error)
}

type productoRepo struct{ store *infra.RecordStore }

func NewProductoRepository(store *infra.RecordStore) ProductoRepository {
	return &productoRepo{store: store}
}

func (r *productoRepo) FindByID(ctx context.Context, id string) (*model.Producto, error) {
	var p model.Producto
	if err := r.store.Get(ctx, tablaProductos, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var clauses []string

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		clauses = append(clauses, "(Activo,eq,false)")
	case "all":
		// no filter
	default:
		clauses = append(clauses, "(Activo,eq,true)")
	}

	if filter.Nombre != "" {
		clauses = append(clauses, fmt.Sprintf("(Nombre,like,%%%s%%)", filter.Nombre))
	}
	if filter.SubcategoriaID != "" {
		clauses = append(clauses, fmt.Sprintf("(SubcategoriaId,eq,%s)", filter.SubcategoriaID))
	}

	q := infra.ListQuery{
		Where:  strings.Join(clauses, "~and"),
		Sort:   "Nombre",
		Limit:  filter.Limit,
		Offset: (filter.Page - 1) * filter.Limit,
	}

	var productos []model.Producto
	total, err := r.store.List(ctx, tablaProductos, q, &productos)
	return productos, total, err
}

func (r *productoRepo) FindSubcategoria(ctx context.Context, id string) (*model.Subcategoria, error) {
	var s model.Subcategoria
	if err := r.store.Get(ctx, tablaSubcategorias, id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *productoRepo) FindCategoria(ctx context.Context, id string) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.store.Get(ctx, tablaCategorias, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
