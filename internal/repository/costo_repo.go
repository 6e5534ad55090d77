package repository

import (
	"context"
	"fmt"

	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/model"
)

const (
	tablaCostos = "costos"
	// tablaCostosHistorial is the cold-storage collection an external archival
	// job moves expired entries into. This backend only ever reads it.
	tablaCostosHistorial = "costos_historial"
)

// CostoRepository persists the cost ledger. Entries are append-only except
// for CerrarCosto, the single permitted mutation (setting FechaHasta when a
// newer entry supersedes an open one).
type CostoRepository interface {
	ListByProducto(ctx context.Context, productoID string) ([]model.CostoProducto, error)
	ListArchivados(ctx context.Context, productoID string) ([]model.CostoProducto, error)
	Create(ctx context.Context, c *model.CostoProducto) error
	CerrarCosto(ctx context.Context, id string, hasta model.Fecha) error
}

type costoRepo struct{ store *infra.RecordStore }

func NewCostoRepository(store *infra.RecordStore) CostoRepository {
	return &costoRepo{store: store}
}

func (r *costoRepo) ListByProducto(ctx context.Context, productoID string) ([]model.CostoProducto, error) {
	q := infra.ListQuery{
		Where: fmt.Sprintf("(ProductoId,eq,%s)", productoID),
		Sort:  "-FechaDesde",
	}
	var costos []model.CostoProducto
	if _, err := r.store.List(ctx, tablaCostos, q, &costos); err != nil {
		return nil, err
	}
	return costos, nil
}

func (r *costoRepo) ListArchivados(ctx context.Context, productoID string) ([]model.CostoProducto, error) {
	q := infra.ListQuery{
		Where: fmt.Sprintf("(ProductoId,eq,%s)", productoID),
		Sort:  "-FechaDesde",
	}
	var costos []model.CostoProducto
	if _, err := r.store.List(ctx, tablaCostosHistorial, q, &costos); err != nil {
		return nil, err
	}
	return costos, nil
}

func (r *costoRepo) Create(ctx context.Context, c *model.CostoProducto) error {
	return r.store.Create(ctx, tablaCostos, c, c)
}

func (r *costoRepo) CerrarCosto(ctx context.Context, id string, hasta model.Fecha) error {
	patch := map[string]interface{}{"FechaHasta": hasta.String()}
	return r.store.Update(ctx, tablaCostos, id, patch)
}
