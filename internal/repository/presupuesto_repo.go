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
	tablaPresupuestos = "presupuestos"
	tablaItems        = "presupuesto_items"
)

// PresupuestoRepository persists quotes and their line items.
type PresupuestoRepository interface {
	Create(ctx context.Context, p *model.Presupuesto) error
	FindByID(ctx context.Context, id string) (*model.Presupuesto, error)
	List(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Presupuesto, int64, error)
	ActualizarEstado(ctx context.Context, id string, estado model.EstadoPresupuesto) error
	// ActualizarEstadoYPDF writes the new state and the PDF reference in one
	// record-store patch: the borrador → enviado transition is only observable
	// with both fields set.
	ActualizarEstadoYPDF(ctx context.Context, id string, estado model.EstadoPresupuesto, pdfRef string) error

	ItemsByPresupuesto(ctx context.Context, presupuestoID string) ([]model.PresupuestoItem, error)
	FindItem(ctx context.Context, itemID string) (*model.PresupuestoItem, error)
	CreateItem(ctx context.Context, item *model.PresupuestoItem) error
	UpdateItemCantidad(ctx context.Context, itemID string, cantidad int) error
	DeleteItem(ctx context.Context, itemID string) error
}

type presupuestoRepo struct{ store *infra.RecordStore }

func NewPresupuestoRepository(store *infra.RecordStore) PresupuestoRepository {
	return &presupuestoRepo{store: store}
}

func (r *presupuestoRepo) Create(ctx context.Context, p *model.Presupuesto) error {
	return r.store.Create(ctx, tablaPresupuestos, p, p)
}

func (r *presupuestoRepo) FindByID(ctx context.Context, id string) (*model.Presupuesto, error) {
	var p model.Presupuesto
	if err := r.store.Get(ctx, tablaPresupuestos, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presupuestoRepo) List(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Presupuesto, int64, error) {
	var clauses []string
	if filter.Estado != "" && filter.Estado != "all" {
		clauses = append(clauses, fmt.Sprintf("(Estado,eq,%s)", filter.Estado))
	}
	if filter.ClienteID != "" {
		clauses = append(clauses, fmt.Sprintf("(ClienteId,eq,%s)", filter.ClienteID))
	}

	q := infra.ListQuery{
		Where:  strings.Join(clauses, "~and"),
		Sort:   "-CreatedAt",
		Limit:  filter.Limit,
		Offset: (filter.Page - 1) * filter.Limit,
	}

	var presupuestos []model.Presupuesto
	total, err := r.store.List(ctx, tablaPresupuestos, q, &presupuestos)
	return presupuestos, total, err
}

func (r *presupuestoRepo) ActualizarEstado(ctx context.Context, id string, estado model.EstadoPresupuesto) error {
	return r.store.Update(ctx, tablaPresupuestos, id, map[string]interface{}{"Estado": estado})
}

func (r *presupuestoRepo) ActualizarEstadoYPDF(ctx context.Context, id string, estado model.EstadoPresupuesto, pdfRef string) error {
	patch := map[string]interface{}{
		"Estado": estado,
		"PdfRef": pdfRef,
	}
	return r.store.Update(ctx, tablaPresupuestos, id, patch)
}

func (r *presupuestoRepo) ItemsByPresupuesto(ctx context.Context, presupuestoID string) ([]model.PresupuestoItem, error) {
	q := infra.ListQuery{
		Where: fmt.Sprintf("(PresupuestoId,eq,%s)", presupuestoID),
		Sort:  "Id",
	}
	var items []model.PresupuestoItem
	if _, err := r.store.List(ctx, tablaItems, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *presupuestoRepo) FindItem(ctx context.Context, itemID string) (*model.PresupuestoItem, error) {
	var item model.PresupuestoItem
	if err := r.store.Get(ctx, tablaItems, itemID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *presupuestoRepo) CreateItem(ctx context.Context, item *model.PresupuestoItem) error {
	return r.store.Create(ctx, tablaItems, item, item)
}

func (r *presupuestoRepo) UpdateItemCantidad(ctx context.Context, itemID string, cantidad int) error {
	return r.store.Update(ctx, tablaItems, itemID, map[string]interface{}{"Cantidad": cantidad})
}

func (r *presupuestoRepo) DeleteItem(ctx context.Context, itemID string) error {
	return r.store.Delete(ctx, tablaItems, itemID)
}
