package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mncort/forestalApp-sub000/internal/model"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// PresupuestoFilter is bound from the query string of GET /v1/presupuestos.
type PresupuestoFilter struct {
	Estado    string `form:"estado"` // borrador | enviado | aprobado | rechazado | all
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PresupuestoListItem struct {
	ID          string `json:"id"`
	ClienteID   string `json:"cliente_id"`
	Descripcion string `json:"descripcion"`
	MetodoPago  string `json:"metodo_pago"`
	Estado      string `json:"estado"`
	PdfRef      string `json:"pdf_ref,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type PresupuestoListResponse struct {
	Data  []PresupuestoListItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPresupuestoRequest struct {
	ClienteID   string `json:"cliente_id"  validate:"required"`
	Descripcion string `json:"descripcion" validate:"required,min=3"`
	MetodoPago  string `json:"metodo_pago" validate:"required,oneof=efectivo otro"`
}

type AgregarItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required"`
	Cantidad   int    `json:"cantidad"    validate:"required"`
}

type ActualizarItemRequest struct {
	Cantidad int `json:"cantidad" validate:"required"`
}

// CambiarEstadoRequest asks for a lifecycle transition. Unknown states are
// rejected at validation; known-but-illegal targets surface as
// transicion_invalida from the state machine.
type CambiarEstadoRequest struct {
	A string `json:"a" validate:"required,oneof=borrador enviado aprobado rechazado"`
}

// CambiosPendientes is the staged change set for one draft quote: the UI
// accumulates edits locally and commits them in a single call. Application
// order is fixed: bajas, then cambios, then altas.
type CambiosPendientes struct {
	Bajas   []string          `json:"bajas"`
	Cambios []CambioCantidad  `json:"cambios" validate:"dive"`
	Altas   []AltaItemRequest `json:"altas"   validate:"dive"`
}

type CambioCantidad struct {
	ItemID   string `json:"item_id"  validate:"required"`
	Cantidad int    `json:"cantidad" validate:"required"`
}

type AltaItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required"`
	Cantidad   int    `json:"cantidad"    validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Codigo         string          `json:"codigo"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Markup         decimal.Decimal `json:"markup"`
	Moneda         string          `json:"moneda"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PresupuestoResponse struct {
	ID          string         `json:"id"`
	ClienteID   string         `json:"cliente_id"`
	Descripcion string         `json:"descripcion"`
	MetodoPago  string         `json:"metodo_pago"`
	Estado      string         `json:"estado"`
	PdfRef      string         `json:"pdf_ref,omitempty"`
	Items       []ItemResponse `json:"items"`
	Totales     model.Totales  `json:"totales"`
	CreatedAt   string         `json:"created_at,omitempty"`
}
