package dto

import "github.com/shopspring/decimal"

// AsignarCostoRequest creates a new cost-ledger entry for a product.
// fecha_hasta is optional: absent means the entry is open-ended.
type AsignarCostoRequest struct {
	Monto      decimal.Decimal `json:"monto"       validate:"required"`
	Moneda     string          `json:"moneda"      validate:"required,oneof=ARS USD"`
	FechaDesde string          `json:"fecha_desde" validate:"required,datetime=2006-01-02"`
	FechaHasta *string         `json:"fecha_hasta" validate:"omitempty,datetime=2006-01-02"`
}

type CostoResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Monto      decimal.Decimal `json:"monto"`
	Moneda     string          `json:"moneda"`
	FechaDesde string          `json:"fecha_desde"`
	FechaHasta *string         `json:"fecha_hasta,omitempty"`
}

// CostosListResponse is returned by GET /v1/productos/:id/costos.
// Vigente is null when no cost covers today; Historial is ordered newest-first
// and never repeats the vigente entry.
type CostosListResponse struct {
	Vigente   *CostoResponse  `json:"vigente"`
	Historial []CostoResponse `json:"historial"`
}
