package model

import "github.com/shopspring/decimal"

// Supported currencies for cost entries.
const (
	MonedaARS = "ARS"
	MonedaUSD = "USD"
)

// CostoProducto is one row of the temporally-versioned cost ledger.
// Each entry is valid over the half-open interval [FechaDesde, FechaHasta);
// FechaHasta absent means "vigente hasta nuevo aviso" (open-ended).
//
// Rows are immutable after insert except for the single closing operation:
// when a new cost is assigned, the previous open entry gets its FechaHasta set
// to the day before the new FechaDesde. Expired rows are eventually moved to
// the costos_historial collection by an external archival job.
type CostoProducto struct {
	ID         string          `json:"Id"`
	ProductoID string          `json:"ProductoId"`
	Monto      decimal.Decimal `json:"Monto"`
	Moneda     string          `json:"Moneda"`
	FechaDesde Fecha           `json:"FechaDesde"`
	FechaHasta *Fecha          `json:"FechaHasta,omitempty"`
}

// Abierto reports whether the entry is open-ended.
func (c *CostoProducto) Abierto() bool { return c.FechaHasta == nil }

// VigenteEn reports whether the entry covers day d: FechaDesde <= d < FechaHasta.
func (c *CostoProducto) VigenteEn(d Fecha) bool {
	if d.Before(c.FechaDesde.Time) {
		return false
	}
	return c.FechaHasta == nil || d.Before(c.FechaHasta.Time)
}
