package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoPresupuesto is the lifecycle state of a quote document.
type EstadoPresupuesto string

const (
	EstadoBorrador  EstadoPresupuesto = "borrador"
	EstadoEnviado   EstadoPresupuesto = "enviado"
	EstadoAprobado  EstadoPresupuesto = "aprobado"
	EstadoRechazado EstadoPresupuesto = "rechazado"
)

// transiciones is the full transition table. aprobado and rechazado are
// terminal; nothing ever returns to borrador.
var transiciones = map[EstadoPresupuesto][]EstadoPresupuesto{
	EstadoBorrador: {EstadoEnviado},
	EstadoEnviado:  {EstadoAprobado, EstadoRechazado},
}

// Valido reports whether e is a known lifecycle state.
func (e EstadoPresupuesto) Valido() bool {
	switch e {
	case EstadoBorrador, EstadoEnviado, EstadoAprobado, EstadoRechazado:
		return true
	}
	return false
}

// EsEditable reports whether items may be created, modified or deleted.
// Only drafts are editable.
func (e EstadoPresupuesto) EsEditable() bool { return e == EstadoBorrador }

// RequierePDF reports whether a stored PDF snapshot must exist in state e.
func (e EstadoPresupuesto) RequierePDF() bool {
	return e == EstadoEnviado || e == EstadoAprobado || e == EstadoRechazado
}

// PuedeTransicionar reports whether de → a appears in the transition table.
func PuedeTransicionar(de, a EstadoPresupuesto) bool {
	for _, destino := range transiciones[de] {
		if destino == a {
			return true
		}
	}
	return false
}

// MetodoPago selects the IVA rate applied to the quote totals.
type MetodoPago string

const (
	MetodoEfectivo MetodoPago = "efectivo"
	MetodoOtro     MetodoPago = "otro"
)

// Presupuesto is a quote document for a client.
// PdfRef is written exactly once, during the borrador → enviado transition,
// and is never overwritten afterwards.
type Presupuesto struct {
	ID          string            `json:"Id"`
	ClienteID   string            `json:"ClienteId"`
	Descripcion string            `json:"Descripcion"`
	MetodoPago  MetodoPago        `json:"MetodoPago"`
	Estado      EstadoPresupuesto `json:"Estado"`
	PdfRef      string            `json:"PdfRef,omitempty"`
	CreatedAt   time.Time         `json:"CreatedAt,omitempty"`
}

// PresupuestoItem is one line of a quote. Product name/code, unit price,
// markup and currency are snapshots captured when the item is added; later
// cost or markup changes never touch an existing item.
type PresupuestoItem struct {
	ID             string          `json:"Id"`
	PresupuestoID  string          `json:"PresupuestoId"`
	ProductoID     string          `json:"ProductoId"`
	ProductoNombre string          `json:"ProductoNombre"`
	ProductoCodigo string          `json:"ProductoCodigo"`
	Cantidad       int             `json:"Cantidad"`
	PrecioUnitario decimal.Decimal `json:"PrecioUnitario"`
	Markup         decimal.Decimal `json:"Markup"`
	Moneda         string          `json:"Moneda"`
}

// Totales is the computed money summary of a quote.
type Totales struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TasaIVA  decimal.Decimal `json:"tasa_iva"`
	MontoIVA decimal.Decimal `json:"monto_iva"`
	Total    decimal.Decimal `json:"total"`
	Moneda   string          `json:"moneda"`
}
