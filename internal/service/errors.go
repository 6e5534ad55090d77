package service

import "errors"

// Sentinel error kinds surfaced by the pricing/lifecycle engine. All are
// recoverable and user-facing: handlers map them to an HTTP status plus a
// stable kind string (see handler.respondServiceError). None aborts the
// process.
var (
	// Cost ledger
	ErrMontoInvalido    = errors.New("el monto debe ser mayor a cero")
	ErrVigenciaInvalida = errors.New("la vigencia del costo es invalida")

	// Quote item ledger
	ErrCantidadInvalida      = errors.New("la cantidad debe ser mayor a cero")
	ErrSinCosto              = errors.New("el producto no tiene costo asignado")
	ErrPresupuestoNoEditable = errors.New("el presupuesto ya no admite cambios")

	// Lifecycle
	ErrPresupuestoVacio   = errors.New("el presupuesto no tiene items")
	ErrTransicionInvalida = errors.New("transicion de estado no permitida")
	ErrSinPDF             = errors.New("el presupuesto no tiene PDF generado")
)
