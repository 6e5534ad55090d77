package dto

import "github.com/shopspring/decimal"

// ConsultaPrecioResponse is the public price lookup result.
// tiene_costo=false means the product has no cost in effect today and
// therefore no computable sale price.
type ConsultaPrecioResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Codigo         string          `json:"codigo"`
	TieneCosto     bool            `json:"tiene_costo"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Markup         decimal.Decimal `json:"markup"`
	Moneda         string          `json:"moneda"`
}
