package model

// Producto mirrors one row of the productos collection in the table store.
// The sale price is never stored on the product: it is derived from the cost
// ledger and the markup cascade at quote time.
type Producto struct {
	ID             string `json:"Id"`
	Nombre         string `json:"Nombre"`
	Codigo         string `json:"Codigo"`
	Descripcion    string `json:"Descripcion,omitempty"`
	SubcategoriaID string `json:"SubcategoriaId"`
	// Markup overrides the subcategory/category markup when set (raw text column).
	Markup string `json:"Markup"`
	Activo bool   `json:"Activo"`
}
