package model

// Categoria classifies subcategories of forestry products.
// Markup is the raw text column from the table store: it may be empty or hold
// a non-numeric value; parsing happens at resolution time (see service.ResolverMarkup).
type Categoria struct {
	ID     string `json:"Id"`
	Nombre string `json:"Nombre"`
	Markup string `json:"Markup"`
}

// Subcategoria sits between Producto and Categoria in the markup cascade.
type Subcategoria struct {
	ID          string `json:"Id"`
	Nombre      string `json:"Nombre"`
	Markup      string `json:"Markup"`
	CategoriaID string `json:"CategoriaId"`
}
