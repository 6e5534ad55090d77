package dto

import "github.com/mncort/forestalApp-sub000/internal/model"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre         string `form:"nombre"`
	SubcategoriaID string `form:"subcategoria_id"`
	Activo         string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoListResponse struct {
	Data  []model.Producto `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
