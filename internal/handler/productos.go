package handler

import (
	"net/http"

	"github.com/mncort/forestalApp-sub000/internal/apierror"
	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductosHandler serves the read-only catalog endpoints.
type ProductosHandler struct {
	repo repository.ProductoRepository
}

func NewProductosHandler(repo repository.ProductoRepository) *ProductosHandler {
	return &ProductosHandler{repo: repo}
}

// List godoc
// @Summary Lista productos del catalogo
// @Tags productos
// @Produce json
// @Param nombre query string false "Busqueda por nombre"
// @Param subcategoria_id query string false "Filtrar por subcategoria"
// @Param activo query string false "false | all (default: solo activos)"
// @Param page query int false "Pagina (default 1)"
// @Param limit query int false "Tamano de pagina (default 50)"
// @Success 200 {object} dto.ProductoListResponse
// @Router /v1/productos [get]
func (h *ProductosHandler) List(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("query invalida: "+err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("paginacion invalida"))
		return
	}

	productos, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductoListResponse{
		Data:  productos,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get godoc
// @Summary Detalle de un producto
// @Tags productos
// @Produce json
// @Param id path string true "ID del producto"
// @Success 200 {object} model.Producto
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [get]
func (h *ProductosHandler) Get(c *gin.Context) {
	producto, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producto)
}
