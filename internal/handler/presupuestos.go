package handler

import (
	"fmt"
	"net/http"

	"github.com/mncort/forestalApp-sub000/internal/apierror"
	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PresupuestosHandler serves the quote endpoints: document CRUD, line items,
// staged change sets, lifecycle transitions and the PDF download.
type PresupuestosHandler struct {
	svc service.PresupuestoService
}

func NewPresupuestosHandler(svc service.PresupuestoService) *PresupuestosHandler {
	return &PresupuestosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un presupuesto en estado borrador
// @Tags presupuestos
// @Accept json
// @Produce json
// @Param request body dto.CrearPresupuestoRequest true "Datos del presupuesto"
// @Success 201 {object} dto.PresupuestoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/presupuestos [post]
func (h *PresupuestosHandler) Crear(c *gin.Context) {
	var req dto.CrearPresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPresupuestoResponse(p, nil, service.CalcularTotales(nil, p.MetodoPago)))
}

// Listar godoc
// @Summary Lista presupuestos con filtros y paginacion
// @Tags presupuestos
// @Produce json
// @Param estado query string false "borrador | enviado | aprobado | rechazado | all"
// @Param cliente_id query string false "Filtrar por cliente"
// @Param page query int false "Pagina (default 1)"
// @Param limit query int false "Tamano de pagina (default 50)"
// @Success 200 {object} dto.PresupuestoListResponse
// @Router /v1/presupuestos [get]
func (h *PresupuestosHandler) Listar(c *gin.Context) {
	var filter dto.PresupuestoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("query invalida: "+err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("paginacion invalida"))
		return
	}

	presupuestos, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.PresupuestoListResponse{
		Data:  make([]dto.PresupuestoListItem, 0, len(presupuestos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, p := range presupuestos {
		item := dto.PresupuestoListItem{
			ID:          p.ID,
			ClienteID:   p.ClienteID,
			Descripcion: p.Descripcion,
			MetodoPago:  string(p.MetodoPago),
			Estado:      string(p.Estado),
			PdfRef:      p.PdfRef,
		}
		if !p.CreatedAt.IsZero() {
			item.CreatedAt = p.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		resp.Data = append(resp.Data, item)
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de un presupuesto con items y totales
// @Tags presupuestos
// @Produce json
// @Param id path string true "ID del presupuesto"
// @Success 200 {object} dto.PresupuestoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/presupuestos/{id} [get]
func (h *PresupuestosHandler) Obtener(c *gin.Context) {
	p, items, tot, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPresupuestoResponse(p, items, tot))
}

// CambiarEstado godoc
// @Summary Transiciona el estado de un presupuesto
// @Tags presupuestos
// @Accept json
// @Produce json
// @Param id path string true "ID del presupuesto"
// @Param request body dto.CambiarEstadoRequest true "Estado destino"
// @Success 200 {object} dto.PresupuestoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/presupuestos/{id}/estado [post]
func (h *PresupuestosHandler) CambiarEstado(c *gin.Context) {
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if _, err := h.svc.CambiarEstado(c.Request.Context(), c.Param("id"), model.EstadoPresupuesto(req.A)); err != nil {
		respondServiceError(c, err)
		return
	}
	p, items, tot, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPresupuestoResponse(p, items, tot))
}

// AgregarItem godoc
// @Summary Agrega un item a un presupuesto borrador
// @Tags presupuestos
// @Accept json
// @Produce json
// @Param id path string true "ID del presupuesto"
// @Param request body dto.AgregarItemRequest true "Producto y cantidad"
// @Success 201 {object} dto.ItemResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/presupuestos/{id}/items [post]
func (h *PresupuestosHandler) AgregarItem(c *gin.Context) {
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.AgregarItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// ConfirmarCambios godoc
// @Summary Aplica un conjunto de cambios pendientes sobre un borrador
// @Tags presupuestos
// @Accept json
// @Produce json
// @Param id path string true "ID del presupuesto"
// @Param request body dto.CambiosPendientes true "Bajas, cambios y altas"
// @Success 200 {object} dto.PresupuestoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/presupuestos/{id}/cambios [post]
func (h *PresupuestosHandler) ConfirmarCambios(c *gin.Context) {
	var req dto.CambiosPendientes
	if !bindAndValidate(c, &req) {
		return
	}
	id := c.Param("id")
	if err := h.svc.ConfirmarCambios(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	p, items, tot, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPresupuestoResponse(p, items, tot))
}

// ActualizarItem godoc
// @Summary Cambia la cantidad de un item
// @Tags presupuestos
// @Accept json
// @Produce json
// @Param id path string true "ID del item"
// @Param request body dto.ActualizarItemRequest true "Nueva cantidad"
// @Success 200 {object} dto.ItemResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/items/{id} [patch]
func (h *PresupuestosHandler) ActualizarItem(c *gin.Context) {
	var req dto.ActualizarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.ActualizarCantidad(c.Request.Context(), c.Param("id"), req.Cantidad)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// EliminarItem godoc
// @Summary Elimina un item de un presupuesto borrador
// @Tags presupuestos
// @Param id path string true "ID del item"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/items/{id} [delete]
func (h *PresupuestosHandler) EliminarItem(c *gin.Context) {
	if err := h.svc.EliminarItem(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DescargarPDF godoc
// @Summary Descarga el PDF de un presupuesto enviado
// @Tags presupuestos
// @Produce application/pdf
// @Param id path string true "ID del presupuesto"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/presupuestos/{id}/pdf [get]
func (h *PresupuestosHandler) DescargarPDF(c *gin.Context) {
	id := c.Param("id")
	data, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="presupuesto_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}

func toItemResponse(item *model.PresupuestoItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             item.ID,
		ProductoID:     item.ProductoID,
		Producto:       item.ProductoNombre,
		Codigo:         item.ProductoCodigo,
		Cantidad:       item.Cantidad,
		PrecioUnitario: item.PrecioUnitario,
		Markup:         item.Markup,
		Moneda:         item.Moneda,
		Subtotal:       item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))),
	}
}

func toPresupuestoResponse(p *model.Presupuesto, items []model.PresupuestoItem, tot model.Totales) dto.PresupuestoResponse {
	resp := dto.PresupuestoResponse{
		ID:          p.ID,
		ClienteID:   p.ClienteID,
		Descripcion: p.Descripcion,
		MetodoPago:  string(p.MetodoPago),
		Estado:      string(p.Estado),
		PdfRef:      p.PdfRef,
		Items:       make([]dto.ItemResponse, 0, len(items)),
		Totales:     tot,
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	for i := range items {
		resp.Items = append(resp.Items, toItemResponse(&items[i]))
	}
	return resp
}
