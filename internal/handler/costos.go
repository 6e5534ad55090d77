package handler

import (
	"net/http"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CostosHandler serves the per-product cost ledger endpoints.
type CostosHandler struct {
	costos service.CostoService
}

func NewCostosHandler(costos service.CostoService) *CostosHandler {
	return &CostosHandler{costos: costos}
}

// AsignarCosto godoc
// @Summary Asigna un nuevo costo vigente a un producto
// @Tags costos
// @Accept json
// @Produce json
// @Param id path string true "ID del producto"
// @Param request body dto.AsignarCostoRequest true "Costo a asignar"
// @Success 201 {object} dto.CostoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/productos/{id}/costos [post]
func (h *CostosHandler) AsignarCosto(c *gin.Context) {
	var req dto.AsignarCostoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	desde, err := model.ParseFecha(req.FechaDesde)
	if err != nil {
		respondServiceError(c, service.ErrVigenciaInvalida)
		return
	}
	var hasta *model.Fecha
	if req.FechaHasta != nil {
		f, err := model.ParseFecha(*req.FechaHasta)
		if err != nil {
			respondServiceError(c, service.ErrVigenciaInvalida)
			return
		}
		hasta = &f
	}

	costo, err := h.costos.AsignarCosto(c.Request.Context(), c.Param("id"), req.Monto, req.Moneda, desde, hasta)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCostoResponse(costo))
}

// ListarCostos godoc
// @Summary Costo vigente e historial de un producto
// @Tags costos
// @Produce json
// @Param id path string true "ID del producto"
// @Success 200 {object} dto.CostosListResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/productos/{id}/costos [get]
func (h *CostosHandler) ListarCostos(c *gin.Context) {
	ctx := c.Request.Context()
	productoID := c.Param("id")

	vigente, err := h.costos.CostoVigente(ctx, productoID, model.Hoy())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	historial, err := h.costos.Historial(ctx, productoID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.CostosListResponse{Historial: make([]dto.CostoResponse, 0, len(historial))}
	if vigente != nil {
		resp.Vigente = toCostoResponse(vigente)
	}
	for i := range historial {
		resp.Historial = append(resp.Historial, *toCostoResponse(&historial[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func toCostoResponse(costo *model.CostoProducto) *dto.CostoResponse {
	resp := &dto.CostoResponse{
		ID:         costo.ID,
		ProductoID: costo.ProductoID,
		Monto:      costo.Monto,
		Moneda:     costo.Moneda,
		FechaDesde: costo.FechaDesde.String(),
	}
	if costo.FechaHasta != nil {
		s := costo.FechaHasta.String()
		resp.FechaHasta = &s
	}
	return resp
}
