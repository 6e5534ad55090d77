package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mncort/forestalApp-sub000/internal/dto"
	"github.com/mncort/forestalApp-sub000/internal/model"
	"github.com/mncort/forestalApp-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPreciosHandler serves the public price check endpoint.
// Read-only: it never writes to the table store, and the Redis cache entry
// is invalidated whenever the product's cost ledger changes.
type ConsultaPreciosHandler struct {
	precios service.PrecioService
	rdb     *redis.Client
}

func NewConsultaPreciosHandler(precios service.PrecioService, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{precios: precios, rdb: rdb}
}

// GetPrecio godoc
// @Summary Consulta de precio de venta de un producto
// @Tags precio
// @Produce json
// @Param producto_id path string true "ID del producto"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{producto_id} [get]
func (h *ConsultaPreciosHandler) GetPrecio(c *gin.Context) {
	productoID := c.Param("producto_id")
	ctx := c.Request.Context()
	cacheKey := "precio:" + productoID

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecioResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — compute from ledger and markup cascade
	precio, producto, err := h.precios.CalcularPrecio(ctx, productoID, model.Hoy())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.ConsultaPrecioResponse{
		ProductoID:     producto.ID,
		Nombre:         producto.Nombre,
		Codigo:         producto.Codigo,
		TieneCosto:     precio.TieneCosto,
		PrecioUnitario: precio.PrecioUnitario,
		Markup:         precio.Markup,
		Moneda:         precio.Moneda,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
