package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/mncort/forestalApp-sub000/internal/apierror"
	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps service sentinels to an HTTP status plus a stable
// kind code. Anything unrecognized is treated as a storage failure: the table
// store is the only downstream that can error unexpectedly, and its details
// never reach clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMontoInvalido):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewKind("monto_invalido", err.Error()))
	case errors.Is(err, service.ErrVigenciaInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewKind("vigencia_invalida", err.Error()))
	case errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewKind("cantidad_invalida", err.Error()))
	case errors.Is(err, service.ErrPresupuestoVacio):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewKind("presupuesto_vacio", err.Error()))
	case errors.Is(err, service.ErrSinCosto):
		c.JSON(http.StatusConflict, apierror.NewKind("sin_costo", err.Error()))
	case errors.Is(err, service.ErrPresupuestoNoEditable):
		c.JSON(http.StatusConflict, apierror.NewKind("presupuesto_no_editable", err.Error()))
	case errors.Is(err, service.ErrTransicionInvalida):
		c.JSON(http.StatusConflict, apierror.NewKind("transicion_invalida", err.Error()))
	case errors.Is(err, service.ErrSinPDF):
		c.JSON(http.StatusNotFound, apierror.NewKind("sin_pdf", err.Error()))
	case errors.Is(err, infra.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.NewKind("no_encontrado", "Recurso no encontrado"))
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("storage error")
		c.JSON(http.StatusServiceUnavailable, apierror.NewKind("almacen_no_disponible", "El almacen de datos no esta disponible"))
	}
}
