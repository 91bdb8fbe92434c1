package handler

import (
	"errors"
	"net/http"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/apierror"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/middleware"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// bindAndValidate decodes the JSON body through the schema contract.
// Returns false and writes the error response if the payload is rejected;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := schema.Decode(c.Request.Body, req); err != nil {
		responderError(c, err)
		return false
	}
	return true
}

// bindQuery binds query-string filters and runs their validation tags.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	if err := schema.Validate(filter); err != nil {
		responderError(c, err)
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderError maps service errors to HTTP statuses. Anything unknown is
// logged and answered with a generic 500.
func responderError(c *gin.Context, err error) {
	if v, ok := schema.AsViolation(err); ok {
		if v.Sintaxis {
			c.JSON(http.StatusBadRequest, apierror.WithCode("json_invalido", "JSON invalido"))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(v.Campos))
		return
	}

	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.WithCode("no_encontrado", err.Error()))
	case errors.Is(err, service.ErrReferenciaEnUso):
		c.JSON(http.StatusConflict, apierror.WithCode("referencia_en_uso", err.Error()))
	case errors.Is(err, service.ErrSkuDuplicado):
		c.JSON(http.StatusConflict, apierror.WithCode("sku_duplicado", err.Error()))
	case errors.Is(err, service.ErrIDDuplicado):
		c.JSON(http.StatusConflict, apierror.WithCode("id_duplicado", err.Error()))
	case errors.Is(err, service.ErrTotalInconsistente):
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("total_inconsistente", err.Error()))
	case errors.Is(err, service.ErrCurvaInconsistente):
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("curva_inconsistente", err.Error()))
	case errors.Is(err, service.ErrSinCliente):
		c.JSON(http.StatusForbidden, apierror.WithCode("sin_cliente", err.Error()))
	case errors.Is(err, service.ErrProductoNoVisible):
		c.JSON(http.StatusForbidden, apierror.WithCode("producto_no_visible", err.Error()))
	case errors.Is(err, service.ErrAccesoDenegado):
		c.JSON(http.StatusForbidden, apierror.WithCode("acceso_denegado", err.Error()))
	case errors.Is(err, service.ErrExportNoDisponible):
		c.JSON(http.StatusServiceUnavailable, apierror.WithCode("export_no_disponible", err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// queryID parses an optional uuid query parameter, nil when absent.
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{name: "uuid"}))
		return nil, false
	}
	return &id, true
}
