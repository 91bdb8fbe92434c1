package handler

import (
	"fmt"
	"net/http"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/middleware"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/service"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/view"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// panelResponse is the JSON shape of every panel mode. The general mode
// fills Tarjetas, the per-dimension modes fill Filas.
type panelResponse struct {
	Agrupacion string         `json:"agrupacion"`
	Titulo     string         `json:"titulo"`
	Tarjetas   []view.Tarjeta `json:"tarjetas,omitempty"`
	Filas      interface{}    `json:"filas,omitempty"`
}

func panelJSON(v view.Vista) (panelResponse, error) {
	resp := panelResponse{Agrupacion: string(v.Agrupacion())}
	switch v := v.(type) {
	case view.VistaGeneral:
		resp.Titulo = v.Titulo
		resp.Tarjetas = v.Tarjetas[:]
	case view.VistaPorCliente:
		resp.Titulo, resp.Filas = v.Titulo, v.Filas
	case view.VistaPorVendedor:
		resp.Titulo, resp.Filas = v.Titulo, v.Filas
	case view.VistaPorRubro:
		resp.Titulo, resp.Filas = v.Titulo, v.Filas
	default:
		return resp, fmt.Errorf("vista no soportada %T", v)
	}
	return resp, nil
}

// Estadisticas renders the stats panel in the ?agrupacion= mode.
func (h *ReportesHandler) Estadisticas(c *gin.Context) {
	var filtro dto.ReporteFilter
	if !bindQuery(c, &filtro) {
		return
	}
	vista, err := h.svc.Panel(c.Request.Context(), filtro)
	if err != nil {
		responderError(c, err)
		return
	}
	resp, err := panelJSON(vista)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar downloads the stats as an xlsx workbook, one sheet per mode.
func (h *ReportesHandler) Exportar(c *gin.Context) {
	var filtro dto.ReporteFilter
	if !bindQuery(c, &filtro) {
		return
	}
	data, nombre, err := h.svc.ExportarXLSX(c.Request.Context(), filtro)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, mimeXLSX, data)
}

// ExportarEmail queues the workbook to be mailed; answers 202. Without an
// explicit email the workbook goes to the address in the caller's token.
func (h *ReportesHandler) ExportarEmail(c *gin.Context) {
	var req dto.ExportarEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Email == "" {
		if claims := middleware.GetClaims(c); claims != nil {
			req.Email = claims.Email
		}
	}
	if err := h.svc.EncolarExportEmail(c.Request.Context(), req, middleware.GetUserID(c).String()); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true, "email": req.Email})
}
