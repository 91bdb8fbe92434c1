package handler

import (
	"net/http"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/middleware"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type RolesHandler struct {
	svc    service.UserRoleService
	acceso service.AccesoService
}

func NewRolesHandler(svc service.UserRoleService, acceso service.AccesoService) *RolesHandler {
	return &RolesHandler{svc: svc, acceso: acceso}
}

// Me describes the caller: admin flag plus client and tier when scoped.
func (h *RolesHandler) Me(c *gin.Context) {
	resp, err := h.acceso.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) Crear(c *gin.Context) {
	var req dto.UserRoleInsert
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar accepts an optional ?user_id= filter.
func (h *RolesHandler) Listar(c *gin.Context) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), userID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UserRoleUpdate
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RolesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
