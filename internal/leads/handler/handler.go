// Package handler exposes the leads module over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"salescrm_backend/internal/leads/service"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for leads
type Handler struct {
	svc *service.Service
}

// New creates a new leads handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the lead routes. The static /deleted route must
// coexist with the :id param routes; gin resolves static segments first.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/deleted", h.ListDeleted)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/restore", h.Restore)
}

func callerIdentity(c *gin.Context) (org uuid.UUID, actor string, ok bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, "", false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "organization scope is required", nil)
		return uuid.UUID{}, "", false
	}
	actor = identity.UserEmail()
	if actor == "" {
		actor = identity.UserID().String()
	}
	return *tenantID, actor, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

// GetByID handles GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id, org)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// ListDeleted handles GET /api/v1/leads/deleted
func (h *Handler) ListDeleted(c *gin.Context) {
	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	items, err := h.svc.ListDeleted(c.Request.Context(), org)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DeletedLeadsResponse{Data: items})
}

// Delete handles DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(c.Request.Context(), id, org, actor); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

// Restore handles POST /api/v1/leads/:id/restore
func (h *Handler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	lead, err := h.svc.Restore(c.Request.Context(), id, org, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}
