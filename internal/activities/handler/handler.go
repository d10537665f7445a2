// Package handler exposes the activities module over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/service"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/platform/httpkit"
	"salescrm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the unified activity feed and the
// per-source lifecycle endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new activities handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the activity routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)

	rg.POST("/logs", h.CreateLog)
	rg.PATCH("/logs/:id", h.EditLog)
	rg.DELETE("/logs/:id", h.DeleteLog)

	rg.POST("/reminders", h.CreateReminder)
	rg.POST("/reminders/:id/complete", h.CompleteReminder)
	rg.POST("/reminders/:id/cancel", h.CancelReminder)

	rg.POST("/meetings", h.CreateMeeting)
	rg.POST("/meetings/:id/complete", h.CompleteMeeting)
	rg.POST("/meetings/:id/cancel", h.CancelMeeting)

	rg.POST("/demos", h.CreateDemo)
	rg.POST("/demos/:id/complete", h.CompleteDemo)
	rg.POST("/demos/:id/cancel", h.CancelDemo)
}

// RegisterLeadRoutes registers the per-lead history routes; they live under
// the leads path because they are addressed by lead, not by activity.
func (h *Handler) RegisterLeadRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/timeline", h.Timeline)
	rg.GET("/:id/audit", h.AuditTrail)
}

// callerIdentity extracts the organization scope and actor label from the
// authenticated identity. Returns ok=false after writing the error response.
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

// List handles GET /api/v1/activities
func (h *Handler) List(c *gin.Context) {
	var req transport.ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), org, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Timeline handles GET /api/v1/leads/:id/timeline
func (h *Handler) Timeline(c *gin.Context) {
	leadID, ok := pathID(c)
	if !ok {
		return
	}
	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.BuildTimeline(c.Request.Context(), leadID, org)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AuditTrail handles GET /api/v1/leads/:id/audit
func (h *Handler) AuditTrail(c *gin.Context) {
	leadID, ok := pathID(c)
	if !ok {
		return
	}
	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.AuditTrail(c.Request.Context(), leadID, org)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateLog handles POST /api/v1/activities/logs
func (h *Handler) CreateLog(c *gin.Context) {
	var req transport.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.CreateLog(c.Request.Context(), org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
}

// EditLog handles PATCH /api/v1/activities/logs/:id
func (h *Handler) EditLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.EditLog(c.Request.Context(), id, org, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activity)
}

// DeleteLog handles DELETE /api/v1/activities/logs/:id
// The body is optional; a missing reason is recorded with a sentinel.
func (h *Handler) DeleteLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.DeleteLogRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteLog(c.Request.Context(), id, org, actor, req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

// CreateReminder handles POST /api/v1/activities/reminders
func (h *Handler) CreateReminder(c *gin.Context) {
	var req transport.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.CreateReminder(c.Request.Context(), org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
}

// CompleteReminder handles POST /api/v1/activities/reminders/:id/complete
func (h *Handler) CompleteReminder(c *gin.Context) {
	h.complete(c, h.svc.CompleteReminder)
}

// CancelReminder handles POST /api/v1/activities/reminders/:id/cancel
func (h *Handler) CancelReminder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.CancelReminder(c.Request.Context(), id, org, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activity)
}

// CreateMeeting handles POST /api/v1/activities/meetings
func (h *Handler) CreateMeeting(c *gin.Context) {
	var req transport.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.CreateMeeting(c.Request.Context(), org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
}

// CompleteMeeting handles POST /api/v1/activities/meetings/:id/complete
func (h *Handler) CompleteMeeting(c *gin.Context) {
	h.complete(c, h.svc.CompleteMeeting)
}

// CancelMeeting handles POST /api/v1/activities/meetings/:id/cancel
func (h *Handler) CancelMeeting(c *gin.Context) {
	h.cancelEvent(c, h.svc.CancelMeeting)
}

// CreateDemo handles POST /api/v1/activities/demos
func (h *Handler) CreateDemo(c *gin.Context) {
	var req transport.CreateDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := h.svc.CreateDemo(c.Request.Context(), org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
}

// CompleteDemo handles POST /api/v1/activities/demos/:id/complete
func (h *Handler) CompleteDemo(c *gin.Context) {
	h.complete(c, h.svc.CompleteDemo)
}

// CancelDemo handles POST /api/v1/activities/demos/:id/cancel
func (h *Handler) CancelDemo(c *gin.Context) {
	h.cancelEvent(c, h.svc.CancelDemo)
}

type completeFn = func(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CompleteActivityRequest) (domain.UnifiedActivity, error)

// complete is the shared handler body for the three completion endpoints;
// they differ only in which service method performs the transition.
func (h *Handler) complete(c *gin.Context, do completeFn) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.CompleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := do(c.Request.Context(), id, org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activity)
}

type cancelEventFn = func(ctx context.Context, id int64, org uuid.UUID, actor string, req transport.CancelEventRequest) (domain.UnifiedActivity, error)

func (h *Handler) cancelEvent(c *gin.Context, do cancelEventFn) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	activity, err := do(c.Request.Context(), id, org, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activity)
}
