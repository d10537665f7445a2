// Package activities provides the unified activity feed and lifecycle module.
package activities

import (
	"salescrm_backend/internal/activities/handler"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/activities/service"
	"salescrm_backend/internal/events"
	apphttp "salescrm_backend/internal/http"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the activities domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new activities module with all dependencies wired
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "activities"
}

// RegisterRoutes registers the activity feed and lifecycle routes under
// /api/v1/activities, plus the per-lead timeline under /api/v1/leads.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/activities"))
	m.handler.RegisterLeadRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
