// Package leads provides the lead lifecycle bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"carmatch_backend/internal/events"
	apphttp "carmatch_backend/internal/http"
	"carmatch_backend/internal/leads/handler"
	"carmatch_backend/internal/leads/repository"
	"carmatch_backend/internal/leads/service"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, listings service.ListingReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, listings, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", m.handler.CreateLead)
	ctx.V1.GET("/leads/admin", m.handler.ListAdmin)
	ctx.V1.GET("/leads/admin/summary", m.handler.Summary)
	ctx.V1.GET("/leads/dealer/:name", m.handler.ListByDealer)
	ctx.V1.GET("/leads/:id", m.handler.GetLead)
	ctx.V1.GET("/leads/:id/events", m.handler.GetTimeline)
	ctx.V1.POST("/leads/:id/events", m.handler.RecordEvent)
	ctx.V1.PATCH("/leads/:id/status", m.handler.ChangeStatus)
	ctx.V1.POST("/leads/:id/send-to-dealer", m.handler.SendToDealer)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
