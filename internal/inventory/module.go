// Package inventory provides the vehicle listings bounded context module.
package inventory

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "carmatch_backend/internal/http"
	"carmatch_backend/internal/inventory/handler"
	"carmatch_backend/internal/inventory/repository"
	"carmatch_backend/internal/inventory/service"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/validator"
)

// Module is the inventory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the inventory module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inventory"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts inventory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/listings", m.handler.CreateListing)
	ctx.V1.GET("/listings", m.handler.ListListings)
	ctx.V1.GET("/listings/:id", m.handler.GetListing)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
