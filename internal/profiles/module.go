// Package profiles provides the buyer profiles bounded context module.
package profiles

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "carmatch_backend/internal/http"
	"carmatch_backend/internal/profiles/handler"
	"carmatch_backend/internal/profiles/repository"
	"carmatch_backend/internal/profiles/service"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/validator"
)

// Module is the buyer profiles bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the profiles module.
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
	return "profiles"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts profile routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/buyer-profiles", m.handler.CreateProfile)
	ctx.V1.GET("/buyer-profiles", m.handler.ListProfiles)
	ctx.V1.GET("/buyer-profiles/:id", m.handler.GetProfile)
	ctx.V1.PATCH("/buyer-profiles/:id", m.handler.UpdateProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
