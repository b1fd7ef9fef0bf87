// Package match provides the vehicle ranking bounded context module.
package match

import (
	"time"

	"github.com/redis/go-redis/v9"

	apphttp "carmatch_backend/internal/http"
	"carmatch_backend/internal/match/handler"
	"carmatch_backend/internal/match/service"
	"carmatch_backend/platform/logger"
	"carmatch_backend/platform/validator"
)

// Module is the match bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the match module. The Redis client may be
// nil, which disables the response cache.
func NewModule(
	listings service.ListingSource,
	profiles service.ProfileSource,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	defaultLimit int,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	cache := service.NewCache(redisClient, cacheTTL)
	svc := service.New(listings, profiles, cache, log, defaultLimit)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "match"
}

// RegisterRoutes mounts match routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/match", m.handler.Match)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
