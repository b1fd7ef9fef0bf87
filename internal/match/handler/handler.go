package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"carmatch_backend/internal/match/service"
	"carmatch_backend/internal/match/transport"
	"carmatch_backend/platform/httpkit"
	"carmatch_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for vehicle matching.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Match ranks the inventory against the submitted filters and weights.
// POST /api/v1/match
func (h *Handler) Match(c *gin.Context) {
	// Unknown fields are rejected rather than silently dropped, so a typo in
	// a filter name surfaces as a 400 instead of an unfiltered result set.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	var req transport.MatchRequest
	if err := decoder.Decode(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Match(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
