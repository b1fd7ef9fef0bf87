package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carmatch_backend/internal/leads/repository"
	"carmatch_backend/internal/leads/service"
	"carmatch_backend/internal/leads/transport"
	"carmatch_backend/platform/httpkit"
	"carmatch_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lead id"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

// CreateLead records a buyer's interest in a listing.
// POST /api/v1/leads
func (h *Handler) CreateLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.CreateLead(c.Request.Context(), req.ToInput())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromLead(lead))
}

// GetLead retrieves one lead.
// GET /api/v1/leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromLead(lead))
}

// GetTimeline retrieves the lead's event history in order.
// GET /api/v1/leads/:id/events
func (h *Handler) GetTimeline(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	events, err := h.svc.GetTimeline(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromEvents(events))
}

// ChangeStatus applies a status transition to the lead.
// PATCH /api/v1/leads/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromLead(lead))
}

// RecordEvent appends a free-form audit entry to the timeline.
// POST /api/v1/leads/:id/events
func (h *Handler) RecordEvent(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.svc.RecordEvent(c.Request.Context(), id, req.Action, req.Description)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromEvent(event))
}

// SendToDealer hands the lead off to the listing's dealer.
// POST /api/v1/leads/:id/send-to-dealer
func (h *Handler) SendToDealer(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.SendToDealer(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromLead(lead))
}

// ListAdmin retrieves a page of leads for the admin view.
// GET /api/v1/leads/admin
func (h *Handler) ListAdmin(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	leads, total, err := h.svc.ListAdmin(c.Request.Context(), repository.ListParams{
		Page:  req.Page,
		Limit: req.Limit,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadPageResponse{
		Items: transport.FromLeadsWithListing(leads),
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	})
}

// Summary retrieves aggregate lead counters for the admin dashboard.
// GET /api/v1/leads/admin/summary
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromSummary(summary))
}

// ListByDealer retrieves the leads handed to one dealer.
// GET /api/v1/leads/dealer/:name
func (h *Handler) ListByDealer(c *gin.Context) {
	leads, err := h.svc.ListByDealer(c.Request.Context(), c.Param("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromLeadsWithListing(leads))
}
