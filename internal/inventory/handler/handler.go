package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carmatch_backend/internal/inventory/repository"
	"carmatch_backend/internal/inventory/service"
	"carmatch_backend/internal/inventory/transport"
	"carmatch_backend/platform/httpkit"
	"carmatch_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid listing id"
)

// Handler handles HTTP requests for the vehicle inventory.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateListing ingests one listing.
// POST /api/v1/listings
func (h *Handler) CreateListing(c *gin.Context) {
	var req transport.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listing, err := h.svc.CreateListing(c.Request.Context(), req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromListing(listing))
}

// GetListing retrieves one listing by ID.
// GET /api/v1/listings/:id
func (h *Handler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	listing, err := h.svc.GetListing(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromListing(listing))
}

// ListListings retrieves a page of listings, newest first.
// GET /api/v1/listings
func (h *Handler) ListListings(c *gin.Context) {
	var req transport.ListListingsRequest
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

	listings, total, err := h.svc.ListListings(c.Request.Context(), repository.ListParams{
		Page:  req.Page,
		Limit: req.Limit,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ListingPageResponse{
		Items: transport.FromListings(listings),
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	})
}
