package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/landbook/internal/middleware"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
	"github.com/stwalsh4118/landbook/internal/services"
)

// DealHandler handles the acquisition pipeline and deal promotion.
type DealHandler struct {
	service services.DealService
}

// NewDealHandler creates a new DealHandler instance.
func NewDealHandler(service services.DealService) *DealHandler {
	return &DealHandler{service: service}
}

// PromoteResponse is returned once a deal has become a property.
type PromoteResponse struct {
	Deal     *models.Deal     `json:"deal"`
	Property *models.Property `json:"property"`
	Message  string           `json:"message"`
}

// List handles GET /api/v1/deals. Results can be narrowed by stage and status.
func (h *DealHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var query DealListQuery
	if !bindQuery(c, &query) {
		return
	}

	var filter repository.DealFilter
	if query.Stage != "" {
		stage := models.DealStage(query.Stage)
		filter.Stage = &stage
	}
	if query.Status != "" {
		status := models.DealStatus(query.Status)
		filter.Status = &status
	}

	deals, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondError(c, err, "Failed to list deals")
		return
	}
	c.JSON(http.StatusOK, nonNil(deals))
}

// Get handles GET /api/v1/deals/:id.
func (h *DealHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deal, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to get deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

// Create handles POST /api/v1/deals.
func (h *DealHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req DealRequest
	if !bindJSON(c, &req) {
		return
	}

	deal, err := h.service.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create deal")
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// Update handles PUT /api/v1/deals/:id. The body replaces every mutable field.
func (h *DealHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DealRequest
	if !bindJSON(c, &req) {
		return
	}

	deal, err := h.service.Update(c.Request.Context(), ownerID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

// Delete handles DELETE /api/v1/deals/:id.
func (h *DealHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err, "Failed to delete deal")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Deal deleted"})
}

// Promote handles POST /api/v1/deals/:id/promote.
func (h *DealHandler) Promote(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Promote(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to promote deal")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Promoted deal", map[string]interface{}{
			"deal_id":     result.Deal.ID,
			"property_id": result.Property.ID,
		})
	}

	c.JSON(http.StatusCreated, PromoteResponse{
		Deal:     result.Deal,
		Property: result.Property,
		Message:  "Deal promoted to property",
	})
}
