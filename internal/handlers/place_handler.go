package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
	"github.com/stwalsh4118/landbook/internal/services"
)

// PlaceHandler handles the place hierarchy and its mill rate history.
type PlaceHandler struct {
	places    services.PlaceService
	millRates services.MillRateService
}

// NewPlaceHandler creates a new PlaceHandler instance.
func NewPlaceHandler(places services.PlaceService, millRates services.MillRateService) *PlaceHandler {
	return &PlaceHandler{places: places, millRates: millRates}
}

// List handles GET /api/v1/places.
func (h *PlaceHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	var query PlaceListQuery
	if !bindQuery(c, &query) {
		return
	}

	var filter repository.PlaceFilter
	if query.Kind != "" {
		kind := models.PlaceKind(query.Kind)
		filter.Kind = &kind
	}
	if query.ParentID != "" {
		parent := uuid.MustParse(query.ParentID)
		filter.ParentID = &parent
	}

	places, err := h.places.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondError(c, err, "Failed to list places")
		return
	}
	c.JSON(http.StatusOK, nonNil(places))
}

// Get handles GET /api/v1/places/:id.
func (h *PlaceHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	place, err := h.places.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to get place")
		return
	}
	c.JSON(http.StatusOK, place)
}

// Create handles POST /api/v1/places.
func (h *PlaceHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	place, err := h.places.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create place")
		return
	}
	c.JSON(http.StatusCreated, place)
}

// Update handles PUT /api/v1/places/:id. Only metadata changes; the
// position in the hierarchy and the mill rate mirror are fixed.
func (h *PlaceHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	place, err := h.places.Update(c.Request.Context(), ownerID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update place")
		return
	}
	c.JSON(http.StatusOK, place)
}

// Delete handles DELETE /api/v1/places/:id.
func (h *PlaceHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.places.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err, "Failed to delete place")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Place deleted"})
}

// ListMillRates handles GET /api/v1/places/:id/mill-rates.
func (h *PlaceHandler) ListMillRates(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rates, err := h.millRates.List(c.Request.Context(), ownerID, placeID)
	if err != nil {
		respondError(c, err, "Failed to list mill rates")
		return
	}
	c.JSON(http.StatusOK, nonNil(rates))
}

// AddMillRate handles POST /api/v1/places/:id/mill-rates.
func (h *PlaceHandler) AddMillRate(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MillRateRequest
	if !bindJSON(c, &req) {
		return
	}

	rate, err := h.millRates.Add(c.Request.Context(), ownerID, placeID, req.input())
	if err != nil {
		respondError(c, err, "Failed to add mill rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// UpdateMillRate handles PUT /api/v1/places/:id/mill-rates/:millRateId.
func (h *PlaceHandler) UpdateMillRate(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "millRateId")
	if !ok {
		return
	}
	var req MillRateUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	rate, err := h.millRates.Update(c.Request.Context(), ownerID, placeID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update mill rate")
		return
	}
	c.JSON(http.StatusOK, rate)
}

// DeleteMillRate handles DELETE /api/v1/places/:id/mill-rates/:millRateId.
func (h *PlaceHandler) DeleteMillRate(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "millRateId")
	if !ok {
		return
	}

	if err := h.millRates.Delete(c.Request.Context(), ownerID, placeID, id); err != nil {
		respondError(c, err, "Failed to delete mill rate")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Mill rate deleted"})
}
