package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/landbook/internal/services"
)

// PersonHandler handles contact CRUD.
type PersonHandler struct {
	service services.PersonService
}

// NewPersonHandler creates a new PersonHandler instance.
func NewPersonHandler(service services.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// List handles GET /api/v1/people.
func (h *PersonHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	people, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, "Failed to list people")
		return
	}
	c.JSON(http.StatusOK, nonNil(people))
}

// Get handles GET /api/v1/people/:id.
func (h *PersonHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	person, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to get person")
		return
	}
	c.JSON(http.StatusOK, person)
}

// Create handles POST /api/v1/people.
func (h *PersonHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req PersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.service.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create person")
		return
	}
	c.JSON(http.StatusCreated, person)
}

// Update handles PUT /api/v1/people/:id.
func (h *PersonHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.service.Update(c.Request.Context(), ownerID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update person")
		return
	}
	c.JSON(http.StatusOK, person)
}

// Delete handles DELETE /api/v1/people/:id.
func (h *PersonHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err, "Failed to delete person")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Person deleted"})
}
