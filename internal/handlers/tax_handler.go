package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/landbook/internal/services"
)

// TaxHandler serves the computed tax reports.
type TaxHandler struct {
	service services.TaxService
}

// NewTaxHandler creates a new TaxHandler instance.
func NewTaxHandler(service services.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// Summary handles GET /api/v1/taxes.
func (h *TaxHandler) Summary(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	summary, err := h.service.PortfolioSummary(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, "Failed to compute tax summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// PropertyHistory handles GET /api/v1/properties/:id/taxes.
func (h *TaxHandler) PropertyHistory(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.service.PropertyTaxHistory(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to compute tax history")
		return
	}
	c.JSON(http.StatusOK, history)
}
