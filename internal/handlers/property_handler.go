package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/landbook/internal/services"
)

// PropertyHandler handles held properties along with their valuation and
// tax payment histories.
type PropertyHandler struct {
	properties services.PropertyService
	valuations services.ValuationService
	payments   services.TaxPaymentService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(
	properties services.PropertyService,
	valuations services.ValuationService,
	payments services.TaxPaymentService,
) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		valuations: valuations,
		payments:   payments,
	}
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	properties, err := h.properties.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, "Failed to list properties")
		return
	}
	c.JSON(http.StatusOK, nonNil(properties))
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	property, err := h.properties.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err, "Failed to get property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.properties.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create property")
		return
	}
	c.JSON(http.StatusCreated, property)
}

// Update handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.properties.Update(c.Request.Context(), ownerID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.properties.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Property deleted"})
}

// ListValuations handles GET /api/v1/properties/:id/valuations.
func (h *PropertyHandler) ListValuations(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	valuations, err := h.valuations.List(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		respondError(c, err, "Failed to list valuations")
		return
	}
	c.JSON(http.StatusOK, nonNil(valuations))
}

// AddValuation handles POST /api/v1/properties/:id/valuations.
func (h *PropertyHandler) AddValuation(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ValuationRequest
	if !bindJSON(c, &req) {
		return
	}

	valuation, err := h.valuations.Add(c.Request.Context(), ownerID, propertyID, req.input())
	if err != nil {
		respondError(c, err, "Failed to add valuation")
		return
	}
	c.JSON(http.StatusCreated, valuation)
}

// UpdateValuation handles PUT /api/v1/properties/:id/valuations/:valuationId.
func (h *PropertyHandler) UpdateValuation(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "valuationId")
	if !ok {
		return
	}
	var req ValuationUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	valuation, err := h.valuations.Update(c.Request.Context(), ownerID, propertyID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update valuation")
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// DeleteValuation handles DELETE /api/v1/properties/:id/valuations/:valuationId.
func (h *PropertyHandler) DeleteValuation(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "valuationId")
	if !ok {
		return
	}

	if err := h.valuations.Delete(c.Request.Context(), ownerID, propertyID, id); err != nil {
		respondError(c, err, "Failed to delete valuation")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Valuation deleted"})
}

// ListTaxPayments handles GET /api/v1/properties/:id/tax-payments.
func (h *PropertyHandler) ListTaxPayments(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.payments.List(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		respondError(c, err, "Failed to list tax payments")
		return
	}
	c.JSON(http.StatusOK, nonNil(payments))
}

// AddTaxPayment handles POST /api/v1/properties/:id/tax-payments.
func (h *PropertyHandler) AddTaxPayment(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req TaxPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.payments.Add(c.Request.Context(), ownerID, propertyID, req.input())
	if err != nil {
		respondError(c, err, "Failed to record tax payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdateTaxPayment handles PUT /api/v1/properties/:id/tax-payments/:paymentId.
func (h *PropertyHandler) UpdateTaxPayment(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "paymentId")
	if !ok {
		return
	}
	var req TaxPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.payments.Update(c.Request.Context(), ownerID, propertyID, id, req.input())
	if err != nil {
		respondError(c, err, "Failed to update tax payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeleteTaxPayment handles DELETE /api/v1/properties/:id/tax-payments/:paymentId.
func (h *PropertyHandler) DeleteTaxPayment(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	propertyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "paymentId")
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), ownerID, propertyID, id); err != nil {
		respondError(c, err, "Failed to delete tax payment")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Tax payment deleted"})
}
