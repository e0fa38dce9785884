package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/landbook/internal/middleware"
)

// Error codes carried in every error response.
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrConflict           = "CONFLICT"
	ErrBusinessRule       = "BUSINESS_RULE_VIOLATION"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   []FieldError `json:"details,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, code, message string, details []FieldError) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func warn(c *gin.Context, msg, message string, details []FieldError) {
	log := middleware.GetLogger(c)
	if log == nil {
		return
	}
	fields := map[string]interface{}{
		"message": message,
		"path":    c.Request.URL.Path,
	}
	if len(details) > 0 {
		fields["details"] = details
	}
	log.Warn(msg, fields)
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	warn(c, "Resource not found", message, nil)
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details []FieldError) {
	warn(c, "Bad request", message, details)
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Violations returns a 400 listing every field that failed a domain rule.
func Violations(c *gin.Context, message string, details []FieldError) {
	warn(c, "Validation error", message, details)
	respond(c, http.StatusBadRequest, ErrValidation, message, details)
}

// Conflict returns a 409 for a request that collides with existing state,
// such as a duplicate year or name.
func Conflict(c *gin.Context, message string, details []FieldError) {
	warn(c, "Conflict", message, details)
	respond(c, http.StatusConflict, ErrConflict, message, details)
}

// BusinessRule returns a 400 for an operation the current state forbids,
// such as promoting a deal that is not won.
func BusinessRule(c *gin.Context, message string, details []FieldError) {
	warn(c, "Business rule violation", message, details)
	respond(c, http.StatusBadRequest, ErrBusinessRule, message, details)
}

// Unauthorized returns a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	warn(c, "Unauthorized", message, nil)
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// InternalServerError logs err with full context and returns a 500 whose body
// carries only message.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	}
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError returns a 400 describing each field rejected by request binding.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make([]FieldError, 0, len(validationErrors))
	for _, err := range validationErrors {
		details = append(details, FieldError{
			Field:   err.Field(),
			Message: formatValidationError(err),
		})
	}
	Violations(c, "Validation failed for one or more fields", details)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return "Must be a date formatted as YYYY-MM-DD"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
