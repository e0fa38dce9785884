package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apierrors "github.com/stwalsh4118/landbook/internal/errors"
	"github.com/stwalsh4118/landbook/internal/middleware"
	"github.com/stwalsh4118/landbook/internal/services"
)

// dateLayout is the wire format of every calendar date in request bodies.
const dateLayout = "2006-01-02"

var registerTagNames sync.Once

// useJSONFieldNames makes binding errors report the wire name of a field
// (its json tag, or form tag for query parameters) rather than the Go one.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(key), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return ""
		})
	})
}

// bindJSON decodes and validates the request body into req. It writes the
// error response itself and reports whether the handler should continue.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return false
	}
	return true
}

// MessageResponse acknowledges an operation with no resource to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// nonNil keeps empty listings serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// owner returns the authenticated owner. Routes are always mounted behind
// middleware.Auth, so a missing owner is a wiring bug.
func owner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOwnerID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
	}
	return id, ok
}

// pathID parses the named path parameter as a UUID.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name, []apierrors.FieldError{
			{Field: name, Message: "Must be a valid UUID"},
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseDate converts an already validated YYYY-MM-DD string.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

// respondError maps a service error onto the error envelope. Anything the
// service layer did not classify is a 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		details := make([]apierrors.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, apierrors.FieldError{Field: f.Field, Message: f.Message})
		}
		apierrors.Violations(c, verr.Message, details)
		return
	}

	var cerr *services.ConflictError
	if errors.As(err, &cerr) {
		var details []apierrors.FieldError
		if cerr.Field != "" {
			details = []apierrors.FieldError{{Field: cerr.Field, Message: cerr.Message}}
		}
		if cerr.BusinessRule {
			apierrors.BusinessRule(c, cerr.Message, details)
			return
		}
		apierrors.Conflict(c, cerr.Message, details)
		return
	}

	if errors.Is(err, services.ErrNotFound) {
		apierrors.NotFound(c, capitalize(err.Error()))
		return
	}

	apierrors.InternalServerError(c, fallback, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
