package services

import (
	"errors"
	"fmt"
	"strings"
)

// Service-level errors
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Promotion rejections. Match them with errors.Is; the errors actually
// returned are business-rule ConflictErrors built fresh by dealNotWon and
// alreadyPromoted.
var (
	ErrAlreadyPromoted = errors.New("deal has already been promoted to a property")
	ErrDealNotWon      = errors.New("only deals in the WON stage can be promoted")
)

func alreadyPromoted() error {
	return &ConflictError{
		Message:      ErrAlreadyPromoted.Error(),
		Field:        "promotedToPropertyId",
		BusinessRule: true,
		rule:         ErrAlreadyPromoted,
	}
}

func dealNotWon() error {
	return &ConflictError{
		Message:      ErrDealNotWon.Error(),
		Field:        "dealStage",
		BusinessRule: true,
		rule:         ErrDealNotWon,
	}
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// FieldViolation names one input field that broke a rule.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError reports every field that failed, not just the first.
type ValidationError struct {
	Message string
	Fields  []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return e.Message + ": " + strings.Join(names, ", ")
}

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldViolation{Field: field, Message: message})
}

// OrNil returns e when it holds violations and nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ConflictError reports a request that collides with existing state.
// BusinessRule marks rejections driven by an entity's lifecycle state
// instead of a uniqueness clash.
type ConflictError struct {
	rule         error
	Message      string
	Field        string
	BusinessRule bool
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrConflict) match every ConflictError, and a
// business-rule conflict also match the sentinel of its rule.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || (e.rule != nil && target == e.rule)
}

func conflict(field, format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...), Field: field}
}
