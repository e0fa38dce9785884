package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/landbook/internal/models"
)

var fieldValidator = validator.New()

func validEmail(v *ValidationError, field string, email *string) {
	if blank(email) {
		return
	}
	if err := fieldValidator.Var(strings.TrimSpace(*email), "email"); err != nil {
		v.Add(field, "Must be a valid email address")
	}
}

func validatePlaceType(v *ValidationError, kind *models.PlaceKind) {
	if kind != nil && *kind != "" && !kind.IsLocality() {
		v.Add("placeType", fmt.Sprintf("must be one of TOWN, UT, CITY, got %q", *kind))
	}
}

func validateClosingCosts(v *ValidationError, c *models.ClosingCosts) {
	nonNegative(v, "titleInsurance", c.TitleInsurance)
	nonNegative(v, "recordingFees", c.RecordingFees)
	nonNegative(v, "stateTaxStamps", c.StateTaxStamps)
	nonNegative(v, "taxProration", c.TaxProration)
	nonNegative(v, "attorneyFees", c.AttorneyFees)
	nonNegative(v, "otherClosingCosts", c.OtherClosingCosts)
}

func validateFinancing(v *ValidationError, f *models.Financing) {
	nonNegative(v, "downPayment", f.DownPayment)
	nonNegative(v, "interestRate", f.InterestRate)
	nonNegative(v, "monthlyPayment", f.MonthlyPayment)
	if f.LoanTermMonths != nil && *f.LoanTermMonths < 0 {
		v.Add("loanTermMonths", "must be greater than or equal to 0")
	}
}

// isRejection reports whether err is a client-facing outcome rather than a
// failure.
func isRejection(err error) bool {
	var v *ValidationError
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.As(err, &v)
}
