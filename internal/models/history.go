package models

import (
	"time"

	"github.com/google/uuid"
)

// Valid range for any year-keyed record.
const (
	MinRecordYear = 2000
	MaxRecordYear = 2100
)

// MillRateHistory is the mill rate a place levied in a given year.
type MillRateHistory struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Notes     *string   `json:"notes,omitempty"`
	MillRate  float64   `json:"millRate"`
	Year      int       `json:"year"`
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"placeId"`
	OwnerID   uuid.UUID `json:"-"`
}

// PropertyValuationHistory is the assessment of a property for a given year.
type PropertyValuationHistory struct {
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	AssessedValue   *float64   `json:"assessedValue,omitempty"`
	MarketValue     *float64   `json:"marketValue,omitempty"`
	AssessmentDate  *time.Time `json:"assessmentDate,omitempty"`
	AssessmentNotes *string    `json:"assessmentNotes,omitempty"`
	Year            int        `json:"year"`
	ID              uuid.UUID  `json:"id"`
	PropertyID      uuid.UUID  `json:"propertyId"`
	OwnerID         uuid.UUID  `json:"-"`
}

// TaxPayment is the amount actually paid on a property for a given year.
type TaxPayment struct {
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Amount      float64    `json:"amount"`
	Year        int        `json:"year"`
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"propertyId"`
	OwnerID     uuid.UUID  `json:"-"`
}
