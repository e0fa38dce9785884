package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPropertyType is assigned when a property is created without a type.
const DefaultPropertyType = "Land"

// Property is a held asset. AssessedValue, MarketValue and LastAssessmentDate
// mirror the latest-year PropertyValuationHistory entry.
type Property struct {
	Address
	ClosingCosts
	Financing
	PersonRoles
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	Description        *string    `json:"description,omitempty"`
	PlaceID            *uuid.UUID `json:"placeId,omitempty"`
	Acres              *float64   `json:"acres,omitempty"`
	Zoning             *string    `json:"zoning,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	Boundary           *Boundary  `json:"boundary,omitempty"`
	PurchasePrice      *float64   `json:"purchasePrice,omitempty"`
	PurchaseDate       *time.Time `json:"purchaseDate,omitempty"`
	EarnestMoney       *float64   `json:"earnestMoney,omitempty"`
	BalloonDueDate     *time.Time `json:"balloonDueDate,omitempty"`
	AssessedValue      *float64   `json:"assessedValue,omitempty"`
	MarketValue        *float64   `json:"marketValue,omitempty"`
	LastAssessmentDate *time.Time `json:"lastAssessmentDate,omitempty"`
	DealID             *uuid.UUID `json:"dealId,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Available          bool       `json:"available"`
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"-"`
}
