package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaceKind is the level of a place in the geographic hierarchy.
type PlaceKind string

const (
	PlaceKindState  PlaceKind = "STATE"
	PlaceKindCounty PlaceKind = "COUNTY"
	PlaceKindTown   PlaceKind = "TOWN"
	PlaceKindUT     PlaceKind = "UT"
	PlaceKindCity   PlaceKind = "CITY"
)

// PlaceKinds lists every recognized place kind, outermost first.
var PlaceKinds = []PlaceKind{PlaceKindState, PlaceKindCounty, PlaceKindTown, PlaceKindUT, PlaceKindCity}

// IsValid reports whether k is a recognized place kind.
func (k PlaceKind) IsValid() bool {
	for _, v := range PlaceKinds {
		if k == v {
			return true
		}
	}
	return false
}

// IsLocality reports whether k sits at the leaf (town-like) level of the hierarchy.
func (k PlaceKind) IsLocality() bool {
	return k == PlaceKindTown || k == PlaceKindUT || k == PlaceKindCity
}

// DefaultCountry is assigned to places created without an explicit country.
const DefaultCountry = "USA"

// Place is a node in the STATE -> COUNTY -> TOWN/UT/CITY hierarchy.
// MillRate mirrors the latest-year MillRateHistory entry for the place.
type Place struct {
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	ParentID           *uuid.UUID `json:"parentId,omitempty"`
	StatePlaceID       *uuid.UUID `json:"statePlaceId,omitempty"`
	CountyPlaceID      *uuid.UUID `json:"countyPlaceId,omitempty"`
	Description        *string    `json:"description,omitempty"`
	MillRate           *float64   `json:"millRate,omitempty"`
	TaxContactName     *string    `json:"taxContactName,omitempty"`
	TaxContactPhone    *string    `json:"taxContactPhone,omitempty"`
	TaxContactEmail    *string    `json:"taxContactEmail,omitempty"`
	TaxWebsite         *string    `json:"taxWebsite,omitempty"`
	ZoningContactName  *string    `json:"zoningContactName,omitempty"`
	ZoningContactPhone *string    `json:"zoningContactPhone,omitempty"`
	ZoningContactEmail *string    `json:"zoningContactEmail,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Name               string     `json:"name"`
	Kind               PlaceKind  `json:"kind"`
	State              string     `json:"state"`
	Country            string     `json:"country"`
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"-"`
}
