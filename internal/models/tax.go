package models

import "github.com/google/uuid"

// PropertyTaxProjection is the slice of a property, joined with its place,
// that portfolio tax reporting reads.
type PropertyTaxProjection struct {
	City          *string
	State         *string
	PlaceName     *string
	PlaceState    *string
	MillRate      *float64
	AssessedValue *float64
	TaxProration  *float64
	Name          string
	ID            uuid.UUID
}

// DealTaxProjection is the slice of a deal that portfolio tax reporting reads.
type DealTaxProjection struct {
	City           *string
	State          *string
	StateTaxStamps *float64
	Name           string
	ID             uuid.UUID
}
