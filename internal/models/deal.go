package models

import (
	"time"

	"github.com/google/uuid"
)

// DealStage is the position of a deal in the acquisition pipeline.
type DealStage string

const (
	DealStageLead          DealStage = "LEAD"
	DealStageUnderContract DealStage = "UNDER_CONTRACT"
	DealStageDueDiligence  DealStage = "DUE_DILIGENCE"
	DealStageClosing       DealStage = "CLOSING"
	DealStageWon           DealStage = "WON"
	DealStageLost          DealStage = "LOST"
)

// DealStages lists the pipeline stages in order.
var DealStages = []DealStage{
	DealStageLead, DealStageUnderContract, DealStageDueDiligence,
	DealStageClosing, DealStageWon, DealStageLost,
}

// IsValid reports whether s is a recognized stage.
func (s DealStage) IsValid() bool {
	for _, v := range DealStages {
		if s == v {
			return true
		}
	}
	return false
}

// DealStatus is the administrative status of a deal, independent of its stage.
type DealStatus string

const (
	DealStatusActive    DealStatus = "ACTIVE"
	DealStatusOnHold    DealStatus = "ON_HOLD"
	DealStatusCancelled DealStatus = "CANCELLED"
)

// DealStatuses lists every recognized status.
var DealStatuses = []DealStatus{DealStatusActive, DealStatusOnHold, DealStatusCancelled}

// IsValid reports whether s is a recognized status.
func (s DealStatus) IsValid() bool {
	for _, v := range DealStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Address is the postal location shared by deals and properties.
type Address struct {
	StreetAddress *string `json:"streetAddress,omitempty"`
	City          *string `json:"city,omitempty"`
	County        *string `json:"county,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`
}

// ClosingCosts is the itemized closing-cost breakdown of a purchase.
type ClosingCosts struct {
	TitleInsurance    *float64 `json:"titleInsurance,omitempty"`
	RecordingFees     *float64 `json:"recordingFees,omitempty"`
	StateTaxStamps    *float64 `json:"stateTaxStamps,omitempty"`
	TaxProration      *float64 `json:"taxProration,omitempty"`
	AttorneyFees      *float64 `json:"attorneyFees,omitempty"`
	OtherClosingCosts *float64 `json:"otherClosingCosts,omitempty"`
}

// Financing describes how a purchase is paid for.
type Financing struct {
	FinancingType  *string  `json:"financingType,omitempty"`
	DownPayment    *float64 `json:"downPayment,omitempty"`
	InterestRate   *float64 `json:"interestRate,omitempty"`
	LoanTermMonths *int     `json:"loanTermMonths,omitempty"`
	MonthlyPayment *float64 `json:"monthlyPayment,omitempty"`
}

// Deal is an in-progress acquisition. Once promoted, PromotedToPropertyID
// points at the Property it became and never changes again.
type Deal struct {
	Address
	ClosingCosts
	Financing
	PersonRoles
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	Description          *string    `json:"description,omitempty"`
	PlaceID              *uuid.UUID `json:"placeId,omitempty"`
	Acres                *float64   `json:"acres,omitempty"`
	Zoning               *string    `json:"zoning,omitempty"`
	AskingPrice          *float64   `json:"askingPrice,omitempty"`
	OfferPrice           *float64   `json:"offerPrice,omitempty"`
	PurchasePrice        *float64   `json:"purchasePrice,omitempty"`
	EarnestMoney         *float64   `json:"earnestMoney,omitempty"`
	TargetClosingDate    *time.Time `json:"targetClosingDate,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	PromotedToPropertyID *uuid.UUID `json:"promotedToPropertyId,omitempty"`
	PromotedAt           *time.Time `json:"promotedAt,omitempty"`
	Name                 string     `json:"name"`
	Stage                DealStage  `json:"dealStage"`
	Status               DealStatus `json:"dealStatus"`
	ID                   uuid.UUID  `json:"id"`
	OwnerID              uuid.UUID  `json:"-"`
}

// IsPromoted reports whether the deal has already been converted into a property.
func (d *Deal) IsPromoted() bool {
	return d.PromotedToPropertyID != nil
}
