package handlers

import (
	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/services"
)

// LinksRequest holds the contact and place references shared by deal and
// property bodies. A contact name wins over the matching ID.
type LinksRequest struct {
	Seller         *string           `json:"seller"`
	SellerAgent    *string           `json:"sellerAgent"`
	BuyerAgent     *string           `json:"buyerAgent"`
	TitleCompany   *string           `json:"titleCompany"`
	SellerID       *uuid.UUID        `json:"sellerId"`
	SellerAgentID  *uuid.UUID        `json:"sellerAgentId"`
	BuyerAgentID   *uuid.UUID        `json:"buyerAgentId"`
	TitleCompanyID *uuid.UUID        `json:"titleCompanyId"`
	PlaceID        *uuid.UUID        `json:"placeId"`
	PlaceType      *models.PlaceKind `json:"placeType" binding:"omitempty,oneof=TOWN UT CITY"`
}

func (r LinksRequest) links() services.Links {
	return services.Links{
		Roles: models.PersonRoles{
			SellerID:       r.SellerID,
			SellerAgentID:  r.SellerAgentID,
			BuyerAgentID:   r.BuyerAgentID,
			TitleCompanyID: r.TitleCompanyID,
		},
		Contacts: services.ContactNames{
			Seller:       r.Seller,
			SellerAgent:  r.SellerAgent,
			BuyerAgent:   r.BuyerAgent,
			TitleCompany: r.TitleCompany,
		},
		PlaceID:   r.PlaceID,
		PlaceType: r.PlaceType,
	}
}

// DealRequest is the body of deal create and update.
type DealRequest struct {
	models.Address
	models.ClosingCosts
	models.Financing
	LinksRequest
	Description       *string           `json:"description"`
	Acres             *float64          `json:"acres" binding:"omitempty,gte=0"`
	Zoning            *string           `json:"zoning"`
	AskingPrice       *float64          `json:"askingPrice" binding:"omitempty,gte=0"`
	OfferPrice        *float64          `json:"offerPrice" binding:"omitempty,gte=0"`
	PurchasePrice     *float64          `json:"purchasePrice" binding:"omitempty,gte=0"`
	EarnestMoney      *float64          `json:"earnestMoney" binding:"omitempty,gte=0"`
	TargetClosingDate *string           `json:"targetClosingDate" binding:"omitempty,datetime=2006-01-02"`
	Notes             *string           `json:"notes"`
	Name              string            `json:"name" binding:"required,max=255"`
	Stage             models.DealStage  `json:"dealStage" binding:"omitempty,oneof=LEAD UNDER_CONTRACT DUE_DILIGENCE CLOSING WON LOST"`
	Status            models.DealStatus `json:"dealStatus" binding:"omitempty,oneof=ACTIVE ON_HOLD CANCELLED"`
}

func (r DealRequest) input() services.DealInput {
	return services.DealInput{
		Address:           r.Address,
		ClosingCosts:      r.ClosingCosts,
		Financing:         r.Financing,
		Links:             r.links(),
		Description:       r.Description,
		Acres:             r.Acres,
		Zoning:            r.Zoning,
		AskingPrice:       r.AskingPrice,
		OfferPrice:        r.OfferPrice,
		PurchasePrice:     r.PurchasePrice,
		EarnestMoney:      r.EarnestMoney,
		TargetClosingDate: parseDate(r.TargetClosingDate),
		Notes:             r.Notes,
		Name:              r.Name,
		Stage:             r.Stage,
		Status:            r.Status,
	}
}

// DealListQuery filters GET /deals.
type DealListQuery struct {
	Stage  string `form:"stage" binding:"omitempty,oneof=LEAD UNDER_CONTRACT DUE_DILIGENCE CLOSING WON LOST"`
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE ON_HOLD CANCELLED"`
}

// PropertyRequest is the body of property create and update.
type PropertyRequest struct {
	models.Address
	models.ClosingCosts
	models.Financing
	LinksRequest
	Description    *string          `json:"description"`
	Type           *string          `json:"type" binding:"omitempty,max=100"`
	Available      *bool            `json:"available"`
	Acres          *float64         `json:"acres" binding:"omitempty,gte=0"`
	Zoning         *string          `json:"zoning"`
	Latitude       *float64         `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude      *float64         `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Boundary       *models.Boundary `json:"boundary"`
	PurchasePrice  *float64         `json:"purchasePrice" binding:"omitempty,gte=0"`
	PurchaseDate   *string          `json:"purchaseDate" binding:"omitempty,datetime=2006-01-02"`
	EarnestMoney   *float64         `json:"earnestMoney" binding:"omitempty,gte=0"`
	BalloonDueDate *string          `json:"balloonDueDate" binding:"omitempty,datetime=2006-01-02"`
	Notes          *string          `json:"notes"`
	Name           string           `json:"name" binding:"required,max=255"`
}

func (r PropertyRequest) input() services.PropertyInput {
	return services.PropertyInput{
		Address:        r.Address,
		ClosingCosts:   r.ClosingCosts,
		Financing:      r.Financing,
		Links:          r.links(),
		Description:    r.Description,
		Type:           r.Type,
		Available:      r.Available,
		Acres:          r.Acres,
		Zoning:         r.Zoning,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Boundary:       r.Boundary,
		PurchasePrice:  r.PurchasePrice,
		PurchaseDate:   parseDate(r.PurchaseDate),
		EarnestMoney:   r.EarnestMoney,
		BalloonDueDate: parseDate(r.BalloonDueDate),
		Notes:          r.Notes,
		Name:           r.Name,
	}
}

// PersonRequest is the body of person create and update.
type PersonRequest struct {
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Role    *string `json:"role"`
	Notes   *string `json:"notes"`
	Name    string  `json:"name" binding:"required,max=255"`
}

func (r PersonRequest) input() services.PersonInput {
	return services.PersonInput{
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Role:    r.Role,
		Notes:   r.Notes,
		Name:    r.Name,
	}
}

// PlaceRequest is the body of place create and update. Kind and parentId
// are ignored on update.
type PlaceRequest struct {
	ParentID           *uuid.UUID       `json:"parentId"`
	Country            *string          `json:"country"`
	Description        *string          `json:"description"`
	TaxContactName     *string          `json:"taxContactName"`
	TaxContactPhone    *string          `json:"taxContactPhone"`
	TaxContactEmail    *string          `json:"taxContactEmail" binding:"omitempty,email"`
	TaxWebsite         *string          `json:"taxWebsite" binding:"omitempty,url"`
	ZoningContactName  *string          `json:"zoningContactName"`
	ZoningContactPhone *string          `json:"zoningContactPhone"`
	ZoningContactEmail *string          `json:"zoningContactEmail" binding:"omitempty,email"`
	Notes              *string          `json:"notes"`
	Name               string           `json:"name" binding:"required,max=255"`
	State              string           `json:"state" binding:"max=50"`
	Kind               models.PlaceKind `json:"kind" binding:"omitempty,oneof=STATE COUNTY TOWN UT CITY"`
}

func (r PlaceRequest) input() services.PlaceInput {
	return services.PlaceInput{
		ParentID:           r.ParentID,
		Country:            r.Country,
		Description:        r.Description,
		TaxContactName:     r.TaxContactName,
		TaxContactPhone:    r.TaxContactPhone,
		TaxContactEmail:    r.TaxContactEmail,
		TaxWebsite:         r.TaxWebsite,
		ZoningContactName:  r.ZoningContactName,
		ZoningContactPhone: r.ZoningContactPhone,
		ZoningContactEmail: r.ZoningContactEmail,
		Notes:              r.Notes,
		Name:               r.Name,
		State:              r.State,
		Kind:               r.Kind,
	}
}

// PlaceListQuery filters GET /places.
type PlaceListQuery struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=STATE COUNTY TOWN UT CITY"`
	ParentID string `form:"parentId" binding:"omitempty,uuid"`
}

// MillRateUpdateRequest is the body of a mill rate update. The year keys the
// entry and cannot change, so it is not read.
type MillRateUpdateRequest struct {
	Notes    *string  `json:"notes"`
	MillRate *float64 `json:"millRate" binding:"required,gte=0"`
}

func (r MillRateUpdateRequest) input() services.MillRateInput {
	return services.MillRateInput{Notes: r.Notes, MillRate: *r.MillRate}
}

// MillRateRequest is the body of a mill rate add.
type MillRateRequest struct {
	MillRateUpdateRequest
	Year int `json:"year" binding:"omitempty,gte=2000,lte=2100"`
}

func (r MillRateRequest) input() services.MillRateInput {
	in := r.MillRateUpdateRequest.input()
	in.Year = r.Year
	return in
}

// ValuationUpdateRequest is the body of a valuation update. Like mill rates,
// the year is fixed once recorded.
type ValuationUpdateRequest struct {
	AssessedValue   *float64 `json:"assessedValue" binding:"omitempty,gte=0"`
	MarketValue     *float64 `json:"marketValue" binding:"omitempty,gte=0"`
	AssessmentDate  *string  `json:"assessmentDate" binding:"omitempty,datetime=2006-01-02"`
	AssessmentNotes *string  `json:"assessmentNotes"`
}

func (r ValuationUpdateRequest) input() services.ValuationInput {
	return services.ValuationInput{
		AssessedValue:   r.AssessedValue,
		MarketValue:     r.MarketValue,
		AssessmentDate:  parseDate(r.AssessmentDate),
		AssessmentNotes: r.AssessmentNotes,
	}
}

// ValuationRequest is the body of a valuation add.
type ValuationRequest struct {
	ValuationUpdateRequest
	Year int `json:"year" binding:"omitempty,gte=2000,lte=2100"`
}

func (r ValuationRequest) input() services.ValuationInput {
	in := r.ValuationUpdateRequest.input()
	in.Year = r.Year
	return in
}

// TaxPaymentRequest is the body of tax payment add and update.
type TaxPaymentRequest struct {
	PaymentDate *string  `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	Notes       *string  `json:"notes"`
	Amount      *float64 `json:"amount" binding:"required,gte=0"`
	Year        int      `json:"year" binding:"required,gte=2000,lte=2100"`
}

func (r TaxPaymentRequest) input() services.TaxPaymentInput {
	return services.TaxPaymentInput{
		PaymentDate: parseDate(r.PaymentDate),
		Notes:       r.Notes,
		Amount:      *r.Amount,
		Year:        r.Year,
	}
}
