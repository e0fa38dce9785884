package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// DealInput carries every writable field of a deal. Updates replace all of
// them; the promotion link is never writable.
type DealInput struct {
	models.Address
	models.ClosingCosts
	models.Financing
	Links
	Description       *string
	Acres             *float64
	Zoning            *string
	AskingPrice       *float64
	OfferPrice        *float64
	PurchasePrice     *float64
	EarnestMoney      *float64
	TargetClosingDate *time.Time
	Notes             *string
	Name              string
	Stage             models.DealStage
	Status            models.DealStatus
}

func (in *DealInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Stage == "" {
		in.Stage = models.DealStageLead
	}
	if in.Status == "" {
		in.Status = models.DealStatusActive
	}

	v := &ValidationError{Message: "invalid deal"}
	if in.Name == "" {
		v.Add("name", "This field is required")
	}
	if !in.Stage.IsValid() {
		v.Add("dealStage", fmt.Sprintf("unknown stage %q", in.Stage))
	}
	if !in.Status.IsValid() {
		v.Add("dealStatus", fmt.Sprintf("unknown status %q", in.Status))
	}
	validatePlaceType(v, in.PlaceType)
	nonNegative(v, "acres", in.Acres)
	nonNegative(v, "askingPrice", in.AskingPrice)
	nonNegative(v, "offerPrice", in.OfferPrice)
	nonNegative(v, "purchasePrice", in.PurchasePrice)
	nonNegative(v, "earnestMoney", in.EarnestMoney)
	validateClosingCosts(v, &in.ClosingCosts)
	validateFinancing(v, &in.Financing)
	return v.OrNil()
}

// PromotionResult is the outcome of promoting a deal.
type PromotionResult struct {
	Deal     *models.Deal
	Property *models.Property
}

// DealService defines the deal pipeline operations.
type DealService interface {
	List(ctx context.Context, owner uuid.UUID, filter repository.DealFilter) ([]models.Deal, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Deal, error)

	// Create and Update resolve the contact names and the place before the
	// deal row is written.
	Create(ctx context.Context, owner uuid.UUID, in DealInput) (*models.Deal, error)
	Update(ctx context.Context, owner, id uuid.UUID, in DealInput) (*models.Deal, error)

	// Delete removes a deal. Promoted deals cannot be deleted.
	Delete(ctx context.Context, owner, id uuid.UUID) error

	// Promote turns a WON deal into a property and links the two, all in
	// one transaction.
	Promote(ctx context.Context, owner, id uuid.UUID) (*PromotionResult, error)
}

type dealService struct {
	store repository.Store
	links *linker
	log   *logger.Logger
	now   func() time.Time
}

// NewDealService creates a new instance of DealService.
func NewDealService(store repository.Store, log *logger.Logger) DealService {
	return &dealService{
		store: store,
		links: &linker{store: store, log: log},
		log:   log,
		now:   time.Now,
	}
}

func (s *dealService) List(ctx context.Context, owner uuid.UUID, filter repository.DealFilter) ([]models.Deal, error) {
	deals, err := s.store.Deals().List(ctx, owner, filter)
	if err != nil {
		s.log.Error("Failed to list deals", err, nil)
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, nil
}

func (s *dealService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Deal, error) {
	deal, err := s.store.Deals().Get(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to get deal", err, map[string]interface{}{"deal_id": id})
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	if deal == nil {
		return nil, notFound("deal")
	}
	return deal, nil
}

func (s *dealService) build(ctx context.Context, owner uuid.UUID, in *DealInput) (*models.Deal, error) {
	if err := in.normalize(); err != nil {
		s.log.Warn("Invalid deal", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	roles, placeID, err := s.links.resolve(ctx, owner, in.Address, in.Links)
	if err != nil {
		return nil, err
	}

	return &models.Deal{
		OwnerID:           owner,
		Address:           in.Address,
		ClosingCosts:      in.ClosingCosts,
		Financing:         in.Financing,
		PersonRoles:       roles,
		PlaceID:           placeID,
		Name:              in.Name,
		Description:       in.Description,
		Stage:             in.Stage,
		Status:            in.Status,
		Acres:             in.Acres,
		Zoning:            in.Zoning,
		AskingPrice:       in.AskingPrice,
		OfferPrice:        in.OfferPrice,
		PurchasePrice:     in.PurchasePrice,
		EarnestMoney:      in.EarnestMoney,
		TargetClosingDate: in.TargetClosingDate,
		Notes:             in.Notes,
	}, nil
}

func (s *dealService) Create(ctx context.Context, owner uuid.UUID, in DealInput) (*models.Deal, error) {
	deal, err := s.build(ctx, owner, &in)
	if err != nil {
		return nil, err
	}
	deal.ID = uuid.New()

	created, err := s.store.Deals().Create(ctx, deal)
	if err != nil {
		s.log.Error("Failed to create deal", err, map[string]interface{}{"name": deal.Name})
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.log.Info("Created deal", map[string]interface{}{
		"deal_id": created.ID,
		"stage":   created.Stage,
	})
	return created, nil
}

func (s *dealService) Update(ctx context.Context, owner, id uuid.UUID, in DealInput) (*models.Deal, error) {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return nil, err
	}

	deal, err := s.build(ctx, owner, &in)
	if err != nil {
		return nil, err
	}
	deal.ID = id

	updated, err := s.store.Deals().Update(ctx, deal)
	if err != nil {
		s.log.Error("Failed to update deal", err, map[string]interface{}{"deal_id": id})
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}
	if updated == nil {
		return nil, notFound("deal")
	}
	return updated, nil
}

func (s *dealService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	deal, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if deal.IsPromoted() {
		s.log.Warn("Refused to delete promoted deal", map[string]interface{}{"deal_id": id})
		return conflict("promotedToPropertyId", "deal has been promoted to a property and cannot be deleted")
	}

	deleted, err := s.store.Deals().Delete(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to delete deal", err, map[string]interface{}{"deal_id": id})
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if !deleted {
		return notFound("deal")
	}
	return nil
}

func (s *dealService) Promote(ctx context.Context, owner, id uuid.UUID) (*PromotionResult, error) {
	var result *PromotionResult
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		deal, err := tx.Deals().Get(ctx, owner, id)
		if err != nil {
			return err
		}
		if deal == nil {
			return notFound("deal")
		}
		if err := checkPromotable(deal); err != nil {
			return err
		}

		placeID := deal.PlaceID
		if placeID == nil {
			place, err := NewPlaceResolver(tx.Places(), s.log).ResolveOrDefault(ctx, owner, PlaceRef{
				City:   deref(deal.City),
				State:  deref(deal.State),
				County: deref(deal.County),
				Kind:   models.PlaceKindTown,
			})
			if err != nil {
				return err
			}
			if place != nil {
				placeID = &place.ID
			}
		}

		property, err := tx.Properties().Create(ctx, propertyFromDeal(deal, placeID))
		if err != nil {
			return err
		}

		promoted, err := tx.Deals().MarkPromoted(ctx, owner, id, property.ID, s.now())
		if err != nil {
			return err
		}
		if promoted == nil {
			// Another request linked the deal first; rolling back drops our property.
			return alreadyPromoted()
		}

		result = &PromotionResult{Deal: promoted, Property: property}
		return nil
	})
	if err != nil {
		if isRejection(err) {
			s.log.Warn("Deal promotion rejected", map[string]interface{}{
				"deal_id": id,
				"reason":  err.Error(),
			})
			return nil, err
		}
		s.log.Error("Failed to promote deal", err, map[string]interface{}{"deal_id": id})
		return nil, fmt.Errorf("failed to promote deal: %w", err)
	}

	s.log.Info("Promoted deal", map[string]interface{}{
		"deal_id":     id,
		"property_id": result.Property.ID,
	})
	return result, nil
}

// checkPromotable applies the promotion preconditions in order and reports
// every missing address field at once.
func checkPromotable(deal *models.Deal) error {
	if deal.IsPromoted() {
		return alreadyPromoted()
	}
	if deal.Stage != models.DealStageWon {
		return dealNotWon()
	}

	v := &ValidationError{Message: "deal is missing fields required for promotion"}
	if blank(deal.StreetAddress) {
		v.Add("streetAddress", "is required to promote a deal")
	}
	if blank(deal.City) {
		v.Add("city", "is required to promote a deal")
	}
	if blank(deal.State) {
		v.Add("state", "is required to promote a deal")
	}
	return v.OrNil()
}

// propertyFromDeal copies the descriptive subset of a deal onto a new
// property. Closing costs and financing stay with the deal, and the target
// closing date becomes the balloon due date.
func propertyFromDeal(deal *models.Deal, placeID *uuid.UUID) *models.Property {
	return &models.Property{
		ID:             uuid.New(),
		OwnerID:        deal.OwnerID,
		Name:           deal.Name,
		Description:    deal.Description,
		Address:        deal.Address,
		Acres:          deal.Acres,
		Zoning:         deal.Zoning,
		PlaceID:        placeID,
		BalloonDueDate: deal.TargetClosingDate,
		Type:           models.DefaultPropertyType,
		Available:      true,
		DealID:         &deal.ID,
	}
}
