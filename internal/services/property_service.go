package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// PropertyInput carries every writable field of a property. The valuation
// mirror and the originating deal are not writable.
type PropertyInput struct {
	models.Address
	models.ClosingCosts
	models.Financing
	Links
	Description    *string
	Type           *string
	Available      *bool
	Acres          *float64
	Zoning         *string
	Latitude       *float64
	Longitude      *float64
	Boundary       *models.Boundary
	PurchasePrice  *float64
	PurchaseDate   *time.Time
	EarnestMoney   *float64
	BalloonDueDate *time.Time
	Notes          *string
	Name           string
}

func (in *PropertyInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)

	v := &ValidationError{Message: "invalid property"}
	if in.Name == "" {
		v.Add("name", "This field is required")
	}
	if in.Latitude != nil && (*in.Latitude < models.MinLatitude || *in.Latitude > models.MaxLatitude) {
		v.Add("latitude", fmt.Sprintf("must be between %.0f and %.0f", models.MinLatitude, models.MaxLatitude))
	}
	if in.Longitude != nil && (*in.Longitude < models.MinLongitude || *in.Longitude > models.MaxLongitude) {
		v.Add("longitude", fmt.Sprintf("must be between %.0f and %.0f", models.MinLongitude, models.MaxLongitude))
	}
	if in.Boundary != nil {
		if err := in.Boundary.Validate(); err != nil {
			v.Add("boundary", err.Error())
		}
	}
	validatePlaceType(v, in.PlaceType)
	nonNegative(v, "acres", in.Acres)
	nonNegative(v, "purchasePrice", in.PurchasePrice)
	nonNegative(v, "earnestMoney", in.EarnestMoney)
	validateClosingCosts(v, &in.ClosingCosts)
	validateFinancing(v, &in.Financing)
	return v.OrNil()
}

// PropertyService defines the operations on held properties.
type PropertyService interface {
	List(ctx context.Context, owner uuid.UUID) ([]models.Property, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error)
	Create(ctx context.Context, owner uuid.UUID, in PropertyInput) (*models.Property, error)
	Update(ctx context.Context, owner, id uuid.UUID, in PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type propertyService struct {
	store repository.Store
	links *linker
	log   *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(store repository.Store, log *logger.Logger) PropertyService {
	return &propertyService{
		store: store,
		links: &linker{store: store, log: log},
		log:   log,
	}
}

func (s *propertyService) List(ctx context.Context, owner uuid.UUID) ([]models.Property, error) {
	properties, err := s.store.Properties().List(ctx, owner)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error) {
	property, err := s.store.Properties().Get(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to get property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, notFound("property")
	}
	return property, nil
}

func (s *propertyService) build(ctx context.Context, owner uuid.UUID, in *PropertyInput) (*models.Property, error) {
	if err := in.normalize(); err != nil {
		s.log.Warn("Invalid property", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	roles, placeID, err := s.links.resolve(ctx, owner, in.Address, in.Links)
	if err != nil {
		return nil, err
	}

	propertyType := models.DefaultPropertyType
	if !blank(in.Type) {
		propertyType = strings.TrimSpace(*in.Type)
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}

	return &models.Property{
		OwnerID:        owner,
		Address:        in.Address,
		ClosingCosts:   in.ClosingCosts,
		Financing:      in.Financing,
		PersonRoles:    roles,
		PlaceID:        placeID,
		Name:           in.Name,
		Description:    in.Description,
		Type:           propertyType,
		Available:      available,
		Acres:          in.Acres,
		Zoning:         in.Zoning,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Boundary:       in.Boundary,
		PurchasePrice:  in.PurchasePrice,
		PurchaseDate:   in.PurchaseDate,
		EarnestMoney:   in.EarnestMoney,
		BalloonDueDate: in.BalloonDueDate,
		Notes:          in.Notes,
	}, nil
}

func (s *propertyService) Create(ctx context.Context, owner uuid.UUID, in PropertyInput) (*models.Property, error) {
	property, err := s.build(ctx, owner, &in)
	if err != nil {
		return nil, err
	}
	property.ID = uuid.New()

	created, err := s.store.Properties().Create(ctx, property)
	if err != nil {
		s.log.Error("Failed to create property", err, map[string]interface{}{"name": property.Name})
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Created property", map[string]interface{}{"property_id": created.ID})
	return created, nil
}

func (s *propertyService) Update(ctx context.Context, owner, id uuid.UUID, in PropertyInput) (*models.Property, error) {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return nil, err
	}

	property, err := s.build(ctx, owner, &in)
	if err != nil {
		return nil, err
	}
	property.ID = id

	updated, err := s.store.Properties().Update(ctx, property)
	if err != nil {
		s.log.Error("Failed to update property", err, map[string]interface{}{"property_id": id})
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if updated == nil {
		return nil, notFound("property")
	}
	return updated, nil
}

// Delete removes a property unless a deal was promoted into it; the
// promotion link is permanent.
func (s *propertyService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		source, err := tx.Deals().PromotedTo(ctx, owner, id)
		if err != nil {
			return fmt.Errorf("failed to check promoting deal: %w", err)
		}
		if source != nil {
			s.log.Warn("Refused to delete promoted property", map[string]interface{}{
				"property_id": id,
				"deal_id":     source.ID,
			})
			return conflict("dealId", "property was promoted from deal %q and cannot be deleted", source.Name)
		}

		deleted, err := tx.Properties().Delete(ctx, owner, id)
		if err != nil {
			return fmt.Errorf("failed to delete property: %w", err)
		}
		if !deleted {
			return notFound("property")
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConflict) {
			s.log.Error("Failed to delete property", err, map[string]interface{}{"property_id": id})
		}
		return err
	}
	s.log.Info("Deleted property", map[string]interface{}{"property_id": id})
	return nil
}

func duplicateName(entity, name string) error {
	return conflict("name", "a %s named %q already exists", entity, name)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
