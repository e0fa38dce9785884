package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// PlaceInput carries the fields of a place. Kind and ParentID are only read
// on create; the hierarchy position of a place never changes.
type PlaceInput struct {
	ParentID           *uuid.UUID
	Country            *string
	Description        *string
	TaxContactName     *string
	TaxContactPhone    *string
	TaxContactEmail    *string
	TaxWebsite         *string
	ZoningContactName  *string
	ZoningContactPhone *string
	ZoningContactEmail *string
	Notes              *string
	Name               string
	State              string
	Kind               models.PlaceKind
}

func (in *PlaceInput) normalize(create bool) error {
	in.Name = strings.TrimSpace(in.Name)
	in.State = strings.TrimSpace(in.State)

	v := &ValidationError{Message: "invalid place"}
	if in.Name == "" {
		v.Add("name", "This field is required")
	}
	if create {
		switch {
		case !in.Kind.IsValid():
			v.Add("kind", fmt.Sprintf("unknown place kind %q", in.Kind))
		case in.Kind == models.PlaceKindState && in.ParentID != nil:
			v.Add("parentId", "a state cannot have a parent")
		case in.Kind != models.PlaceKindState && in.ParentID == nil:
			v.Add("parentId", "This field is required")
		}
	}
	validEmail(v, "taxContactEmail", in.TaxContactEmail)
	validEmail(v, "zoningContactEmail", in.ZoningContactEmail)
	return v.OrNil()
}

func (in *PlaceInput) apply(p *models.Place) {
	p.Name = in.Name
	p.Description = in.Description
	p.TaxContactName = in.TaxContactName
	p.TaxContactPhone = in.TaxContactPhone
	p.TaxContactEmail = in.TaxContactEmail
	p.TaxWebsite = in.TaxWebsite
	p.ZoningContactName = in.ZoningContactName
	p.ZoningContactPhone = in.ZoningContactPhone
	p.ZoningContactEmail = in.ZoningContactEmail
	p.Notes = in.Notes
	switch {
	case p.Kind == models.PlaceKindState:
		p.State = in.Name
	case in.State != "":
		p.State = in.State
	}
	if !blank(in.Country) {
		p.Country = strings.TrimSpace(*in.Country)
	}
}

// PlaceService defines the operations on the place hierarchy. The mill rate
// of a place is maintained by MillRateService.
type PlaceService interface {
	List(ctx context.Context, owner uuid.UUID, filter repository.PlaceFilter) ([]models.Place, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error)
	Create(ctx context.Context, owner uuid.UUID, in PlaceInput) (*models.Place, error)
	Update(ctx context.Context, owner, id uuid.UUID, in PlaceInput) (*models.Place, error)

	// Delete refuses with a conflict while properties or child places
	// reference the place.
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type placeService struct {
	repo repository.PlaceRepository
	log  *logger.Logger
}

// NewPlaceService creates a new instance of PlaceService.
func NewPlaceService(repo repository.PlaceRepository, log *logger.Logger) PlaceService {
	return &placeService{repo: repo, log: log}
}

func (s *placeService) List(ctx context.Context, owner uuid.UUID, filter repository.PlaceFilter) ([]models.Place, error) {
	places, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		s.log.Error("Failed to list places", err, nil)
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

func (s *placeService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error) {
	place, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to get place", err, map[string]interface{}{"place_id": id})
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if place == nil {
		return nil, notFound("place")
	}
	return place, nil
}

func (s *placeService) Create(ctx context.Context, owner uuid.UUID, in PlaceInput) (*models.Place, error) {
	if err := in.normalize(true); err != nil {
		s.log.Warn("Invalid place", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	place := &models.Place{
		ID:      uuid.New(),
		OwnerID: owner,
		Kind:    in.Kind,
		Country: models.DefaultCountry,
	}
	if in.Kind == models.PlaceKindState {
		place.State = in.Name
	} else if err := s.attach(ctx, owner, place, *in.ParentID); err != nil {
		return nil, err
	}
	in.apply(place)

	created, err := s.repo.Create(ctx, place)
	if isDuplicate(err) {
		s.log.Warn("Duplicate place", map[string]interface{}{"name": place.Name, "kind": place.Kind})
		return nil, conflict("name", "a %s named %q already exists here", strings.ToLower(string(place.Kind)), place.Name)
	}
	if err != nil {
		s.log.Error("Failed to create place", err, map[string]interface{}{"name": place.Name})
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	s.log.Info("Created place", map[string]interface{}{
		"place_id": created.ID,
		"kind":     created.Kind,
	})
	return created, nil
}

// attach places p under parent and fills in the back-references to the
// enclosing state and county.
func (s *placeService) attach(ctx context.Context, owner uuid.UUID, p *models.Place, parentID uuid.UUID) error {
	parent, err := s.repo.Get(ctx, owner, parentID)
	if err != nil {
		s.log.Error("Failed to look up parent place", err, map[string]interface{}{"parent_id": parentID})
		return fmt.Errorf("failed to look up parent place: %w", err)
	}
	if parent == nil {
		return unknownReference("parentId", "place")
	}

	v := &ValidationError{Message: "invalid place"}
	switch {
	case p.Kind == models.PlaceKindCounty && parent.Kind != models.PlaceKindState:
		v.Add("parentId", "a county must belong to a state")
	case p.Kind.IsLocality() && parent.Kind.IsLocality():
		v.Add("parentId", "a locality must belong to a state or county")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	p.ParentID = &parent.ID
	p.State = parent.State
	p.Country = parent.Country
	if parent.Kind == models.PlaceKindState {
		p.StatePlaceID = &parent.ID
	} else {
		p.StatePlaceID = parent.StatePlaceID
		p.CountyPlaceID = &parent.ID
	}
	return nil
}

func (s *placeService) Update(ctx context.Context, owner, id uuid.UUID, in PlaceInput) (*models.Place, error) {
	if err := in.normalize(false); err != nil {
		s.log.Warn("Invalid place", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	place, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	in.apply(place)

	updated, err := s.repo.Update(ctx, place)
	if isDuplicate(err) {
		return nil, conflict("name", "a %s named %q already exists here", strings.ToLower(string(place.Kind)), place.Name)
	}
	if err != nil {
		s.log.Error("Failed to update place", err, map[string]interface{}{"place_id": id})
		return nil, fmt.Errorf("failed to update place: %w", err)
	}
	if updated == nil {
		return nil, notFound("place")
	}
	return updated, nil
}

func (s *placeService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}

	properties, children, err := s.repo.Dependents(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to count place dependents", err, map[string]interface{}{"place_id": id})
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if properties > 0 || children > 0 {
		s.log.Warn("Refused to delete place in use", map[string]interface{}{
			"place_id":   id,
			"properties": properties,
			"children":   children,
		})
		return conflict("id", "place is referenced by %d properties and %d child places", properties, children)
	}

	deleted, err := s.repo.Delete(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to delete place", err, map[string]interface{}{"place_id": id})
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if !deleted {
		return notFound("place")
	}
	return nil
}
