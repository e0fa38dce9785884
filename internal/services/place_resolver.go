package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
)

// PlaceUpserter is the slice of the place repository the resolver needs.
type PlaceUpserter interface {
	Upsert(ctx context.Context, p *models.Place) (*models.Place, error)
}

// PlaceRef is a free-text location as it arrives on a deal or property.
type PlaceRef struct {
	City   string
	State  string
	County string
	Kind   models.PlaceKind
}

func (r PlaceRef) trimmed() PlaceRef {
	return PlaceRef{
		City:   strings.TrimSpace(r.City),
		State:  strings.TrimSpace(r.State),
		County: strings.TrimSpace(r.County),
		Kind:   r.Kind,
	}
}

// PlaceResolver maps a PlaceRef onto the owner's place hierarchy, creating
// missing levels on the way down.
type PlaceResolver struct {
	places PlaceUpserter
	log    *logger.Logger
}

// NewPlaceResolver creates a resolver writing through places.
func NewPlaceResolver(places PlaceUpserter, log *logger.Logger) *PlaceResolver {
	return &PlaceResolver{places: places, log: log}
}

// Resolve walks STATE -> COUNTY -> leaf. It returns nil, nil when city or
// state is blank, and stops with a nil leaf when the county or the kind is
// missing. Every level is an idempotent upsert.
func (r *PlaceResolver) Resolve(ctx context.Context, owner uuid.UUID, ref PlaceRef) (*models.Place, error) {
	ref = ref.trimmed()
	if ref.City == "" || ref.State == "" {
		return nil, nil
	}
	if ref.Kind != "" && !ref.Kind.IsLocality() {
		return nil, invalidKind(ref.Kind)
	}

	state, err := r.state(ctx, owner, ref.State)
	if err != nil {
		return nil, err
	}
	if ref.County == "" {
		return nil, nil
	}

	county, err := r.county(ctx, owner, state, ref.County)
	if err != nil {
		return nil, err
	}
	if ref.Kind == "" {
		return nil, nil
	}

	desc := fmt.Sprintf("%s, %s County, %s", ref.City, ref.County, ref.State)
	return r.leaf(ctx, owner, ref, state, county, desc)
}

// ResolveOrDefault behaves like Resolve but always yields a leaf for a
// non-blank city and state: the kind defaults to TOWN and, without a county,
// the leaf hangs directly off the state.
func (r *PlaceResolver) ResolveOrDefault(ctx context.Context, owner uuid.UUID, ref PlaceRef) (*models.Place, error) {
	if ref.Kind == "" {
		ref.Kind = models.PlaceKindTown
	}
	if strings.TrimSpace(ref.County) != "" {
		return r.Resolve(ctx, owner, ref)
	}

	ref = ref.trimmed()
	if ref.City == "" || ref.State == "" {
		return nil, nil
	}
	if !ref.Kind.IsLocality() {
		return nil, invalidKind(ref.Kind)
	}

	state, err := r.state(ctx, owner, ref.State)
	if err != nil {
		return nil, err
	}
	return r.leaf(ctx, owner, ref, state, nil, fmt.Sprintf("%s, %s", ref.City, ref.State))
}

func (r *PlaceResolver) state(ctx context.Context, owner uuid.UUID, name string) (*models.Place, error) {
	return r.upsert(ctx, &models.Place{
		OwnerID: owner,
		Name:    name,
		Kind:    models.PlaceKindState,
		State:   name,
		Country: models.DefaultCountry,
	})
}

func (r *PlaceResolver) county(ctx context.Context, owner uuid.UUID, state *models.Place, name string) (*models.Place, error) {
	desc := fmt.Sprintf("%s, %s", name, state.Name)
	return r.upsert(ctx, &models.Place{
		OwnerID:      owner,
		Name:         name,
		Kind:         models.PlaceKindCounty,
		State:        state.Name,
		Country:      models.DefaultCountry,
		ParentID:     &state.ID,
		StatePlaceID: &state.ID,
		Description:  &desc,
	})
}

func (r *PlaceResolver) leaf(ctx context.Context, owner uuid.UUID, ref PlaceRef, state, county *models.Place, desc string) (*models.Place, error) {
	p := &models.Place{
		OwnerID:      owner,
		Name:         ref.City,
		Kind:         ref.Kind,
		State:        state.Name,
		Country:      models.DefaultCountry,
		ParentID:     &state.ID,
		StatePlaceID: &state.ID,
		Description:  &desc,
	}
	if county != nil {
		p.ParentID = &county.ID
		p.CountyPlaceID = &county.ID
	}
	return r.upsert(ctx, p)
}

func (r *PlaceResolver) upsert(ctx context.Context, p *models.Place) (*models.Place, error) {
	p.ID = uuid.New()
	place, err := r.places.Upsert(ctx, p)
	if err != nil {
		r.log.Error("Failed to resolve place", err, map[string]interface{}{
			"name": p.Name,
			"kind": p.Kind,
		})
		return nil, fmt.Errorf("resolve %s place %q: %w", strings.ToLower(string(p.Kind)), p.Name, err)
	}
	r.log.Debug("Resolved place", map[string]interface{}{
		"place_id": place.ID,
		"name":     place.Name,
		"kind":     place.Kind,
	})
	return place, nil
}

func invalidKind(kind models.PlaceKind) error {
	v := &ValidationError{Message: "invalid place type"}
	v.Add("placeType", fmt.Sprintf("must be one of TOWN, UT, CITY, got %q", kind))
	return v
}
