package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// MillRateInput carries the writable fields of a mill rate entry. Year is
// ignored on update.
type MillRateInput struct {
	Notes    *string
	MillRate float64
	Year     int
}

func (in MillRateInput) validate(withYear bool) error {
	v := &ValidationError{Message: "invalid mill rate"}
	if withYear {
		validateYear(v, in.Year)
	}
	if in.MillRate < 0 {
		v.Add("millRate", "must be greater than or equal to 0")
	}
	return v.OrNil()
}

// MillRateService manages a place's mill rate history and keeps
// Place.MillRate equal to the latest year's rate.
type MillRateService interface {
	// List returns the history newest year first.
	List(ctx context.Context, owner, placeID uuid.UUID) ([]models.MillRateHistory, error)
	Add(ctx context.Context, owner, placeID uuid.UUID, in MillRateInput) (*models.MillRateHistory, error)
	Update(ctx context.Context, owner, placeID, id uuid.UUID, in MillRateInput) (*models.MillRateHistory, error)
	Delete(ctx context.Context, owner, placeID, id uuid.UUID) error
}

type millRateService struct {
	store  repository.Store
	rollup *Rollup[models.MillRateHistory]
	log    *logger.Logger
}

// NewMillRateService creates a new instance of MillRateService.
func NewMillRateService(store repository.Store, log *logger.Logger) MillRateService {
	return &millRateService{
		store: store,
		rollup: NewRollup(store, bindMillRates, func(e *models.MillRateHistory) (uuid.UUID, int) {
			return e.ID, e.Year
		}, "mill rate", "place", log),
		log: log,
	}
}

func (s *millRateService) List(ctx context.Context, owner, placeID uuid.UUID) ([]models.MillRateHistory, error) {
	ok, err := s.store.Places().Exists(ctx, owner, placeID)
	if err != nil {
		s.log.Error("Failed to look up place", err, map[string]interface{}{"place_id": placeID})
		return nil, fmt.Errorf("failed to list mill rates: %w", err)
	}
	if !ok {
		return nil, notFound("place")
	}
	return s.store.MillRates().ListByPlace(ctx, owner, placeID)
}

func (s *millRateService) Add(ctx context.Context, owner, placeID uuid.UUID, in MillRateInput) (*models.MillRateHistory, error) {
	if err := in.validate(true); err != nil {
		s.log.Warn("Invalid mill rate", map[string]interface{}{"place_id": placeID, "error": err.Error()})
		return nil, err
	}
	return s.rollup.Add(ctx, owner, placeID, &models.MillRateHistory{
		ID:       uuid.New(),
		OwnerID:  owner,
		PlaceID:  placeID,
		Year:     in.Year,
		MillRate: in.MillRate,
		Notes:    in.Notes,
	})
}

func (s *millRateService) Update(ctx context.Context, owner, placeID, id uuid.UUID, in MillRateInput) (*models.MillRateHistory, error) {
	if err := in.validate(false); err != nil {
		s.log.Warn("Invalid mill rate", map[string]interface{}{"place_id": placeID, "error": err.Error()})
		return nil, err
	}
	return s.rollup.Update(ctx, owner, placeID, id, &models.MillRateHistory{
		ID:       id,
		OwnerID:  owner,
		PlaceID:  placeID,
		MillRate: in.MillRate,
		Notes:    in.Notes,
	})
}

func (s *millRateService) Delete(ctx context.Context, owner, placeID, id uuid.UUID) error {
	return s.rollup.Delete(ctx, owner, placeID, id)
}

// millRateHistory adapts the place and mill rate repositories to the rollup.
type millRateHistory struct {
	repository.MillRateRepository
	places repository.PlaceRepository
}

func bindMillRates(s repository.Store) HistoryRepository[models.MillRateHistory] {
	return &millRateHistory{MillRateRepository: s.MillRates(), places: s.Places()}
}

func (h *millRateHistory) ParentExists(ctx context.Context, owner, placeID uuid.UUID) (bool, error) {
	return h.places.Exists(ctx, owner, placeID)
}

func (h *millRateHistory) Insert(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error) {
	return h.Create(ctx, e)
}

func (h *millRateHistory) Mirror(ctx context.Context, owner, placeID uuid.UUID, latest *models.MillRateHistory) error {
	if latest == nil {
		return h.places.SetMillRate(ctx, owner, placeID, nil)
	}
	rate := latest.MillRate
	return h.places.SetMillRate(ctx, owner, placeID, &rate)
}

func validateYear(v *ValidationError, year int) {
	if year < models.MinRecordYear || year > models.MaxRecordYear {
		v.Add("year", fmt.Sprintf("must be between %d and %d", models.MinRecordYear, models.MaxRecordYear))
	}
}
