package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// ValuationInput carries the writable fields of an assessment. Year is
// ignored on update.
type ValuationInput struct {
	AssessedValue   *float64
	MarketValue     *float64
	AssessmentDate  *time.Time
	AssessmentNotes *string
	Year            int
}

func (in ValuationInput) validate(withYear bool) error {
	v := &ValidationError{Message: "invalid valuation"}
	if withYear {
		validateYear(v, in.Year)
	}
	nonNegative(v, "assessedValue", in.AssessedValue)
	nonNegative(v, "marketValue", in.MarketValue)
	return v.OrNil()
}

// ValuationService manages a property's assessment history and keeps the
// property's assessed value, market value and assessment date equal to the
// latest year's entry.
type ValuationService interface {
	List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error)
	Add(ctx context.Context, owner, propertyID uuid.UUID, in ValuationInput) (*models.PropertyValuationHistory, error)
	Update(ctx context.Context, owner, propertyID, id uuid.UUID, in ValuationInput) (*models.PropertyValuationHistory, error)
	Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error
}

type valuationService struct {
	store  repository.Store
	rollup *Rollup[models.PropertyValuationHistory]
	log    *logger.Logger
}

// NewValuationService creates a new instance of ValuationService.
func NewValuationService(store repository.Store, log *logger.Logger) ValuationService {
	return &valuationService{
		store: store,
		rollup: NewRollup(store, bindValuations, func(e *models.PropertyValuationHistory) (uuid.UUID, int) {
			return e.ID, e.Year
		}, "valuation", "property", log),
		log: log,
	}
}

func (s *valuationService) List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error) {
	ok, err := s.store.Properties().Exists(ctx, owner, propertyID)
	if err != nil {
		s.log.Error("Failed to look up property", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	if !ok {
		return nil, notFound("property")
	}
	return s.store.Valuations().ListByProperty(ctx, owner, propertyID)
}

func (s *valuationService) Add(ctx context.Context, owner, propertyID uuid.UUID, in ValuationInput) (*models.PropertyValuationHistory, error) {
	if err := in.validate(true); err != nil {
		s.log.Warn("Invalid valuation", map[string]interface{}{"property_id": propertyID, "error": err.Error()})
		return nil, err
	}
	return s.rollup.Add(ctx, owner, propertyID, &models.PropertyValuationHistory{
		ID:              uuid.New(),
		OwnerID:         owner,
		PropertyID:      propertyID,
		Year:            in.Year,
		AssessedValue:   in.AssessedValue,
		MarketValue:     in.MarketValue,
		AssessmentDate:  in.AssessmentDate,
		AssessmentNotes: in.AssessmentNotes,
	})
}

func (s *valuationService) Update(ctx context.Context, owner, propertyID, id uuid.UUID, in ValuationInput) (*models.PropertyValuationHistory, error) {
	if err := in.validate(false); err != nil {
		s.log.Warn("Invalid valuation", map[string]interface{}{"property_id": propertyID, "error": err.Error()})
		return nil, err
	}
	return s.rollup.Update(ctx, owner, propertyID, id, &models.PropertyValuationHistory{
		ID:              id,
		OwnerID:         owner,
		PropertyID:      propertyID,
		AssessedValue:   in.AssessedValue,
		MarketValue:     in.MarketValue,
		AssessmentDate:  in.AssessmentDate,
		AssessmentNotes: in.AssessmentNotes,
	})
}

func (s *valuationService) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error {
	return s.rollup.Delete(ctx, owner, propertyID, id)
}

type valuationHistory struct {
	repository.ValuationRepository
	properties repository.PropertyRepository
}

func bindValuations(s repository.Store) HistoryRepository[models.PropertyValuationHistory] {
	return &valuationHistory{ValuationRepository: s.Valuations(), properties: s.Properties()}
}

func (h *valuationHistory) ParentExists(ctx context.Context, owner, propertyID uuid.UUID) (bool, error) {
	return h.properties.Exists(ctx, owner, propertyID)
}

func (h *valuationHistory) Insert(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error) {
	return h.Create(ctx, e)
}

func (h *valuationHistory) Mirror(ctx context.Context, owner, propertyID uuid.UUID, latest *models.PropertyValuationHistory) error {
	if latest == nil {
		return h.properties.SetValuation(ctx, owner, propertyID, nil, nil, nil)
	}
	return h.properties.SetValuation(ctx, owner, propertyID, latest.AssessedValue, latest.MarketValue, latest.AssessmentDate)
}

func nonNegative(v *ValidationError, field string, value *float64) {
	if value != nil && *value < 0 {
		v.Add(field, "must be greater than or equal to 0")
	}
}
