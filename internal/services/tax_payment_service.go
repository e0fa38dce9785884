package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// TaxPaymentInput carries the writable fields of a tax payment.
type TaxPaymentInput struct {
	PaymentDate *time.Time
	Notes       *string
	Amount      float64
	Year        int
}

func (in TaxPaymentInput) validate() error {
	v := &ValidationError{Message: "invalid tax payment"}
	validateYear(v, in.Year)
	if in.Amount < 0 {
		v.Add("amount", "must be greater than or equal to 0")
	}
	return v.OrNil()
}

// TaxPaymentService records the taxes actually paid on a property, one
// payment per year.
type TaxPaymentService interface {
	List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error)
	Add(ctx context.Context, owner, propertyID uuid.UUID, in TaxPaymentInput) (*models.TaxPayment, error)
	Update(ctx context.Context, owner, propertyID, id uuid.UUID, in TaxPaymentInput) (*models.TaxPayment, error)
	Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error
}

type taxPaymentService struct {
	store repository.Store
	log   *logger.Logger
}

// NewTaxPaymentService creates a new instance of TaxPaymentService.
func NewTaxPaymentService(store repository.Store, log *logger.Logger) TaxPaymentService {
	return &taxPaymentService{store: store, log: log}
}

func (s *taxPaymentService) requireProperty(ctx context.Context, owner, propertyID uuid.UUID) error {
	ok, err := s.store.Properties().Exists(ctx, owner, propertyID)
	if err != nil {
		s.log.Error("Failed to look up property", err, map[string]interface{}{"property_id": propertyID})
		return fmt.Errorf("failed to look up property: %w", err)
	}
	if !ok {
		return notFound("property")
	}
	return nil
}

func (s *taxPaymentService) List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error) {
	if err := s.requireProperty(ctx, owner, propertyID); err != nil {
		return nil, err
	}
	return s.store.TaxPayments().ListByProperty(ctx, owner, propertyID)
}

func (s *taxPaymentService) Add(ctx context.Context, owner, propertyID uuid.UUID, in TaxPaymentInput) (*models.TaxPayment, error) {
	if err := in.validate(); err != nil {
		s.log.Warn("Invalid tax payment", map[string]interface{}{"property_id": propertyID, "error": err.Error()})
		return nil, err
	}
	if err := s.requireProperty(ctx, owner, propertyID); err != nil {
		return nil, err
	}

	created, err := s.store.TaxPayments().Create(ctx, &models.TaxPayment{
		ID:          uuid.New(),
		OwnerID:     owner,
		PropertyID:  propertyID,
		Year:        in.Year,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Notes:       in.Notes,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		s.log.Warn("Duplicate tax payment year", map[string]interface{}{"property_id": propertyID, "year": in.Year})
		return nil, duplicatePaymentYear(in.Year)
	}
	if err != nil {
		s.log.Error("Failed to create tax payment", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to create tax payment: %w", err)
	}

	s.log.Info("Recorded tax payment", map[string]interface{}{
		"property_id": propertyID,
		"year":        in.Year,
	})
	return created, nil
}

func (s *taxPaymentService) Update(ctx context.Context, owner, propertyID, id uuid.UUID, in TaxPaymentInput) (*models.TaxPayment, error) {
	if err := in.validate(); err != nil {
		s.log.Warn("Invalid tax payment", map[string]interface{}{"property_id": propertyID, "error": err.Error()})
		return nil, err
	}

	updated, err := s.store.TaxPayments().Update(ctx, &models.TaxPayment{
		ID:          id,
		OwnerID:     owner,
		PropertyID:  propertyID,
		Year:        in.Year,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Notes:       in.Notes,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, duplicatePaymentYear(in.Year)
	}
	if err != nil {
		s.log.Error("Failed to update tax payment", err, map[string]interface{}{"id": id})
		return nil, fmt.Errorf("failed to update tax payment: %w", err)
	}
	if updated == nil {
		return nil, notFound("tax payment")
	}
	return updated, nil
}

func (s *taxPaymentService) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error {
	deleted, err := s.store.TaxPayments().Delete(ctx, owner, propertyID, id)
	if err != nil {
		s.log.Error("Failed to delete tax payment", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete tax payment: %w", err)
	}
	if !deleted {
		return notFound("tax payment")
	}
	return nil
}

func duplicatePaymentYear(year int) error {
	return conflict("year", "a tax payment for %d already exists", year)
}
