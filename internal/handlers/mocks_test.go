package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
	"github.com/stwalsh4118/landbook/internal/services"
)

// MockPlaceService is a mock implementation of PlaceService for testing
type MockPlaceService struct {
	mock.Mock
}

func (m *MockPlaceService) place(args mock.Arguments) (*models.Place, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Place), args.Error(1)
}

func (m *MockPlaceService) List(ctx context.Context, owner uuid.UUID, filter repository.PlaceFilter) ([]models.Place, error) {
	args := m.Called(ctx, owner, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Place), args.Error(1)
}

func (m *MockPlaceService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error) {
	return m.place(m.Called(ctx, owner, id))
}

func (m *MockPlaceService) Create(ctx context.Context, owner uuid.UUID, in services.PlaceInput) (*models.Place, error) {
	return m.place(m.Called(ctx, owner, in))
}

func (m *MockPlaceService) Update(ctx context.Context, owner, id uuid.UUID, in services.PlaceInput) (*models.Place, error) {
	return m.place(m.Called(ctx, owner, id, in))
}

func (m *MockPlaceService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return m.Called(ctx, owner, id).Error(0)
}

// MockPropertyService is a mock implementation of PropertyService for testing
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) property(args mock.Arguments) (*models.Property, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, owner uuid.UUID) ([]models.Property, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error) {
	return m.property(m.Called(ctx, owner, id))
}

func (m *MockPropertyService) Create(ctx context.Context, owner uuid.UUID, in services.PropertyInput) (*models.Property, error) {
	return m.property(m.Called(ctx, owner, in))
}

func (m *MockPropertyService) Update(ctx context.Context, owner, id uuid.UUID, in services.PropertyInput) (*models.Property, error) {
	return m.property(m.Called(ctx, owner, id, in))
}

func (m *MockPropertyService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return m.Called(ctx, owner, id).Error(0)
}

// MockValuationService is a mock implementation of ValuationService for testing
type MockValuationService struct {
	mock.Mock
}

func (m *MockValuationService) valuation(args mock.Arguments) (*models.PropertyValuationHistory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyValuationHistory), args.Error(1)
}

func (m *MockValuationService) List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error) {
	args := m.Called(ctx, owner, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyValuationHistory), args.Error(1)
}

func (m *MockValuationService) Add(ctx context.Context, owner, propertyID uuid.UUID, in services.ValuationInput) (*models.PropertyValuationHistory, error) {
	return m.valuation(m.Called(ctx, owner, propertyID, in))
}

func (m *MockValuationService) Update(ctx context.Context, owner, propertyID, id uuid.UUID, in services.ValuationInput) (*models.PropertyValuationHistory, error) {
	return m.valuation(m.Called(ctx, owner, propertyID, id, in))
}

func (m *MockValuationService) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error {
	return m.Called(ctx, owner, propertyID, id).Error(0)
}

// MockTaxPaymentService is a mock implementation of TaxPaymentService for testing
type MockTaxPaymentService struct {
	mock.Mock
}

func (m *MockTaxPaymentService) payment(args mock.Arguments) (*models.TaxPayment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxPayment), args.Error(1)
}

func (m *MockTaxPaymentService) List(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error) {
	args := m.Called(ctx, owner, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TaxPayment), args.Error(1)
}

func (m *MockTaxPaymentService) Add(ctx context.Context, owner, propertyID uuid.UUID, in services.TaxPaymentInput) (*models.TaxPayment, error) {
	return m.payment(m.Called(ctx, owner, propertyID, in))
}

func (m *MockTaxPaymentService) Update(ctx context.Context, owner, propertyID, id uuid.UUID, in services.TaxPaymentInput) (*models.TaxPayment, error) {
	return m.payment(m.Called(ctx, owner, propertyID, id, in))
}

func (m *MockTaxPaymentService) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) error {
	return m.Called(ctx, owner, propertyID, id).Error(0)
}
