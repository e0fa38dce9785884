package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
)

func ptr[T any](v T) *T { return &v }

func seedPlace(t *testing.T, store *memStore, owner uuid.UUID) *models.Place {
	t.Helper()
	place, err := store.Places().Create(context.Background(), &models.Place{
		ID: uuid.New(), OwnerID: owner, Name: "Dover", Kind: models.PlaceKindTown, State: "VT",
		Country: models.DefaultCountry,
	})
	require.NoError(t, err)
	return place
}

func seedProperty(t *testing.T, store *memStore, owner uuid.UUID, placeID *uuid.UUID) *models.Property {
	t.Helper()
	property, err := store.Properties().Create(context.Background(), &models.Property{
		ID: uuid.New(), OwnerID: owner, Name: "North Lot", Type: models.DefaultPropertyType,
		Available: true, PlaceID: placeID,
	})
	require.NoError(t, err)
	return property
}

func placeMillRate(t *testing.T, store *memStore, owner, placeID uuid.UUID) *float64 {
	t.Helper()
	place, err := store.Places().Get(context.Background(), owner, placeID)
	require.NoError(t, err)
	require.NotNil(t, place)
	return place.MillRate
}

func TestMillRateRollup_LatestYearWins(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	_, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2022, MillRate: 10})
	require.NoError(t, err)
	assert.Equal(t, ptr(10.0), placeMillRate(t, store, owner, place.ID))

	e2024, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	require.NoError(t, err)
	assert.Equal(t, ptr(12.0), placeMillRate(t, store, owner, place.ID))

	_, err = svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2023, MillRate: 11})
	require.NoError(t, err)
	assert.Equal(t, ptr(12.0), placeMillRate(t, store, owner, place.ID), "an older year must not replace the mirror")

	require.NoError(t, svc.Delete(ctx, owner, place.ID, e2024.ID))
	assert.Equal(t, ptr(11.0), placeMillRate(t, store, owner, place.ID))

	list, err := svc.List(ctx, owner, place.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2023, list[0].Year)
	assert.Equal(t, 2022, list[1].Year)
}

func TestMillRateRollup_DeleteLastClearsMirror(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	entry, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 18.5})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, place.ID, entry.ID))
	assert.Nil(t, placeMillRate(t, store, owner, place.ID))
}

func TestMillRateRollup_UpdateOnlyPropagatesFromLatest(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	older, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2022, MillRate: 10})
	require.NoError(t, err)
	latest, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, place.ID, older.ID, MillRateInput{MillRate: 9, Notes: ptr("revised")})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.MillRate)
	assert.Equal(t, 2022, updated.Year, "year is fixed at creation")
	assert.Equal(t, ptr(12.0), placeMillRate(t, store, owner, place.ID))

	_, err = svc.Update(ctx, owner, place.ID, latest.ID, MillRateInput{MillRate: 13})
	require.NoError(t, err)
	assert.Equal(t, ptr(13.0), placeMillRate(t, store, owner, place.ID))
}

func TestMillRateRollup_DuplicateYear(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	_, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	require.NoError(t, err)

	for _, rate := range []float64{12, 0, 99.5} {
		_, err = svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: rate})
		var cerr *ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "year", cerr.Field)
		assert.False(t, cerr.BusinessRule)
	}
	assert.Equal(t, ptr(12.0), placeMillRate(t, store, owner, place.ID))
}

func TestMillRateRollup_Validation(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	_, err := svc.Add(context.Background(), owner, place.ID, MillRateInput{Year: 1999, MillRate: -1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "year", verr.Fields[0].Field)
	assert.Equal(t, "millRate", verr.Fields[1].Field)
}

func TestMillRateRollup_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	entry, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	require.NoError(t, err)

	_, err = svc.Add(ctx, owner, uuid.New(), MillRateInput{Year: 2024, MillRate: 12})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "place not found")

	_, err = svc.Update(ctx, owner, place.ID, uuid.New(), MillRateInput{MillRate: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, owner, place.ID, uuid.New()), ErrNotFound)

	// The entry exists, but not under this parent.
	assert.ErrorIs(t, svc.Delete(ctx, owner, uuid.New(), entry.ID), ErrNotFound)

	_, err = svc.List(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMillRateRollup_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner, intruder := uuid.New(), uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	entry, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	require.NoError(t, err)

	_, err = svc.List(ctx, intruder, place.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Add(ctx, intruder, place.ID, MillRateInput{Year: 2025, MillRate: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, intruder, place.ID, entry.ID, MillRateInput{MillRate: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, intruder, place.ID, entry.ID), ErrNotFound)

	assert.Equal(t, ptr(12.0), placeMillRate(t, store, owner, place.ID))
}

func TestMillRateRollup_MirrorFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	place := seedPlace(t, store, owner)
	svc := NewMillRateService(store, logger.Nop())

	dbErr := errors.New("write failed")
	store.failOn("Places.SetMillRate", dbErr)

	_, err := svc.Add(ctx, owner, place.ID, MillRateInput{Year: 2024, MillRate: 12})
	assert.ErrorIs(t, err, dbErr)

	store.failOn("Places.SetMillRate", nil)
	list, err := svc.List(ctx, owner, place.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "the inserted entry must be rolled back")
}

func TestValuationRollup_MirrorsAllFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	property := seedProperty(t, store, owner, nil)
	svc := NewValuationService(store, logger.Nop())

	assessedOn := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Add(ctx, owner, property.ID, ValuationInput{
		Year: 2023, AssessedValue: ptr(90000.0), MarketValue: ptr(110000.0),
	})
	require.NoError(t, err)
	latest, err := svc.Add(ctx, owner, property.ID, ValuationInput{
		Year: 2024, AssessedValue: ptr(100000.0), MarketValue: ptr(125000.0), AssessmentDate: &assessedOn,
	})
	require.NoError(t, err)

	got, err := store.Properties().Get(ctx, owner, property.ID)
	require.NoError(t, err)
	assert.Equal(t, ptr(100000.0), got.AssessedValue)
	assert.Equal(t, ptr(125000.0), got.MarketValue)
	require.NotNil(t, got.LastAssessmentDate)
	assert.True(t, assessedOn.Equal(*got.LastAssessmentDate))

	require.NoError(t, svc.Delete(ctx, owner, property.ID, latest.ID))
	got, err = store.Properties().Get(ctx, owner, property.ID)
	require.NoError(t, err)
	assert.Equal(t, ptr(90000.0), got.AssessedValue)
	assert.Equal(t, ptr(110000.0), got.MarketValue)
	assert.Nil(t, got.LastAssessmentDate)
}

func TestValuationRollup_DeleteLastClearsMirror(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	property := seedProperty(t, store, owner, nil)
	svc := NewValuationService(store, logger.Nop())

	entry, err := svc.Add(ctx, owner, property.ID, ValuationInput{Year: 2024, AssessedValue: ptr(50000.0)})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, property.ID, entry.ID))

	got, err := store.Properties().Get(ctx, owner, property.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssessedValue)
	assert.Nil(t, got.MarketValue)
	assert.Nil(t, got.LastAssessmentDate)
}

func TestValuationRollup_Rejections(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := uuid.New()
	property := seedProperty(t, store, owner, nil)
	svc := NewValuationService(store, logger.Nop())

	_, err := svc.Add(ctx, owner, property.ID, ValuationInput{Year: 2024})
	require.NoError(t, err)

	_, err = svc.Add(ctx, owner, property.ID, ValuationInput{Year: 2024, AssessedValue: ptr(1.0)})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Add(ctx, owner, uuid.New(), ValuationInput{Year: 2024})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(ctx, owner, property.ID, ValuationInput{Year: 2101, MarketValue: ptr(-5.0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
