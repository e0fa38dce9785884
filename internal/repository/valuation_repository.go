package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// ValuationRepository defines owner-scoped access to a property's assessment history.
type ValuationRepository interface {
	// ListByProperty returns the history newest year first.
	ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error)
	Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.PropertyValuationHistory, error)
	YearExists(ctx context.Context, owner, propertyID uuid.UUID, year int) (bool, error)
	Create(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error)

	// Update rewrites the values, date and notes. The year is fixed at creation.
	Update(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error)
	Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error)
	Latest(ctx context.Context, owner, propertyID uuid.UUID) (*models.PropertyValuationHistory, error)
}

type valuationRepository struct {
	db database.DB
}

const valuationColumns = `id, owner_id, property_id, year, assessed_value, market_value,
	assessment_date, assessment_notes, created_at, updated_at`

func scanValuation(row scanner) (*models.PropertyValuationHistory, error) {
	var e models.PropertyValuationHistory
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.PropertyID, &e.Year, &e.AssessedValue, &e.MarketValue,
		&e.AssessmentDate, &e.AssessmentNotes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *valuationRepository) ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+valuationColumns+` FROM property_valuation_history
		WHERE owner_id = $1 AND property_id = $2
		ORDER BY year DESC`, owner, propertyID)
	if err != nil {
		return nil, eris.Wrapf(err, "repository: list valuations for property %s", propertyID)
	}
	defer rows.Close()

	entries := []models.PropertyValuationHistory{}
	for rows.Next() {
		e, err := scanValuation(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan valuation")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate valuations")
	}
	return entries, nil
}

func (r *valuationRepository) Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.PropertyValuationHistory, error) {
	e, err := scanValuation(r.db.QueryRow(ctx, `
		SELECT `+valuationColumns+` FROM property_valuation_history
		WHERE owner_id = $1 AND property_id = $2 AND id = $3`, owner, propertyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get valuation %s", id)
	}
	return e, nil
}

func (r *valuationRepository) YearExists(ctx context.Context, owner, propertyID uuid.UUID, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM property_valuation_history WHERE owner_id = $1 AND property_id = $2 AND year = $3
		)`, owner, propertyID, year).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "repository: check valuation year %d", year)
	}
	return exists, nil
}

func (r *valuationRepository) Create(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error) {
	out, err := scanValuation(r.db.QueryRow(ctx, `
		INSERT INTO property_valuation_history (
			id, owner_id, property_id, year, assessed_value, market_value, assessment_date, assessment_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+valuationColumns,
		e.ID, e.OwnerID, e.PropertyID, e.Year, e.AssessedValue, e.MarketValue, e.AssessmentDate, e.AssessmentNotes))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: create valuation for %d", e.Year)
	}
	return out, nil
}

func (r *valuationRepository) Update(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error) {
	out, err := scanValuation(r.db.QueryRow(ctx, `
		UPDATE property_valuation_history SET
			assessed_value = $4, market_value = $5, assessment_date = $6, assessment_notes = $7,
			updated_at = now()
		WHERE owner_id = $1 AND property_id = $2 AND id = $3
		RETURNING `+valuationColumns,
		e.OwnerID, e.PropertyID, e.ID, e.AssessedValue, e.MarketValue, e.AssessmentDate, e.AssessmentNotes))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: update valuation %s", e.ID)
	}
	return out, nil
}

func (r *valuationRepository) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM property_valuation_history WHERE owner_id = $1 AND property_id = $2 AND id = $3`,
		owner, propertyID, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete valuation %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *valuationRepository) Latest(ctx context.Context, owner, propertyID uuid.UUID) (*models.PropertyValuationHistory, error) {
	e, err := scanValuation(r.db.QueryRow(ctx, `
		SELECT `+valuationColumns+` FROM property_valuation_history
		WHERE owner_id = $1 AND property_id = $2
		ORDER BY year DESC
		LIMIT 1`, owner, propertyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: latest valuation for property %s", propertyID)
	}
	return e, nil
}
