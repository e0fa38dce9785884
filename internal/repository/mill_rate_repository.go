package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// MillRateRepository defines owner-scoped access to a place's mill rate history.
type MillRateRepository interface {
	// ListByPlace returns the history newest year first.
	ListByPlace(ctx context.Context, owner, placeID uuid.UUID) ([]models.MillRateHistory, error)
	Get(ctx context.Context, owner, placeID, id uuid.UUID) (*models.MillRateHistory, error)
	YearExists(ctx context.Context, owner, placeID uuid.UUID, year int) (bool, error)
	Create(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error)

	// Update rewrites the rate and notes. The year is fixed at creation.
	Update(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error)
	Delete(ctx context.Context, owner, placeID, id uuid.UUID) (bool, error)

	// Latest returns the entry with the highest year, or nil when none remain.
	Latest(ctx context.Context, owner, placeID uuid.UUID) (*models.MillRateHistory, error)
}

type millRateRepository struct {
	db database.DB
}

const millRateColumns = `id, owner_id, place_id, year, mill_rate, notes, created_at, updated_at`

func scanMillRate(row scanner) (*models.MillRateHistory, error) {
	var e models.MillRateHistory
	err := row.Scan(&e.ID, &e.OwnerID, &e.PlaceID, &e.Year, &e.MillRate, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *millRateRepository) ListByPlace(ctx context.Context, owner, placeID uuid.UUID) ([]models.MillRateHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+millRateColumns+` FROM mill_rate_history
		WHERE owner_id = $1 AND place_id = $2
		ORDER BY year DESC`, owner, placeID)
	if err != nil {
		return nil, eris.Wrapf(err, "repository: list mill rates for place %s", placeID)
	}
	defer rows.Close()

	entries := []models.MillRateHistory{}
	for rows.Next() {
		e, err := scanMillRate(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan mill rate")
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate mill rates")
	}
	return entries, nil
}

func (r *millRateRepository) Get(ctx context.Context, owner, placeID, id uuid.UUID) (*models.MillRateHistory, error) {
	e, err := scanMillRate(r.db.QueryRow(ctx, `
		SELECT `+millRateColumns+` FROM mill_rate_history
		WHERE owner_id = $1 AND place_id = $2 AND id = $3`, owner, placeID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get mill rate %s", id)
	}
	return e, nil
}

func (r *millRateRepository) YearExists(ctx context.Context, owner, placeID uuid.UUID, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM mill_rate_history WHERE owner_id = $1 AND place_id = $2 AND year = $3
		)`, owner, placeID, year).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "repository: check mill rate year %d", year)
	}
	return exists, nil
}

func (r *millRateRepository) Create(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error) {
	out, err := scanMillRate(r.db.QueryRow(ctx, `
		INSERT INTO mill_rate_history (id, owner_id, place_id, year, mill_rate, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+millRateColumns,
		e.ID, e.OwnerID, e.PlaceID, e.Year, e.MillRate, e.Notes))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: create mill rate for %d", e.Year)
	}
	return out, nil
}

func (r *millRateRepository) Update(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error) {
	out, err := scanMillRate(r.db.QueryRow(ctx, `
		UPDATE mill_rate_history SET mill_rate = $4, notes = $5, updated_at = now()
		WHERE owner_id = $1 AND place_id = $2 AND id = $3
		RETURNING `+millRateColumns,
		e.OwnerID, e.PlaceID, e.ID, e.MillRate, e.Notes))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: update mill rate %s", e.ID)
	}
	return out, nil
}

func (r *millRateRepository) Delete(ctx context.Context, owner, placeID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM mill_rate_history WHERE owner_id = $1 AND place_id = $2 AND id = $3`,
		owner, placeID, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete mill rate %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *millRateRepository) Latest(ctx context.Context, owner, placeID uuid.UUID) (*models.MillRateHistory, error) {
	e, err := scanMillRate(r.db.QueryRow(ctx, `
		SELECT `+millRateColumns+` FROM mill_rate_history
		WHERE owner_id = $1 AND place_id = $2
		ORDER BY year DESC
		LIMIT 1`, owner, placeID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: latest mill rate for place %s", placeID)
	}
	return e, nil
}
