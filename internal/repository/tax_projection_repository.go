package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// TaxProjectionRepository reads the narrow rows the tax reports aggregate.
type TaxProjectionRepository interface {
	Properties(ctx context.Context, owner uuid.UUID) ([]models.PropertyTaxProjection, error)
	Deals(ctx context.Context, owner uuid.UUID) ([]models.DealTaxProjection, error)
}

type taxProjectionRepository struct {
	db database.DB
}

func (r *taxProjectionRepository) Properties(ctx context.Context, owner uuid.UUID) ([]models.PropertyTaxProjection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.city, p.state, pl.name, pl.state, pl.mill_rate,
			p.assessed_value, p.tax_proration
		FROM properties p
		LEFT JOIN places pl ON pl.id = p.place_id AND pl.owner_id = p.owner_id
		WHERE p.owner_id = $1
		ORDER BY p.name`, owner)
	if err != nil {
		return nil, eris.Wrap(err, "repository: query property tax projections")
	}
	defer rows.Close()

	out := []models.PropertyTaxProjection{}
	for rows.Next() {
		var p models.PropertyTaxProjection
		if err := rows.Scan(
			&p.ID, &p.Name, &p.City, &p.State, &p.PlaceName, &p.PlaceState,
			&p.MillRate, &p.AssessedValue, &p.TaxProration,
		); err != nil {
			return nil, eris.Wrap(err, "repository: scan property tax projection")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate property tax projections")
	}
	return out, nil
}

func (r *taxProjectionRepository) Deals(ctx context.Context, owner uuid.UUID) ([]models.DealTaxProjection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, city, state, state_tax_stamps
		FROM deals
		WHERE owner_id = $1
		ORDER BY name`, owner)
	if err != nil {
		return nil, eris.Wrap(err, "repository: query deal tax projections")
	}
	defer rows.Close()

	out := []models.DealTaxProjection{}
	for rows.Next() {
		var d models.DealTaxProjection
		if err := rows.Scan(&d.ID, &d.Name, &d.City, &d.State, &d.StateTaxStamps); err != nil {
			return nil, eris.Wrap(err, "repository: scan deal tax projection")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate deal tax projections")
	}
	return out, nil
}
