package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// PropertyRepository defines owner-scoped access to held properties.
type PropertyRepository interface {
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error)
	Exists(ctx context.Context, owner, id uuid.UUID) (bool, error)
	List(ctx context.Context, owner uuid.UUID) ([]models.Property, error)

	// Create inserts p, including its originating deal reference.
	Create(ctx context.Context, p *models.Property) (*models.Property, error)

	// Update replaces the mutable fields. The valuation mirror and the
	// originating deal are never written here.
	Update(ctx context.Context, p *models.Property) (*models.Property, error)

	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)

	// SetValuation overwrites the mirrored assessment fields.
	SetValuation(ctx context.Context, owner, id uuid.UUID, assessed, market *float64, assessedOn *time.Time) error
}

type propertyRepository struct {
	db database.DB
}

var (
	propertyWritableCols = concat(
		[]string{"name", "description", "type", "available"},
		addressCols,
		[]string{"place_id", "acres", "zoning", "latitude", "longitude", "boundary",
			"purchase_price", "purchase_date", "earnest_money"},
		closingCostCols,
		financingCols,
		[]string{"balloon_due_date"},
		personRoleCols,
		[]string{"notes"},
	)
	propertyColumns = "id, owner_id, " + strings.Join(propertyWritableCols, ", ") +
		", deal_id, assessed_value, market_value, last_assessment_date, created_at, updated_at"
)

func boundaryArg(b *models.Boundary) (any, error) {
	if b == nil || len(b.Coordinates) == 0 {
		return nil, nil
	}
	return b.Value()
}

func propertyWritableArgs(p *models.Property) ([]any, error) {
	boundary, err := boundaryArg(p.Boundary)
	if err != nil {
		return nil, eris.Wrap(err, "repository: encode boundary")
	}
	return concatArgs(
		[]any{p.Name, p.Description, p.Type, p.Available},
		addressArgs(&p.Address),
		[]any{p.PlaceID, p.Acres, p.Zoning, p.Latitude, p.Longitude, boundary,
			p.PurchasePrice, p.PurchaseDate, p.EarnestMoney},
		closingCostArgs(&p.ClosingCosts),
		financingArgs(&p.Financing),
		[]any{p.BalloonDueDate},
		personRoleArgs(&p.PersonRoles),
		[]any{p.Notes},
	), nil
}

func scanProperty(row scanner) (*models.Property, error) {
	var p models.Property
	var boundary []byte
	dest := concatArgs(
		[]any{&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Type, &p.Available},
		addressDest(&p.Address),
		[]any{&p.PlaceID, &p.Acres, &p.Zoning, &p.Latitude, &p.Longitude, &boundary,
			&p.PurchasePrice, &p.PurchaseDate, &p.EarnestMoney},
		closingCostDest(&p.ClosingCosts),
		financingDest(&p.Financing),
		[]any{&p.BalloonDueDate},
		personRoleDest(&p.PersonRoles),
		[]any{&p.Notes, &p.DealID, &p.AssessedValue, &p.MarketValue, &p.LastAssessmentDate,
			&p.CreatedAt, &p.UpdatedAt},
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if boundary != nil {
		var b models.Boundary
		if err := b.Scan(boundary); err != nil {
			return nil, eris.Wrapf(err, "repository: decode boundary of property %s", p.ID)
		}
		p.Boundary = &b
	}
	return &p, nil
}

func (r *propertyRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = $1 AND id = $2`, owner, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get property %s", id)
	}
	return p, nil
}

func (r *propertyRepository) Exists(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM properties WHERE owner_id = $1 AND id = $2)`,
		owner, id,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "repository: check property %s", id)
	}
	return exists, nil
}

func (r *propertyRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Property, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = $1 ORDER BY name`, owner)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list properties")
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan property")
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate properties")
	}
	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	writable, err := propertyWritableArgs(p)
	if err != nil {
		return nil, err
	}

	n := len(propertyWritableCols)
	query := `INSERT INTO properties (id, owner_id, ` + strings.Join(propertyWritableCols, ", ") + `, deal_id)
		VALUES ($1, $2, ` + placeholders(3, n+1) + `)
		RETURNING ` + propertyColumns

	args := concatArgs([]any{p.ID, p.OwnerID}, writable, []any{p.DealID})
	out, err := scanProperty(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, eris.Wrapf(err, "repository: create property %q", p.Name)
	}
	return out, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	writable, err := propertyWritableArgs(p)
	if err != nil {
		return nil, err
	}

	query := `UPDATE properties SET ` + assignments(propertyWritableCols, 3) + `, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + propertyColumns

	args := concatArgs([]any{p.OwnerID, p.ID}, writable)
	out, err := scanProperty(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: update property %s", p.ID)
	}
	return out, nil
}

func (r *propertyRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete property %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *propertyRepository) SetValuation(ctx context.Context, owner, id uuid.UUID, assessed, market *float64, assessedOn *time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE properties
		SET assessed_value = $3, market_value = $4, last_assessment_date = $5, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		owner, id, assessed, market, assessedOn,
	)
	if err != nil {
		return eris.Wrapf(err, "repository: set valuation on property %s", id)
	}
	return nil
}
