package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// PlaceFilter narrows a place listing. Nil fields are ignored.
type PlaceFilter struct {
	Kind     *models.PlaceKind
	ParentID *uuid.UUID
}

// PlaceRepository defines owner-scoped access to the place hierarchy.
// Lookups return nil, nil when the place does not exist for the owner.
type PlaceRepository interface {
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error)
	Exists(ctx context.Context, owner, id uuid.UUID) (bool, error)
	List(ctx context.Context, owner uuid.UUID, filter PlaceFilter) ([]models.Place, error)

	// Upsert returns the place matching (owner, name, kind, parent), inserting
	// p first when none exists. It is a single statement, so concurrent
	// callers converge on the same row.
	Upsert(ctx context.Context, p *models.Place) (*models.Place, error)

	// Create inserts p and returns ErrDuplicate if the identity is taken.
	Create(ctx context.Context, p *models.Place) (*models.Place, error)

	// Update replaces the descriptive metadata of a place. Kind, parent and
	// the mill rate mirror are not touched. Renaming a state rewrites the
	// state of every place beneath it in the same statement.
	Update(ctx context.Context, p *models.Place) (*models.Place, error)

	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)

	// Dependents counts the properties located in the place and its child places.
	Dependents(ctx context.Context, owner, id uuid.UUID) (properties, children int, err error)

	SetMillRate(ctx context.Context, owner, id uuid.UUID, rate *float64) error
}

type placeRepository struct {
	db database.DB
}

const placeColumns = `
	id, owner_id, name, kind, state, country, parent_id, state_place_id,
	county_place_id, description, mill_rate, tax_contact_name, tax_contact_phone,
	tax_contact_email, tax_website, zoning_contact_name, zoning_contact_phone,
	zoning_contact_email, notes, created_at, updated_at`

func scanPlace(row scanner) (*models.Place, error) {
	var p models.Place
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Kind,
		&p.State,
		&p.Country,
		&p.ParentID,
		&p.StatePlaceID,
		&p.CountyPlaceID,
		&p.Description,
		&p.MillRate,
		&p.TaxContactName,
		&p.TaxContactPhone,
		&p.TaxContactEmail,
		&p.TaxWebsite,
		&p.ZoningContactName,
		&p.ZoningContactPhone,
		&p.ZoningContactEmail,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *placeRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE owner_id = $1 AND id = $2`

	p, err := scanPlace(r.db.QueryRow(ctx, query, owner, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get place %s", id)
	}
	return p, nil
}

func (r *placeRepository) Exists(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM places WHERE owner_id = $1 AND id = $2)`,
		owner, id,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "repository: check place %s", id)
	}
	return exists, nil
}

func (r *placeRepository) List(ctx context.Context, owner uuid.UUID, filter PlaceFilter) ([]models.Place, error) {
	conds := []string{"owner_id = $1"}
	args := []any{owner}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}

	query := `SELECT ` + placeColumns + ` FROM places WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY state, name, kind`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list places")
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan place")
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate places")
	}
	return places, nil
}

func (r *placeRepository) Upsert(ctx context.Context, p *models.Place) (*models.Place, error) {
	query := `
		INSERT INTO places (
			id, owner_id, name, kind, state, country, parent_id,
			state_place_id, county_place_id, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT places_owner_name_kind_parent_key
		DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + placeColumns

	out, err := scanPlace(r.db.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Kind, p.State, p.Country, p.ParentID,
		p.StatePlaceID, p.CountyPlaceID, p.Description,
	))
	if err != nil {
		return nil, eris.Wrapf(err, "repository: upsert %s place %q", p.Kind, p.Name)
	}
	return out, nil
}

func (r *placeRepository) Create(ctx context.Context, p *models.Place) (*models.Place, error) {
	query := `
		INSERT INTO places (
			id, owner_id, name, kind, state, country, parent_id, state_place_id,
			county_place_id, description, tax_contact_name, tax_contact_phone,
			tax_contact_email, tax_website, zoning_contact_name, zoning_contact_phone,
			zoning_contact_email, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + placeColumns

	out, err := scanPlace(r.db.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Kind, p.State, p.Country, p.ParentID, p.StatePlaceID,
		p.CountyPlaceID, p.Description, p.TaxContactName, p.TaxContactPhone,
		p.TaxContactEmail, p.TaxWebsite, p.ZoningContactName, p.ZoningContactPhone,
		p.ZoningContactEmail, p.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: create place %q", p.Name)
	}
	return out, nil
}

func (r *placeRepository) Update(ctx context.Context, p *models.Place) (*models.Place, error) {
	query := `
		WITH updated AS (
		UPDATE places SET
			name = $3,
			state = $4,
			country = $5,
			description = $6,
			tax_contact_name = $7,
			tax_contact_phone = $8,
			tax_contact_email = $9,
			tax_website = $10,
			zoning_contact_name = $11,
			zoning_contact_phone = $12,
			zoning_contact_email = $13,
			notes = $14,
			updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + placeColumns + `
		), descendants AS (
			UPDATE places d SET state = u.state, updated_at = now()
			FROM updated u
			WHERE u.kind = 'STATE' AND d.owner_id = $1 AND d.state_place_id = u.id
				AND d.state IS DISTINCT FROM u.state
		)
		SELECT ` + placeColumns + ` FROM updated`

	out, err := scanPlace(r.db.QueryRow(ctx, query,
		p.OwnerID, p.ID, p.Name, p.State, p.Country, p.Description,
		p.TaxContactName, p.TaxContactPhone, p.TaxContactEmail, p.TaxWebsite,
		p.ZoningContactName, p.ZoningContactPhone, p.ZoningContactEmail, p.Notes,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: update place %s", p.ID)
	}
	return out, nil
}

func (r *placeRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete place %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *placeRepository) Dependents(ctx context.Context, owner, id uuid.UUID) (int, int, error) {
	var properties, children int
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM properties WHERE owner_id = $1 AND place_id = $2),
			(SELECT count(*) FROM places WHERE owner_id = $1 AND parent_id = $2)`,
		owner, id,
	).Scan(&properties, &children)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "repository: count dependents of place %s", id)
	}
	return properties, children, nil
}

func (r *placeRepository) SetMillRate(ctx context.Context, owner, id uuid.UUID, rate *float64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE places SET mill_rate = $3, updated_at = now() WHERE owner_id = $1 AND id = $2`,
		owner, id, rate,
	)
	if err != nil {
		return eris.Wrapf(err, "repository: set mill rate on place %s", id)
	}
	return nil
}
