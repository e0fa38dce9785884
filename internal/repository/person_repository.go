package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// PersonRepository defines owner-scoped access to contacts.
type PersonRepository interface {
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Person, error)
	List(ctx context.Context, owner uuid.UUID) ([]models.Person, error)

	// Upsert returns the person with exactly this name, creating a bare
	// contact when none exists.
	Upsert(ctx context.Context, owner uuid.UUID, name string) (*models.Person, error)

	Create(ctx context.Context, p *models.Person) (*models.Person, error)
	Update(ctx context.Context, p *models.Person) (*models.Person, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)
}

type personRepository struct {
	db database.DB
}

const personColumns = `id, owner_id, name, email, phone, company, role, notes, created_at, updated_at`

func scanPerson(row scanner) (*models.Person, error) {
	var p models.Person
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Email, &p.Phone,
		&p.Company, &p.Role, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = $1 AND id = $2`, owner, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get person %s", id)
	}
	return p, nil
}

func (r *personRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Person, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = $1 ORDER BY name`, owner)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list people")
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan person")
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate people")
	}
	return people, nil
}

func (r *personRepository) Upsert(ctx context.Context, owner uuid.UUID, name string) (*models.Person, error) {
	query := `
		INSERT INTO people (id, owner_id, name) VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT people_owner_name_key
		DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + personColumns

	p, err := scanPerson(r.db.QueryRow(ctx, query, uuid.New(), owner, name))
	if err != nil {
		return nil, eris.Wrapf(err, "repository: upsert person %q", name)
	}
	return p, nil
}

func (r *personRepository) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	query := `
		INSERT INTO people (id, owner_id, name, email, phone, company, role, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + personColumns

	out, err := scanPerson(r.db.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Email, p.Phone, p.Company, p.Role, p.Notes))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: create person %q", p.Name)
	}
	return out, nil
}

func (r *personRepository) Update(ctx context.Context, p *models.Person) (*models.Person, error) {
	query := `
		UPDATE people SET
			name = $3, email = $4, phone = $5, company = $6, role = $7, notes = $8,
			updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + personColumns

	out, err := scanPerson(r.db.QueryRow(ctx, query,
		p.OwnerID, p.ID, p.Name, p.Email, p.Phone, p.Company, p.Role, p.Notes))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: update person %s", p.ID)
	}
	return out, nil
}

func (r *personRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM people WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete person %s", id)
	}
	return tag.RowsAffected() > 0, nil
}
