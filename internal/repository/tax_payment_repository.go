package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// TaxPaymentRepository defines owner-scoped access to taxes paid per property and year.
type TaxPaymentRepository interface {
	ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error)
	Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.TaxPayment, error)
	Create(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error)
	Update(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error)
	Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error)
}

type taxPaymentRepository struct {
	db database.DB
}

const taxPaymentColumns = `id, owner_id, property_id, year, amount, payment_date, notes, created_at, updated_at`

func scanTaxPayment(row scanner) (*models.TaxPayment, error) {
	var p models.TaxPayment
	err := row.Scan(&p.ID, &p.OwnerID, &p.PropertyID, &p.Year, &p.Amount, &p.PaymentDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *taxPaymentRepository) ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taxPaymentColumns+` FROM tax_payments
		WHERE owner_id = $1 AND property_id = $2
		ORDER BY year DESC`, owner, propertyID)
	if err != nil {
		return nil, eris.Wrapf(err, "repository: list tax payments for property %s", propertyID)
	}
	defer rows.Close()

	payments := []models.TaxPayment{}
	for rows.Next() {
		p, err := scanTaxPayment(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan tax payment")
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate tax payments")
	}
	return payments, nil
}

func (r *taxPaymentRepository) Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.TaxPayment, error) {
	p, err := scanTaxPayment(r.db.QueryRow(ctx, `
		SELECT `+taxPaymentColumns+` FROM tax_payments
		WHERE owner_id = $1 AND property_id = $2 AND id = $3`, owner, propertyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get tax payment %s", id)
	}
	return p, nil
}

func (r *taxPaymentRepository) Create(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error) {
	out, err := scanTaxPayment(r.db.QueryRow(ctx, `
		INSERT INTO tax_payments (id, owner_id, property_id, year, amount, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taxPaymentColumns,
		p.ID, p.OwnerID, p.PropertyID, p.Year, p.Amount, p.PaymentDate, p.Notes))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: create tax payment for %d", p.Year)
	}
	return out, nil
}

func (r *taxPaymentRepository) Update(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error) {
	out, err := scanTaxPayment(r.db.QueryRow(ctx, `
		UPDATE tax_payments SET year = $4, amount = $5, payment_date = $6, notes = $7, updated_at = now()
		WHERE owner_id = $1 AND property_id = $2 AND id = $3
		RETURNING `+taxPaymentColumns,
		p.OwnerID, p.PropertyID, p.ID, p.Year, p.Amount, p.PaymentDate, p.Notes))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrapf(err, "repository: update tax payment %s", p.ID)
	}
	return out, nil
}

func (r *taxPaymentRepository) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM tax_payments WHERE owner_id = $1 AND property_id = $2 AND id = $3`,
		owner, propertyID, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete tax payment %s", id)
	}
	return tag.RowsAffected() > 0, nil
}
