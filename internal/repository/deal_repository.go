package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/database"
	"github.com/stwalsh4118/landbook/internal/models"
)

// DealFilter narrows a deal listing. Nil fields are ignored.
type DealFilter struct {
	Stage  *models.DealStage
	Status *models.DealStatus
}

// DealRepository defines owner-scoped access to the deal pipeline.
type DealRepository interface {
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, owner uuid.UUID, filter DealFilter) ([]models.Deal, error)
	Create(ctx context.Context, d *models.Deal) (*models.Deal, error)

	// Update replaces the mutable fields of a deal. The promotion link is
	// never written here.
	Update(ctx context.Context, d *models.Deal) (*models.Deal, error)

	// Delete removes an unpromoted deal. Promoted deals are left in place
	// and reported as not deleted.
	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)

	// MarkPromoted links the deal to propertyID if it has no link yet and
	// returns nil, nil when the deal is missing or already linked.
	MarkPromoted(ctx context.Context, owner, id, propertyID uuid.UUID, at time.Time) (*models.Deal, error)

	// PromotedTo returns the deal whose promotion link points at propertyID,
	// or nil, nil when none does.
	PromotedTo(ctx context.Context, owner, propertyID uuid.UUID) (*models.Deal, error)
}

type dealRepository struct {
	db database.DB
}

var (
	dealWritableCols = concat(
		[]string{"name", "description", "deal_stage", "deal_status"},
		addressCols,
		[]string{"place_id", "acres", "zoning", "asking_price", "offer_price", "purchase_price", "earnest_money"},
		closingCostCols,
		financingCols,
		[]string{"target_closing_date"},
		personRoleCols,
		[]string{"notes"},
	)
	dealColumns = "id, owner_id, " + strings.Join(dealWritableCols, ", ") +
		", promoted_to_property_id, promoted_at, created_at, updated_at"
)

func dealWritableArgs(d *models.Deal) []any {
	return concatArgs(
		[]any{d.Name, d.Description, d.Stage, d.Status},
		addressArgs(&d.Address),
		[]any{d.PlaceID, d.Acres, d.Zoning, d.AskingPrice, d.OfferPrice, d.PurchasePrice, d.EarnestMoney},
		closingCostArgs(&d.ClosingCosts),
		financingArgs(&d.Financing),
		[]any{d.TargetClosingDate},
		personRoleArgs(&d.PersonRoles),
		[]any{d.Notes},
	)
}

func scanDeal(row scanner) (*models.Deal, error) {
	var d models.Deal
	dest := concatArgs(
		[]any{&d.ID, &d.OwnerID, &d.Name, &d.Description, &d.Stage, &d.Status},
		addressDest(&d.Address),
		[]any{&d.PlaceID, &d.Acres, &d.Zoning, &d.AskingPrice, &d.OfferPrice, &d.PurchasePrice, &d.EarnestMoney},
		closingCostDest(&d.ClosingCosts),
		financingDest(&d.Financing),
		[]any{&d.TargetClosingDate},
		personRoleDest(&d.PersonRoles),
		[]any{&d.Notes, &d.PromotedToPropertyID, &d.PromotedAt, &d.CreatedAt, &d.UpdatedAt},
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *dealRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Deal, error) {
	d, err := scanDeal(r.db.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE owner_id = $1 AND id = $2`, owner, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: get deal %s", id)
	}
	return d, nil
}

func (r *dealRepository) List(ctx context.Context, owner uuid.UUID, filter DealFilter) ([]models.Deal, error) {
	conds := []string{"owner_id = $1"}
	args := []any{owner}
	if filter.Stage != nil {
		args = append(args, *filter.Stage)
		conds = append(conds, fmt.Sprintf("deal_stage = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("deal_status = $%d", len(args)))
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE `+strings.Join(conds, " AND ")+` ORDER BY created_at DESC`,
		args...)
	if err != nil {
		return nil, eris.Wrap(err, "repository: list deals")
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, eris.Wrap(err, "repository: scan deal")
		}
		deals = append(deals, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "repository: iterate deals")
	}
	return deals, nil
}

func (r *dealRepository) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	query := `INSERT INTO deals (id, owner_id, ` + strings.Join(dealWritableCols, ", ") + `)
		VALUES ($1, $2, ` + placeholders(3, len(dealWritableCols)) + `)
		RETURNING ` + dealColumns

	args := append([]any{d.ID, d.OwnerID}, dealWritableArgs(d)...)
	out, err := scanDeal(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, eris.Wrapf(err, "repository: create deal %q", d.Name)
	}
	return out, nil
}

func (r *dealRepository) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	query := `UPDATE deals SET ` + assignments(dealWritableCols, 3) + `, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + dealColumns

	args := append([]any{d.OwnerID, d.ID}, dealWritableArgs(d)...)
	out, err := scanDeal(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: update deal %s", d.ID)
	}
	return out, nil
}

func (r *dealRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM deals WHERE owner_id = $1 AND id = $2 AND promoted_to_property_id IS NULL`,
		owner, id)
	if err != nil {
		return false, eris.Wrapf(err, "repository: delete deal %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *dealRepository) MarkPromoted(ctx context.Context, owner, id, propertyID uuid.UUID, at time.Time) (*models.Deal, error) {
	query := `
		UPDATE deals SET promoted_to_property_id = $3, promoted_at = $4, updated_at = now()
		WHERE owner_id = $1 AND id = $2 AND promoted_to_property_id IS NULL
		RETURNING ` + dealColumns

	d, err := scanDeal(r.db.QueryRow(ctx, query, owner, id, propertyID, at))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: mark deal %s promoted", id)
	}
	return d, nil
}

func (r *dealRepository) PromotedTo(ctx context.Context, owner, propertyID uuid.UUID) (*models.Deal, error) {
	d, err := scanDeal(r.db.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE owner_id = $1 AND promoted_to_property_id = $2 LIMIT 1`,
		owner, propertyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "repository: find deal promoted to %s", propertyID)
	}
	return d, nil
}
