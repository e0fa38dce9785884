package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/landbook/internal/database"
)

// ErrDuplicate is returned when a write collides with a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate record")

const uniqueViolation = "23505"

// Store groups the owner-scoped repositories over one connection, either the
// pool or an open transaction.
type Store interface {
	Places() PlaceRepository
	People() PersonRepository
	Deals() DealRepository
	Properties() PropertyRepository
	MillRates() MillRateRepository
	Valuations() ValuationRepository
	TaxPayments() TaxPaymentRepository
	TaxProjections() TaxProjectionRepository

	// InTx runs fn against a Store bound to a single transaction. Calling
	// InTx on a Store that is already transactional reuses the transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type pgStore struct {
	db    database.DB
	begin database.TxBeginner
}

// NewStore creates a Store over the pool.
func NewStore(pool database.TxBeginner) Store {
	return &pgStore{db: pool, begin: pool}
}

func (s *pgStore) Places() PlaceRepository                 { return &placeRepository{db: s.db} }
func (s *pgStore) People() PersonRepository                { return &personRepository{db: s.db} }
func (s *pgStore) Deals() DealRepository                   { return &dealRepository{db: s.db} }
func (s *pgStore) Properties() PropertyRepository          { return &propertyRepository{db: s.db} }
func (s *pgStore) MillRates() MillRateRepository           { return &millRateRepository{db: s.db} }
func (s *pgStore) Valuations() ValuationRepository         { return &valuationRepository{db: s.db} }
func (s *pgStore) TaxPayments() TaxPaymentRepository       { return &taxPaymentRepository{db: s.db} }
func (s *pgStore) TaxProjections() TaxProjectionRepository { return &taxProjectionRepository{db: s.db} }

func (s *pgStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.begin == nil {
		return fn(s)
	}
	return database.WithTx(ctx, s.begin, func(tx pgx.Tx) error {
		return fn(&pgStore{db: tx})
	})
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
