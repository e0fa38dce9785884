package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// HistoryRepository is the storage a Rollup needs for one kind of year-keyed
// history and the parent that mirrors its latest entry.
type HistoryRepository[E any] interface {
	ParentExists(ctx context.Context, owner, parentID uuid.UUID) (bool, error)
	Get(ctx context.Context, owner, parentID, id uuid.UUID) (*E, error)
	YearExists(ctx context.Context, owner, parentID uuid.UUID, year int) (bool, error)
	Insert(ctx context.Context, e *E) (*E, error)
	Update(ctx context.Context, e *E) (*E, error)
	Delete(ctx context.Context, owner, parentID, id uuid.UUID) (bool, error)
	Latest(ctx context.Context, owner, parentID uuid.UUID) (*E, error)

	// Mirror copies latest onto the parent, or clears the parent's mirrored
	// fields when latest is nil.
	Mirror(ctx context.Context, owner, parentID uuid.UUID, latest *E) error
}

// Rollup keeps a parent's denormalized "current" fields equal to its
// highest-year history entry. Each operation runs in one transaction and
// re-reads the latest entry after writing.
type Rollup[E any] struct {
	store  repository.Store
	bind   func(repository.Store) HistoryRepository[E]
	key    func(*E) (uuid.UUID, int)
	entity string
	parent string
	log    *logger.Logger
}

// NewRollup creates a Rollup. bind builds the history repository over a
// (possibly transactional) store and key extracts an entry's id and year.
func NewRollup[E any](
	store repository.Store,
	bind func(repository.Store) HistoryRepository[E],
	key func(*E) (uuid.UUID, int),
	entity, parent string,
	log *logger.Logger,
) *Rollup[E] {
	return &Rollup[E]{
		store:  store,
		bind:   bind,
		key:    key,
		entity: entity,
		parent: parent,
		log:    log,
	}
}

// Add inserts e under parentID. It fails with a conflict when the parent
// already has an entry for e's year, and mirrors e when it is the new latest.
func (r *Rollup[E]) Add(ctx context.Context, owner, parentID uuid.UUID, e *E) (*E, error) {
	_, year := r.key(e)

	var created *E
	err := r.store.InTx(ctx, func(tx repository.Store) error {
		h := r.bind(tx)

		ok, err := h.ParentExists(ctx, owner, parentID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(r.parent)
		}

		taken, err := h.YearExists(ctx, owner, parentID, year)
		if err != nil {
			return err
		}
		if taken {
			return r.duplicateYear(year)
		}

		created, err = h.Insert(ctx, e)
		if errors.Is(err, repository.ErrDuplicate) {
			return r.duplicateYear(year)
		}
		if err != nil {
			return err
		}

		return r.mirrorIfLatest(ctx, h, owner, parentID, created)
	})
	if err != nil {
		r.logFailure("add", err, parentID, year)
		return nil, err
	}

	r.log.Info(fmt.Sprintf("Added %s entry", r.entity), map[string]interface{}{
		"parent_id": parentID,
		"year":      year,
	})
	return created, nil
}

// Update rewrites the values of an existing entry. Only an update to the
// latest entry reaches the parent; updating an older year leaves the mirror
// as it was.
func (r *Rollup[E]) Update(ctx context.Context, owner, parentID, id uuid.UUID, e *E) (*E, error) {
	var updated *E
	err := r.store.InTx(ctx, func(tx repository.Store) error {
		h := r.bind(tx)

		existing, err := h.Get(ctx, owner, parentID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFound(r.entity)
		}

		updated, err = h.Update(ctx, e)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound(r.entity)
		}

		return r.mirrorIfLatest(ctx, h, owner, parentID, updated)
	})
	if err != nil {
		r.logFailure("update", err, parentID, 0)
		return nil, err
	}
	return updated, nil
}

// Delete removes an entry and re-mirrors whichever entry is now latest, or
// clears the parent when none remain.
func (r *Rollup[E]) Delete(ctx context.Context, owner, parentID, id uuid.UUID) error {
	err := r.store.InTx(ctx, func(tx repository.Store) error {
		h := r.bind(tx)

		deleted, err := h.Delete(ctx, owner, parentID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound(r.entity)
		}

		latest, err := h.Latest(ctx, owner, parentID)
		if err != nil {
			return err
		}
		return h.Mirror(ctx, owner, parentID, latest)
	})
	if err != nil {
		r.logFailure("delete", err, parentID, 0)
		return err
	}

	r.log.Info(fmt.Sprintf("Deleted %s entry", r.entity), map[string]interface{}{
		"parent_id": parentID,
		"id":        id,
	})
	return nil
}

func (r *Rollup[E]) mirrorIfLatest(ctx context.Context, h HistoryRepository[E], owner, parentID uuid.UUID, e *E) error {
	latest, err := h.Latest(ctx, owner, parentID)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}

	latestID, _ := r.key(latest)
	entryID, year := r.key(e)
	if latestID != entryID {
		return nil
	}

	r.log.Debug("Refreshing mirrored values", map[string]interface{}{
		"parent":    r.parent,
		"parent_id": parentID,
		"year":      year,
	})
	return h.Mirror(ctx, owner, parentID, latest)
}

func (r *Rollup[E]) duplicateYear(year int) error {
	return conflict("year", "a %s entry for %d already exists", r.entity, year)
}

func (r *Rollup[E]) logFailure(op string, err error, parentID uuid.UUID, year int) {
	fields := map[string]interface{}{
		"op":        op,
		"parent_id": parentID,
	}
	if year != 0 {
		fields["year"] = year
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		fields["reason"] = err.Error()
		r.log.Warn(fmt.Sprintf("Rejected %s change", r.entity), fields)
		return
	}
	r.log.Error(fmt.Sprintf("Failed to change %s history", r.entity), err, fields)
}
