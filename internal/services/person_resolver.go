package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
)

// PersonUpserter is the slice of the person repository the resolver needs.
type PersonUpserter interface {
	Upsert(ctx context.Context, owner uuid.UUID, name string) (*models.Person, error)
}

// PersonResolver finds or creates contacts by exact name.
type PersonResolver struct {
	people PersonUpserter
	log    *logger.Logger
}

// NewPersonResolver creates a resolver writing through people.
func NewPersonResolver(people PersonUpserter, log *logger.Logger) *PersonResolver {
	return &PersonResolver{people: people, log: log}
}

// Resolve returns the owner's person named name, creating it if needed.
// A blank name resolves to nil, nil. Matching is case sensitive.
func (r *PersonResolver) Resolve(ctx context.Context, owner uuid.UUID, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	person, err := r.people.Upsert(ctx, owner, name)
	if err != nil {
		r.log.Error("Failed to resolve person", err, map[string]interface{}{"name": name})
		return nil, fmt.Errorf("resolve person %q: %w", name, err)
	}
	return person, nil
}
