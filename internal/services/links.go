package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ContactNames names the four contact roles of a deal or property as free
// text. A non-blank name is resolved to a person, created on first use.
type ContactNames struct {
	Seller       *string
	SellerAgent  *string
	BuyerAgent   *string
	TitleCompany *string
}

// Links are the references a deal or property carries to people and places.
// Names take precedence over explicit IDs; explicit IDs must belong to the
// owner.
type Links struct {
	Roles     models.PersonRoles
	Contacts  ContactNames
	PlaceID   *uuid.UUID
	PlaceType *models.PlaceKind
}

// linker resolves Links concurrently. Each branch writes its own result and
// upserts disjoint rows.
type linker struct {
	store repository.Store
	log   *logger.Logger
}

func (l *linker) resolve(ctx context.Context, owner uuid.UUID, addr models.Address, in Links) (models.PersonRoles, *uuid.UUID, error) {
	people := NewPersonResolver(l.store.People(), l.log)
	places := NewPlaceResolver(l.store.Places(), l.log)

	var roles models.PersonRoles
	var placeID *uuid.UUID

	g, gctx := errgroup.WithContext(ctx)

	role := func(field string, name *string, id *uuid.UUID, out **uuid.UUID) {
		g.Go(func() error {
			resolved, err := l.person(gctx, people, owner, field, name, id)
			*out = resolved
			return err
		})
	}
	role("seller", in.Contacts.Seller, in.Roles.SellerID, &roles.SellerID)
	role("sellerAgent", in.Contacts.SellerAgent, in.Roles.SellerAgentID, &roles.SellerAgentID)
	role("buyerAgent", in.Contacts.BuyerAgent, in.Roles.BuyerAgentID, &roles.BuyerAgentID)
	role("titleCompany", in.Contacts.TitleCompany, in.Roles.TitleCompanyID, &roles.TitleCompanyID)

	g.Go(func() error {
		var err error
		placeID, err = l.place(gctx, places, owner, addr, in)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.PersonRoles{}, nil, err
	}
	return roles, placeID, nil
}

func (l *linker) person(ctx context.Context, people *PersonResolver, owner uuid.UUID, field string, name *string, id *uuid.UUID) (*uuid.UUID, error) {
	if name != nil && strings.TrimSpace(*name) != "" {
		p, err := people.Resolve(ctx, owner, *name)
		if err != nil {
			return nil, err
		}
		return &p.ID, nil
	}
	if id == nil {
		return nil, nil
	}

	p, err := l.store.People().Get(ctx, owner, *id)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", field, err)
	}
	if p == nil {
		return nil, unknownReference(field+"Id", "person")
	}
	return id, nil
}

func (l *linker) place(ctx context.Context, places *PlaceResolver, owner uuid.UUID, addr models.Address, in Links) (*uuid.UUID, error) {
	if in.PlaceID != nil {
		ok, err := l.store.Places().Exists(ctx, owner, *in.PlaceID)
		if err != nil {
			return nil, fmt.Errorf("look up place: %w", err)
		}
		if !ok {
			return nil, unknownReference("placeId", "place")
		}
		return in.PlaceID, nil
	}

	ref := PlaceRef{City: deref(addr.City), State: deref(addr.State), County: deref(addr.County)}
	if in.PlaceType != nil {
		ref.Kind = *in.PlaceType
	}
	p, err := places.Resolve(ctx, owner, ref)
	if err != nil || p == nil {
		return nil, err
	}
	return &p.ID, nil
}

func unknownReference(field, entity string) error {
	v := &ValidationError{Message: "unknown reference"}
	v.Add(field, fmt.Sprintf("no such %s", entity))
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
