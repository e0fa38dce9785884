package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// PersonInput carries the writable fields of a contact.
type PersonInput struct {
	Email   *string
	Phone   *string
	Company *string
	Role    *string
	Notes   *string
	Name    string
}

func (in *PersonInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)

	v := &ValidationError{Message: "invalid person"}
	if in.Name == "" {
		v.Add("name", "This field is required")
	}
	validEmail(v, "email", in.Email)
	return v.OrNil()
}

// PersonService defines the operations on contacts.
type PersonService interface {
	List(ctx context.Context, owner uuid.UUID) ([]models.Person, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Person, error)
	Create(ctx context.Context, owner uuid.UUID, in PersonInput) (*models.Person, error)
	Update(ctx context.Context, owner, id uuid.UUID, in PersonInput) (*models.Person, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

type personService struct {
	repo repository.PersonRepository
	log  *logger.Logger
}

// NewPersonService creates a new instance of PersonService.
func NewPersonService(repo repository.PersonRepository, log *logger.Logger) PersonService {
	return &personService{repo: repo, log: log}
}

func (s *personService) List(ctx context.Context, owner uuid.UUID) ([]models.Person, error) {
	people, err := s.repo.List(ctx, owner)
	if err != nil {
		s.log.Error("Failed to list people", err, nil)
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

func (s *personService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Person, error) {
	person, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to get person", err, map[string]interface{}{"person_id": id})
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	if person == nil {
		return nil, notFound("person")
	}
	return person, nil
}

func (s *personService) Create(ctx context.Context, owner uuid.UUID, in PersonInput) (*models.Person, error) {
	if err := in.normalize(); err != nil {
		s.log.Warn("Invalid person", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Person{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Role:    in.Role,
		Notes:   in.Notes,
	})
	if isDuplicate(err) {
		s.log.Warn("Duplicate person name", map[string]interface{}{"name": in.Name})
		return nil, duplicateName("person", in.Name)
	}
	if err != nil {
		s.log.Error("Failed to create person", err, nil)
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return created, nil
}

func (s *personService) Update(ctx context.Context, owner, id uuid.UUID, in PersonInput) (*models.Person, error) {
	if err := in.normalize(); err != nil {
		s.log.Warn("Invalid person", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &models.Person{
		ID:      id,
		OwnerID: owner,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Role:    in.Role,
		Notes:   in.Notes,
	})
	if isDuplicate(err) {
		return nil, duplicateName("person", in.Name)
	}
	if err != nil {
		s.log.Error("Failed to update person", err, map[string]interface{}{"person_id": id})
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	if updated == nil {
		return nil, notFound("person")
	}
	return updated, nil
}

func (s *personService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, owner, id)
	if err != nil {
		s.log.Error("Failed to delete person", err, map[string]interface{}{"person_id": id})
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if !deleted {
		return notFound("person")
	}
	return nil
}
