package services

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
)

// memStore is an in-memory repository.Store. InTx snapshots the data and
// restores it when fn fails, which is enough to observe rollback.
type memStore struct {
	mu   sync.Mutex
	data *memData
	fail map[string]error
	txs  int
}

type memData struct {
	places     map[uuid.UUID]models.Place
	people     map[uuid.UUID]models.Person
	deals      map[uuid.UUID]models.Deal
	properties map[uuid.UUID]models.Property
	millRates  map[uuid.UUID]models.MillRateHistory
	valuations map[uuid.UUID]models.PropertyValuationHistory
	payments   map[uuid.UUID]models.TaxPayment
}

func (d *memData) clone() *memData {
	return &memData{
		places:     maps.Clone(d.places),
		people:     maps.Clone(d.people),
		deals:      maps.Clone(d.deals),
		properties: maps.Clone(d.properties),
		millRates:  maps.Clone(d.millRates),
		valuations: maps.Clone(d.valuations),
		payments:   maps.Clone(d.payments),
	}
}

func newMemStore() *memStore {
	return &memStore{
		data: &memData{
			places:     map[uuid.UUID]models.Place{},
			people:     map[uuid.UUID]models.Person{},
			deals:      map[uuid.UUID]models.Deal{},
			properties: map[uuid.UUID]models.Property{},
			millRates:  map[uuid.UUID]models.MillRateHistory{},
			valuations: map[uuid.UUID]models.PropertyValuationHistory{},
			payments:   map[uuid.UUID]models.TaxPayment{},
		},
		fail: map[string]error{},
	}
}

// failOn makes the named repository call return err.
func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *memStore) lock(op string) error {
	s.mu.Lock()
	return s.fail[op]
}

func (s *memStore) Places() repository.PlaceRepository                 { return memPlaces{s} }
func (s *memStore) People() repository.PersonRepository                { return memPeople{s} }
func (s *memStore) Deals() repository.DealRepository                   { return memDeals{s} }
func (s *memStore) Properties() repository.PropertyRepository          { return memProperties{s} }
func (s *memStore) MillRates() repository.MillRateRepository           { return memMillRates{s} }
func (s *memStore) Valuations() repository.ValuationRepository         { return memValuations{s} }
func (s *memStore) TaxPayments() repository.TaxPaymentRepository       { return memPayments{s} }
func (s *memStore) TaxProjections() repository.TaxProjectionRepository { return memProjections{s} }

func (s *memStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.txs++
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// places

type memPlaces struct{ s *memStore }

func (r memPlaces) Get(ctx context.Context, owner, id uuid.UUID) (*models.Place, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Get"); err != nil {
		return nil, err
	}
	p, ok := r.s.data.places[id]
	if !ok || p.OwnerID != owner {
		return nil, nil
	}
	return &p, nil
}

func (r memPlaces) Exists(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	p, err := r.Get(ctx, owner, id)
	return p != nil, err
}

func (r memPlaces) List(ctx context.Context, owner uuid.UUID, filter repository.PlaceFilter) ([]models.Place, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.List"); err != nil {
		return nil, err
	}
	var out []models.Place
	for _, p := range r.s.data.places {
		if p.OwnerID != owner {
			continue
		}
		if filter.Kind != nil && p.Kind != *filter.Kind {
			continue
		}
		if filter.ParentID != nil && !sameParent(p.ParentID, filter.ParentID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memPlaces) find(p *models.Place) (models.Place, bool) {
	for _, existing := range r.s.data.places {
		if existing.OwnerID == p.OwnerID && existing.Name == p.Name &&
			existing.Kind == p.Kind && sameParent(existing.ParentID, p.ParentID) {
			return existing, true
		}
	}
	return models.Place{}, false
}

func (r memPlaces) Upsert(ctx context.Context, p *models.Place) (*models.Place, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Upsert"); err != nil {
		return nil, err
	}
	if existing, ok := r.find(p); ok {
		return &existing, nil
	}
	out := *p
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.places[out.ID] = out
	return &out, nil
}

func (r memPlaces) Create(ctx context.Context, p *models.Place) (*models.Place, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.find(p); ok {
		return nil, repository.ErrDuplicate
	}
	out := *p
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.places[out.ID] = out
	return &out, nil
}

func (r memPlaces) Update(ctx context.Context, p *models.Place) (*models.Place, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.places[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return nil, nil
	}
	if other, dup := r.find(p); dup && other.ID != p.ID {
		return nil, repository.ErrDuplicate
	}
	out := existing
	out.Name, out.State, out.Country, out.Description = p.Name, p.State, p.Country, p.Description
	out.TaxContactName, out.TaxContactPhone, out.TaxContactEmail = p.TaxContactName, p.TaxContactPhone, p.TaxContactEmail
	out.TaxWebsite, out.Notes = p.TaxWebsite, p.Notes
	out.ZoningContactName, out.ZoningContactPhone, out.ZoningContactEmail = p.ZoningContactName, p.ZoningContactPhone, p.ZoningContactEmail
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.places[out.ID] = out
	if out.Kind == models.PlaceKindState {
		for id, d := range r.s.data.places {
			if d.StatePlaceID != nil && *d.StatePlaceID == out.ID {
				d.State = out.State
				r.s.data.places[id] = d
			}
		}
	}
	return &out, nil
}

func (r memPlaces) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Delete"); err != nil {
		return false, err
	}
	p, ok := r.s.data.places[id]
	if !ok || p.OwnerID != owner {
		return false, nil
	}
	delete(r.s.data.places, id)
	return true, nil
}

func (r memPlaces) Dependents(ctx context.Context, owner, id uuid.UUID) (int, int, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.Dependents"); err != nil {
		return 0, 0, err
	}
	var properties, children int
	for _, p := range r.s.data.properties {
		if p.OwnerID == owner && p.PlaceID != nil && *p.PlaceID == id {
			properties++
		}
	}
	for _, p := range r.s.data.places {
		if p.OwnerID == owner && p.ParentID != nil && *p.ParentID == id {
			children++
		}
	}
	return properties, children, nil
}

func (r memPlaces) SetMillRate(ctx context.Context, owner, id uuid.UUID, rate *float64) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Places.SetMillRate"); err != nil {
		return err
	}
	p, ok := r.s.data.places[id]
	if !ok || p.OwnerID != owner {
		return nil
	}
	p.MillRate = rate
	r.s.data.places[id] = p
	return nil
}

// people

type memPeople struct{ s *memStore }

func (r memPeople) Get(ctx context.Context, owner, id uuid.UUID) (*models.Person, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.Get"); err != nil {
		return nil, err
	}
	p, ok := r.s.data.people[id]
	if !ok || p.OwnerID != owner {
		return nil, nil
	}
	return &p, nil
}

func (r memPeople) List(ctx context.Context, owner uuid.UUID) ([]models.Person, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.List"); err != nil {
		return nil, err
	}
	var out []models.Person
	for _, p := range r.s.data.people {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memPeople) byName(owner uuid.UUID, name string) (models.Person, bool) {
	for _, p := range r.s.data.people {
		if p.OwnerID == owner && p.Name == name {
			return p, true
		}
	}
	return models.Person{}, false
}

func (r memPeople) Upsert(ctx context.Context, owner uuid.UUID, name string) (*models.Person, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.Upsert"); err != nil {
		return nil, err
	}
	if p, ok := r.byName(owner, name); ok {
		return &p, nil
	}
	p := models.Person{ID: uuid.New(), OwnerID: owner, Name: name}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	r.s.data.people[p.ID] = p
	return &p, nil
}

func (r memPeople) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.byName(p.OwnerID, p.Name); ok {
		return nil, repository.ErrDuplicate
	}
	out := *p
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.people[out.ID] = out
	return &out, nil
}

func (r memPeople) Update(ctx context.Context, p *models.Person) (*models.Person, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.people[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return nil, nil
	}
	if other, dup := r.byName(p.OwnerID, p.Name); dup && other.ID != p.ID {
		return nil, repository.ErrDuplicate
	}
	out := *p
	out.CreatedAt = existing.CreatedAt
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.people[out.ID] = out
	return &out, nil
}

func (r memPeople) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("People.Delete"); err != nil {
		return false, err
	}
	p, ok := r.s.data.people[id]
	if !ok || p.OwnerID != owner {
		return false, nil
	}
	delete(r.s.data.people, id)
	return true, nil
}

// deals

type memDeals struct{ s *memStore }

func (r memDeals) Get(ctx context.Context, owner, id uuid.UUID) (*models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.Get"); err != nil {
		return nil, err
	}
	d, ok := r.s.data.deals[id]
	if !ok || d.OwnerID != owner {
		return nil, nil
	}
	return &d, nil
}

func (r memDeals) List(ctx context.Context, owner uuid.UUID, filter repository.DealFilter) ([]models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.List"); err != nil {
		return nil, err
	}
	var out []models.Deal
	for _, d := range r.s.data.deals {
		if d.OwnerID != owner {
			continue
		}
		if filter.Stage != nil && d.Stage != *filter.Stage {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memDeals) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.Create"); err != nil {
		return nil, err
	}
	out := *d
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.deals[out.ID] = out
	return &out, nil
}

func (r memDeals) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.deals[d.ID]
	if !ok || existing.OwnerID != d.OwnerID {
		return nil, nil
	}
	out := *d
	out.CreatedAt = existing.CreatedAt
	out.PromotedToPropertyID = existing.PromotedToPropertyID
	out.PromotedAt = existing.PromotedAt
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.deals[out.ID] = out
	return &out, nil
}

func (r memDeals) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.Delete"); err != nil {
		return false, err
	}
	d, ok := r.s.data.deals[id]
	if !ok || d.OwnerID != owner || d.PromotedToPropertyID != nil {
		return false, nil
	}
	delete(r.s.data.deals, id)
	return true, nil
}

func (r memDeals) MarkPromoted(ctx context.Context, owner, id, propertyID uuid.UUID, at time.Time) (*models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.MarkPromoted"); err != nil {
		return nil, err
	}
	d, ok := r.s.data.deals[id]
	if !ok || d.OwnerID != owner || d.PromotedToPropertyID != nil {
		return nil, nil
	}
	d.PromotedToPropertyID = &propertyID
	d.PromotedAt = &at
	r.s.data.deals[id] = d
	return &d, nil
}

func (r memDeals) PromotedTo(ctx context.Context, owner, propertyID uuid.UUID) (*models.Deal, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Deals.PromotedTo"); err != nil {
		return nil, err
	}
	for _, d := range r.s.data.deals {
		if d.OwnerID == owner && d.PromotedToPropertyID != nil && *d.PromotedToPropertyID == propertyID {
			return &d, nil
		}
	}
	return nil, nil
}

// properties

type memProperties struct{ s *memStore }

func (r memProperties) Get(ctx context.Context, owner, id uuid.UUID) (*models.Property, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.Get"); err != nil {
		return nil, err
	}
	p, ok := r.s.data.properties[id]
	if !ok || p.OwnerID != owner {
		return nil, nil
	}
	return &p, nil
}

func (r memProperties) Exists(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	p, err := r.Get(ctx, owner, id)
	return p != nil, err
}

func (r memProperties) List(ctx context.Context, owner uuid.UUID) ([]models.Property, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.List"); err != nil {
		return nil, err
	}
	var out []models.Property
	for _, p := range r.s.data.properties {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memProperties) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.Create"); err != nil {
		return nil, err
	}
	out := *p
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.properties[out.ID] = out
	return &out, nil
}

func (r memProperties) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.properties[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return nil, nil
	}
	out := *p
	out.CreatedAt = existing.CreatedAt
	out.DealID = existing.DealID
	out.AssessedValue = existing.AssessedValue
	out.MarketValue = existing.MarketValue
	out.LastAssessmentDate = existing.LastAssessmentDate
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.properties[out.ID] = out
	return &out, nil
}

func (r memProperties) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.Delete"); err != nil {
		return false, err
	}
	p, ok := r.s.data.properties[id]
	if !ok || p.OwnerID != owner {
		return false, nil
	}
	delete(r.s.data.properties, id)
	return true, nil
}

func (r memProperties) SetValuation(ctx context.Context, owner, id uuid.UUID, assessed, market *float64, assessedOn *time.Time) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Properties.SetValuation"); err != nil {
		return err
	}
	p, ok := r.s.data.properties[id]
	if !ok || p.OwnerID != owner {
		return nil
	}
	p.AssessedValue, p.MarketValue, p.LastAssessmentDate = assessed, market, assessedOn
	r.s.data.properties[id] = p
	return nil
}

// mill rates

type memMillRates struct{ s *memStore }

func (r memMillRates) scoped(owner, placeID uuid.UUID) []models.MillRateHistory {
	var out []models.MillRateHistory
	for _, e := range r.s.data.millRates {
		if e.OwnerID == owner && e.PlaceID == placeID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (r memMillRates) ListByPlace(ctx context.Context, owner, placeID uuid.UUID) ([]models.MillRateHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.ListByPlace"); err != nil {
		return nil, err
	}
	return r.scoped(owner, placeID), nil
}

func (r memMillRates) Get(ctx context.Context, owner, placeID, id uuid.UUID) (*models.MillRateHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.Get"); err != nil {
		return nil, err
	}
	e, ok := r.s.data.millRates[id]
	if !ok || e.OwnerID != owner || e.PlaceID != placeID {
		return nil, nil
	}
	return &e, nil
}

func (r memMillRates) YearExists(ctx context.Context, owner, placeID uuid.UUID, year int) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.YearExists"); err != nil {
		return false, err
	}
	for _, e := range r.scoped(owner, placeID) {
		if e.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r memMillRates) Create(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.scoped(e.OwnerID, e.PlaceID) {
		if existing.Year == e.Year {
			return nil, repository.ErrDuplicate
		}
	}
	out := *e
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.millRates[out.ID] = out
	return &out, nil
}

func (r memMillRates) Update(ctx context.Context, e *models.MillRateHistory) (*models.MillRateHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.millRates[e.ID]
	if !ok || existing.OwnerID != e.OwnerID || existing.PlaceID != e.PlaceID {
		return nil, nil
	}
	existing.MillRate, existing.Notes = e.MillRate, e.Notes
	stamp(&existing.CreatedAt, &existing.UpdatedAt)
	r.s.data.millRates[e.ID] = existing
	return &existing, nil
}

func (r memMillRates) Delete(ctx context.Context, owner, placeID, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.Delete"); err != nil {
		return false, err
	}
	e, ok := r.s.data.millRates[id]
	if !ok || e.OwnerID != owner || e.PlaceID != placeID {
		return false, nil
	}
	delete(r.s.data.millRates, id)
	return true, nil
}

func (r memMillRates) Latest(ctx context.Context, owner, placeID uuid.UUID) (*models.MillRateHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("MillRates.Latest"); err != nil {
		return nil, err
	}
	entries := r.scoped(owner, placeID)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// valuations

type memValuations struct{ s *memStore }

func (r memValuations) scoped(owner, propertyID uuid.UUID) []models.PropertyValuationHistory {
	var out []models.PropertyValuationHistory
	for _, e := range r.s.data.valuations {
		if e.OwnerID == owner && e.PropertyID == propertyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (r memValuations) ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.PropertyValuationHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.ListByProperty"); err != nil {
		return nil, err
	}
	return r.scoped(owner, propertyID), nil
}

func (r memValuations) Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.PropertyValuationHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.Get"); err != nil {
		return nil, err
	}
	e, ok := r.s.data.valuations[id]
	if !ok || e.OwnerID != owner || e.PropertyID != propertyID {
		return nil, nil
	}
	return &e, nil
}

func (r memValuations) YearExists(ctx context.Context, owner, propertyID uuid.UUID, year int) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.YearExists"); err != nil {
		return false, err
	}
	for _, e := range r.scoped(owner, propertyID) {
		if e.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r memValuations) Create(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.scoped(e.OwnerID, e.PropertyID) {
		if existing.Year == e.Year {
			return nil, repository.ErrDuplicate
		}
	}
	out := *e
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.valuations[out.ID] = out
	return &out, nil
}

func (r memValuations) Update(ctx context.Context, e *models.PropertyValuationHistory) (*models.PropertyValuationHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.valuations[e.ID]
	if !ok || existing.OwnerID != e.OwnerID || existing.PropertyID != e.PropertyID {
		return nil, nil
	}
	existing.AssessedValue, existing.MarketValue = e.AssessedValue, e.MarketValue
	existing.AssessmentDate, existing.AssessmentNotes = e.AssessmentDate, e.AssessmentNotes
	stamp(&existing.CreatedAt, &existing.UpdatedAt)
	r.s.data.valuations[e.ID] = existing
	return &existing, nil
}

func (r memValuations) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.Delete"); err != nil {
		return false, err
	}
	e, ok := r.s.data.valuations[id]
	if !ok || e.OwnerID != owner || e.PropertyID != propertyID {
		return false, nil
	}
	delete(r.s.data.valuations, id)
	return true, nil
}

func (r memValuations) Latest(ctx context.Context, owner, propertyID uuid.UUID) (*models.PropertyValuationHistory, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Valuations.Latest"); err != nil {
		return nil, err
	}
	entries := r.scoped(owner, propertyID)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// tax payments

type memPayments struct{ s *memStore }

func (r memPayments) scoped(owner, propertyID uuid.UUID) []models.TaxPayment {
	var out []models.TaxPayment
	for _, p := range r.s.data.payments {
		if p.OwnerID == owner && p.PropertyID == propertyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (r memPayments) taken(p *models.TaxPayment) bool {
	for _, existing := range r.scoped(p.OwnerID, p.PropertyID) {
		if existing.Year == p.Year && existing.ID != p.ID {
			return true
		}
	}
	return false
}

func (r memPayments) ListByProperty(ctx context.Context, owner, propertyID uuid.UUID) ([]models.TaxPayment, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxPayments.ListByProperty"); err != nil {
		return nil, err
	}
	return r.scoped(owner, propertyID), nil
}

func (r memPayments) Get(ctx context.Context, owner, propertyID, id uuid.UUID) (*models.TaxPayment, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxPayments.Get"); err != nil {
		return nil, err
	}
	p, ok := r.s.data.payments[id]
	if !ok || p.OwnerID != owner || p.PropertyID != propertyID {
		return nil, nil
	}
	return &p, nil
}

func (r memPayments) Create(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxPayments.Create"); err != nil {
		return nil, err
	}
	if r.taken(p) {
		return nil, repository.ErrDuplicate
	}
	out := *p
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.payments[out.ID] = out
	return &out, nil
}

func (r memPayments) Update(ctx context.Context, p *models.TaxPayment) (*models.TaxPayment, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxPayments.Update"); err != nil {
		return nil, err
	}
	existing, ok := r.s.data.payments[p.ID]
	if !ok || existing.OwnerID != p.OwnerID || existing.PropertyID != p.PropertyID {
		return nil, nil
	}
	if r.taken(p) {
		return nil, repository.ErrDuplicate
	}
	out := *p
	out.CreatedAt = existing.CreatedAt
	stamp(&out.CreatedAt, &out.UpdatedAt)
	r.s.data.payments[out.ID] = out
	return &out, nil
}

func (r memPayments) Delete(ctx context.Context, owner, propertyID, id uuid.UUID) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxPayments.Delete"); err != nil {
		return false, err
	}
	p, ok := r.s.data.payments[id]
	if !ok || p.OwnerID != owner || p.PropertyID != propertyID {
		return false, nil
	}
	delete(r.s.data.payments, id)
	return true, nil
}

// tax projections

type memProjections struct{ s *memStore }

func (r memProjections) Properties(ctx context.Context, owner uuid.UUID) ([]models.PropertyTaxProjection, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxProjections.Properties"); err != nil {
		return nil, err
	}
	var out []models.PropertyTaxProjection
	for _, p := range r.s.data.properties {
		if p.OwnerID != owner {
			continue
		}
		row := models.PropertyTaxProjection{
			ID:            p.ID,
			Name:          p.Name,
			City:          p.City,
			State:         p.State,
			AssessedValue: p.AssessedValue,
			TaxProration:  p.TaxProration,
		}
		if p.PlaceID != nil {
			if place, ok := r.s.data.places[*p.PlaceID]; ok {
				name, state := place.Name, place.State
				row.PlaceName, row.PlaceState, row.MillRate = &name, &state, place.MillRate
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memProjections) Deals(ctx context.Context, owner uuid.UUID) ([]models.DealTaxProjection, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("TaxProjections.Deals"); err != nil {
		return nil, err
	}
	var out []models.DealTaxProjection
	for _, d := range r.s.data.deals {
		if d.OwnerID == owner {
			out = append(out, models.DealTaxProjection{
				ID: d.ID, Name: d.Name, City: d.City, State: d.State, StateTaxStamps: d.StateTaxStamps,
			})
		}
	}
	return out, nil
}

// counts returns how many rows of each kind the store holds.
func (s *memStore) counts() (places, people, deals, properties int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.places), len(s.data.people), len(s.data.deals), len(s.data.properties)
}
