package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/models"
	"github.com/stwalsh4118/landbook/internal/repository"
	"golang.org/x/sync/errgroup"
)

// UnknownRegion labels a property or deal with no usable state or place.
const UnknownRegion = "Unknown"

// Where the mill rate of a tax-history year came from.
const (
	MillRateFromHistory = "history"
	MillRateFromCurrent = "current"
)

var mills = decimal.NewFromInt(1000)

// EstimateAnnualTax returns assessed * millRate / 1000 rounded to cents, or
// nil when either input is missing. Mill rates are dollars per $1,000 of
// assessed value.
func EstimateAnnualTax(assessed, millRate *float64) *float64 {
	if assessed == nil || millRate == nil {
		return nil
	}
	tax := estimate(*assessed, *millRate).InexactFloat64()
	return &tax
}

func estimate(assessed, millRate float64) decimal.Decimal {
	return decimal.NewFromFloat(assessed).
		Mul(decimal.NewFromFloat(millRate)).
		Div(mills).
		Round(2)
}

// PropertyTaxEstimate is one property's line in the portfolio summary.
type PropertyTaxEstimate struct {
	City                 *string   `json:"city,omitempty"`
	State                *string   `json:"state,omitempty"`
	PlaceName            *string   `json:"placeName,omitempty"`
	MillRate             *float64  `json:"millRate,omitempty"`
	AssessedValue        *float64  `json:"assessedValue,omitempty"`
	TaxProration         *float64  `json:"taxProration,omitempty"`
	EstimatedAnnualTaxes *float64  `json:"estimatedAnnualTaxes,omitempty"`
	Name                 string    `json:"name"`
	ID                   uuid.UUID `json:"id"`
}

// TaxSummary holds the portfolio-wide totals.
type TaxSummary struct {
	TotalProperties           int     `json:"totalProperties"`
	PropertiesWithTaxData     int     `json:"propertiesWithTaxData"`
	DealsWithTaxData          int     `json:"dealsWithTaxData"`
	TotalEstimatedAnnualTaxes float64 `json:"totalEstimatedAnnualTaxes"`
	TotalStateTaxStamps       float64 `json:"totalStateTaxStamps"`
	TotalTaxProration         float64 `json:"totalTaxProration"`
	AverageEstimatedTaxes     float64 `json:"averageEstimatedTaxes"`
}

// RegionTotals accumulates counts and sums for one region.
type RegionTotals struct {
	PropertyCount        int     `json:"propertyCount"`
	DealCount            int     `json:"dealCount"`
	EstimatedAnnualTaxes float64 `json:"estimatedAnnualTaxes"`
	StateTaxStamps       float64 `json:"stateTaxStamps"`
	TaxProration         float64 `json:"taxProration"`
}

// PlaceTaxGroup is the breakdown for one place within a state.
type PlaceTaxGroup struct {
	PlaceName string `json:"placeName"`
	RegionTotals
}

// StateTaxGroup is the breakdown for one state.
type StateTaxGroup struct {
	State string `json:"state"`
	RegionTotals
	Places []PlaceTaxGroup `json:"places"`
}

// PortfolioTaxSummary is the owner-wide tax report.
type PortfolioTaxSummary struct {
	Summary           TaxSummary            `json:"summary"`
	PropertiesByState []StateTaxGroup       `json:"propertiesByState"`
	Properties        []PropertyTaxEstimate `json:"properties"`
}

// TaxYear is one year of a property's tax history. Difference is the amount
// paid minus the estimate, present only when both are known.
type TaxYear struct {
	AssessedValue  *float64 `json:"assessedValue,omitempty"`
	MillRate       *float64 `json:"millRate,omitempty"`
	MillRateSource string   `json:"millRateSource,omitempty"`
	EstimatedTax   *float64 `json:"estimatedTax,omitempty"`
	AmountPaid     *float64 `json:"amountPaid,omitempty"`
	Difference     *float64 `json:"difference,omitempty"`
	Year           int      `json:"year"`
}

// PropertyTaxHistory lines up a property's assessments, its place's mill
// rates and its payments by year, newest first.
type PropertyTaxHistory struct {
	PlaceID             *uuid.UUID `json:"placeId,omitempty"`
	CurrentMillRate     *float64   `json:"currentMillRate,omitempty"`
	CurrentEstimatedTax *float64   `json:"currentEstimatedTax,omitempty"`
	Years               []TaxYear  `json:"years"`
	PropertyID          uuid.UUID  `json:"propertyId"`
}

// TaxService computes tax estimates and reports.
type TaxService interface {
	PortfolioSummary(ctx context.Context, owner uuid.UUID) (*PortfolioTaxSummary, error)
	PropertyTaxHistory(ctx context.Context, owner, propertyID uuid.UUID) (*PropertyTaxHistory, error)
}

type taxService struct {
	store repository.Store
	log   *logger.Logger
}

// NewTaxService creates a new instance of TaxService.
func NewTaxService(store repository.Store, log *logger.Logger) TaxService {
	return &taxService{store: store, log: log}
}

func (s *taxService) PortfolioSummary(ctx context.Context, owner uuid.UUID) (*PortfolioTaxSummary, error) {
	var properties []models.PropertyTaxProjection
	var deals []models.DealTaxProjection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		properties, err = s.store.TaxProjections().Properties(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		deals, err = s.store.TaxProjections().Deals(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load tax data", err, nil)
		return nil, fmt.Errorf("failed to compute tax summary: %w", err)
	}

	summary := Summarize(properties, deals)
	s.log.Debug("Computed portfolio tax summary", map[string]interface{}{
		"properties": summary.Summary.TotalProperties,
		"with_data":  summary.Summary.PropertiesWithTaxData,
	})
	return summary, nil
}

// Summarize aggregates property and deal projections into the portfolio
// report. It is pure so the arithmetic can be tested without a store.
func Summarize(properties []models.PropertyTaxProjection, deals []models.DealTaxProjection) *PortfolioTaxSummary {
	var totals totals
	regions := newRegionIndex()
	estimates := make([]PropertyTaxEstimate, 0, len(properties))

	for _, p := range properties {
		line := PropertyTaxEstimate{
			ID:                   p.ID,
			Name:                 p.Name,
			City:                 p.City,
			State:                p.State,
			PlaceName:            p.PlaceName,
			MillRate:             p.MillRate,
			AssessedValue:        p.AssessedValue,
			TaxProration:         p.TaxProration,
			EstimatedAnnualTaxes: EstimateAnnualTax(p.AssessedValue, p.MillRate),
		}
		estimates = append(estimates, line)

		region := regions.get(firstNonBlank(p.State, p.PlaceState), firstNonBlank(p.PlaceName, p.City))
		region.properties++
		totals.properties++

		if line.EstimatedAnnualTaxes != nil || p.TaxProration != nil {
			totals.withData++
		}
		if p.AssessedValue != nil && p.MillRate != nil {
			tax := estimate(*p.AssessedValue, *p.MillRate)
			totals.estimated = totals.estimated.Add(tax)
			region.estimated = region.estimated.Add(tax)
		}
		if p.TaxProration != nil {
			proration := decimal.NewFromFloat(*p.TaxProration)
			totals.proration = totals.proration.Add(proration)
			region.proration = region.proration.Add(proration)
		}
	}

	for _, d := range deals {
		if d.StateTaxStamps == nil {
			continue
		}
		stamps := decimal.NewFromFloat(*d.StateTaxStamps)
		region := regions.get(firstNonBlank(d.State), firstNonBlank(d.City))
		region.deals++
		region.stamps = region.stamps.Add(stamps)
		totals.dealsWithData++
		totals.stamps = totals.stamps.Add(stamps)
	}

	return &PortfolioTaxSummary{
		Summary:           totals.summary(),
		PropertiesByState: regions.groups(),
		Properties:        estimates,
	}
}

type totals struct {
	properties    int
	withData      int
	dealsWithData int
	estimated     decimal.Decimal
	stamps        decimal.Decimal
	proration     decimal.Decimal
}

func (t totals) summary() TaxSummary {
	average := decimal.Zero
	if t.withData > 0 {
		average = t.estimated.Div(decimal.NewFromInt(int64(t.withData))).Round(2)
	}
	return TaxSummary{
		TotalProperties:           t.properties,
		PropertiesWithTaxData:     t.withData,
		DealsWithTaxData:          t.dealsWithData,
		TotalEstimatedAnnualTaxes: t.estimated.Round(2).InexactFloat64(),
		TotalStateTaxStamps:       t.stamps.Round(2).InexactFloat64(),
		TotalTaxProration:         t.proration.Round(2).InexactFloat64(),
		AverageEstimatedTaxes:     average.InexactFloat64(),
	}
}

type regionAcc struct {
	properties int
	deals      int
	estimated  decimal.Decimal
	stamps     decimal.Decimal
	proration  decimal.Decimal
}

func (a *regionAcc) add(b *regionAcc) {
	a.properties += b.properties
	a.deals += b.deals
	a.estimated = a.estimated.Add(b.estimated)
	a.stamps = a.stamps.Add(b.stamps)
	a.proration = a.proration.Add(b.proration)
}

func (a *regionAcc) totals() RegionTotals {
	return RegionTotals{
		PropertyCount:        a.properties,
		DealCount:            a.deals,
		EstimatedAnnualTaxes: a.estimated.Round(2).InexactFloat64(),
		StateTaxStamps:       a.stamps.Round(2).InexactFloat64(),
		TaxProration:         a.proration.Round(2).InexactFloat64(),
	}
}

// regionIndex groups accumulators by state then place, creating either
// level on first use.
type regionIndex map[string]map[string]*regionAcc

func newRegionIndex() regionIndex {
	return make(regionIndex)
}

func (ri regionIndex) get(state, place string) *regionAcc {
	places, ok := ri[state]
	if !ok {
		places = make(map[string]*regionAcc)
		ri[state] = places
	}
	acc, ok := places[place]
	if !ok {
		acc = &regionAcc{}
		places[place] = acc
	}
	return acc
}

func (ri regionIndex) groups() []StateTaxGroup {
	states := make([]string, 0, len(ri))
	for state := range ri {
		states = append(states, state)
	}
	sort.Strings(states)

	groups := make([]StateTaxGroup, 0, len(states))
	for _, state := range states {
		names := make([]string, 0, len(ri[state]))
		for name := range ri[state] {
			names = append(names, name)
		}
		sort.Strings(names)

		var stateAcc regionAcc
		places := make([]PlaceTaxGroup, 0, len(names))
		for _, name := range names {
			acc := ri[state][name]
			stateAcc.add(acc)
			places = append(places, PlaceTaxGroup{PlaceName: name, RegionTotals: acc.totals()})
		}
		groups = append(groups, StateTaxGroup{State: state, RegionTotals: stateAcc.totals(), Places: places})
	}
	return groups
}

func firstNonBlank(values ...*string) string {
	for _, v := range values {
		if !blank(v) {
			return strings.TrimSpace(*v)
		}
	}
	return UnknownRegion
}

func (s *taxService) PropertyTaxHistory(ctx context.Context, owner, propertyID uuid.UUID) (*PropertyTaxHistory, error) {
	property, err := s.store.Properties().Get(ctx, owner, propertyID)
	if err != nil {
		s.log.Error("Failed to get property", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to load tax history: %w", err)
	}
	if property == nil {
		return nil, notFound("property")
	}

	var (
		valuations []models.PropertyValuationHistory
		payments   []models.TaxPayment
		place      *models.Place
		rates      []models.MillRateHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		valuations, err = s.store.Valuations().ListByProperty(gctx, owner, propertyID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.TaxPayments().ListByProperty(gctx, owner, propertyID)
		return err
	})
	if property.PlaceID != nil {
		placeID := *property.PlaceID
		g.Go(func() error {
			var err error
			place, err = s.store.Places().Get(gctx, owner, placeID)
			return err
		})
		g.Go(func() error {
			var err error
			rates, err = s.store.MillRates().ListByPlace(gctx, owner, placeID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load tax history", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to load tax history: %w", err)
	}

	history := &PropertyTaxHistory{
		PropertyID: propertyID,
		PlaceID:    property.PlaceID,
	}
	if place != nil {
		history.CurrentMillRate = place.MillRate
	}
	history.CurrentEstimatedTax = EstimateAnnualTax(property.AssessedValue, history.CurrentMillRate)
	history.Years = taxYears(valuations, payments, rates, history.CurrentMillRate)
	return history, nil
}

// taxYears builds one row per year that has a valuation or a payment. A year
// without its own mill rate entry falls back to the place's current rate.
func taxYears(valuations []models.PropertyValuationHistory, payments []models.TaxPayment, rates []models.MillRateHistory, current *float64) []TaxYear {
	byYear := make(map[int]*TaxYear)
	row := func(year int) *TaxYear {
		if r, ok := byYear[year]; ok {
			return r
		}
		r := &TaxYear{Year: year}
		byYear[year] = r
		return r
	}

	for _, v := range valuations {
		row(v.Year).AssessedValue = v.AssessedValue
	}
	for _, p := range payments {
		amount := p.Amount
		row(p.Year).AmountPaid = &amount
	}

	rateByYear := make(map[int]float64, len(rates))
	for _, r := range rates {
		rateByYear[r.Year] = r.MillRate
	}

	years := make([]TaxYear, 0, len(byYear))
	for year, r := range byYear {
		if rate, ok := rateByYear[year]; ok {
			r.MillRate = &rate
			r.MillRateSource = MillRateFromHistory
		} else if current != nil {
			rate := *current
			r.MillRate = &rate
			r.MillRateSource = MillRateFromCurrent
		}
		r.EstimatedTax = EstimateAnnualTax(r.AssessedValue, r.MillRate)
		if r.EstimatedTax != nil && r.AmountPaid != nil {
			diff := decimal.NewFromFloat(*r.AmountPaid).
				Sub(decimal.NewFromFloat(*r.EstimatedTax)).
				Round(2).
				InexactFloat64()
			r.Difference = &diff
		}
		years = append(years, *r)
	}

	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })
	return years
}
