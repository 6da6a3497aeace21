// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-admin-dashboard/internal/cache"
	"event-admin-dashboard/internal/metrics"
	"event-admin-dashboard/internal/model"

	"golang.org/x/sync/errgroup"
)

// popularEventLimit is how many events the dashboard ranks by buzz.
const popularEventLimit = 10

// ErrInvalid marks a request rejected by validation. Handlers answer it with
// 400 and may show its message; any other error is a store failure they must
// log and hide behind a generic 500.
var ErrInvalid = errors.New("invalid request")

// The dashboard facade receives narrow read-only capabilities rather than
// whole repositories: each extractor can only run the one query it needs.

// EventRanker supplies the top events by buzz score.
type EventRanker interface {
	TopByBuzz(ctx context.Context, limit int) ([]model.Event, error)
}

// PaidDateLister supplies the timestamps of paid registrations.
type PaidDateLister interface {
	PaidDates(ctx context.Context) ([]time.Time, error)
}

// FinanceSummer supplies the ledger column totals.
type FinanceSummer interface {
	Totals(ctx context.Context) (model.FinanceTotals, error)
}

// ParticipantCounter supplies user counts grouped by participant type.
type ParticipantCounter interface {
	CountByType(ctx context.Context) ([]model.ParticipantTypeCount, error)
}

// DashboardService assembles the aggregate dashboard payload.
type DashboardService struct {
	events        EventRanker
	registrations PaidDateLister
	finance       FinanceSummer
	participants  ParticipantCounter
}

// NewDashboardService constructs a DashboardService with its dependencies.
func NewDashboardService(
	events EventRanker,
	registrations PaidDateLister,
	finance FinanceSummer,
	participants ParticipantCounter,
) *DashboardService {
	return &DashboardService{
		events:        events,
		registrations: registrations,
		finance:       finance,
		participants:  participants,
	}
}

// Metrics runs the four extractor queries concurrently and assembles the
// dashboard payload. The queries are independent and read-only; if any one
// fails the whole call fails — partial payloads are never returned.
//
// The financial breakdowns include every category, substituting 0 for
// missing sums, so the charts always render all slices.
func (s *DashboardService) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	var (
		popular []model.Event
		paid    []time.Time
		totals  model.FinanceTotals
		byType  []model.ParticipantTypeCount
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		popular, err = s.events.TopByBuzz(ctx, popularEventLimit)
		return err
	})
	g.Go(func() (err error) {
		paid, err = s.registrations.PaidDates(ctx)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.finance.Totals(ctx)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.participants.CountByType(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	return &model.DashboardMetrics{
		PopularEvents:       popular,
		RegistrationSummary: metrics.BuildRegistrationSeries(paid),
		ExpenseBreakdown:    metrics.ExpenseBreakdown(totals, true),
		RevenueBreakdown:    metrics.RevenueBreakdown(totals, true),
		FormattedCounts:     byType,
	}, nil
}

// RegistrationSummaryView is the derived view of the registration series for
// one timeframe: re-bucketed points with per-point change, the overall
// first-versus-last trend, the peak bucket, and the regrouped participant
// counts. OverallChange is null with fewer than two buckets; PeakPeriod is
// null for an empty series.
type RegistrationSummaryView struct {
	Timeframe          metrics.Timeframe         `json:"timeframe"`
	Points             []metrics.TrendPoint      `json:"points"`
	TotalRegistrations int                       `json:"totalRegistrations"`
	OverallChange      *float64                  `json:"overallChange"`
	PeakPeriod         *model.SummaryPoint       `json:"peakPeriod"`
	Participants       metrics.ParticipantGroups `json:"participants"`
}

// Summary recomputes the derived registration metrics for the requested
// timeframe. Like Metrics, it is recomputed from the store on every call;
// nothing is cached between requests.
func (s *DashboardService) Summary(ctx context.Context, tf metrics.Timeframe) (*RegistrationSummaryView, error) {
	var (
		paid   []time.Time
		byType []model.ParticipantTypeCount
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		paid, err = s.registrations.PaidDates(ctx)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.participants.CountByType(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("registration summary: %w", err)
	}

	points := metrics.Rebucket(metrics.BuildRegistrationSeries(paid), tf)

	total := 0
	for _, p := range points {
		total += p.Count
	}

	view := &RegistrationSummaryView{
		Timeframe:          tf,
		Points:             metrics.WithChange(points),
		TotalRegistrations: total,
		OverallChange:      metrics.OverallChange(points),
		Participants:       metrics.RegroupParticipants(byType),
	}
	if peak, ok := metrics.Peak(points); ok {
		view.PeakPeriod = &peak
	}
	return view, nil
}

// EventStore is the persistence surface the event service needs.
type EventStore interface {
	Search(ctx context.Context, search string) ([]model.Event, error)
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService orchestrates event CRUD operations.
type EventService struct {
	events EventStore
	cache  *cache.Cache
}

// NewEventService constructs an EventService. The cache may be nil.
func NewEventService(events EventStore, c *cache.Cache) *EventService {
	return &EventService{events: events, cache: c}
}

// Search lists events, optionally filtered by a case-insensitive name
// substring. Only the unfiltered listing is served from cache.
func (s *EventService) Search(ctx context.Context, search string) ([]model.Event, error) {
	search = strings.TrimSpace(search)

	if search == "" {
		var cached []model.Event
		if s.cache.GetJSON(ctx, cache.KeyEvents, &cached) {
			return cached, nil
		}
	}

	events, err := s.events.Search(ctx, search)
	if err != nil {
		return nil, err
	}

	if search == "" {
		s.cache.SetJSON(ctx, cache.KeyEvents, events)
	}
	return events, nil
}

// Create validates the request and delegates to the repository. The server
// assigns the id, zeroes the sold counter and buzz score, and marks the
// event active.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.EventName = strings.TrimSpace(req.EventName)
	req.OrganiserName = strings.TrimSpace(req.OrganiserName)
	if req.EventName == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalid)
	}
	if req.OrganiserName == "" {
		return nil, fmt.Errorf("%w: organiser name is required", ErrInvalid)
	}
	if req.RegFee < 0 {
		return nil, fmt.Errorf("%w: registration fee cannot be negative", ErrInvalid)
	}
	if req.TotalTickets <= 0 {
		return nil, fmt.Errorf("%w: total tickets must be a positive integer", ErrInvalid)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalid)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date cannot be before start date", ErrInvalid)
	}

	event, err := s.events.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.KeyEvents)
	return event, nil
}

// Delete removes an event by id. Unknown ids surface as
// repository.ErrNotFound so handlers can answer 404.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalid)
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.KeyEvents)
	return nil
}

// UserLister supplies the full user listing.
type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// RegistrationLister supplies the full registration listing.
type RegistrationLister interface {
	List(ctx context.Context) ([]model.Registration, error)
}

// DirectoryService serves the plain user and registration listings, backed
// by the short-TTL cache when one is configured.
type DirectoryService struct {
	users         UserLister
	registrations RegistrationLister
	cache         *cache.Cache
}

// NewDirectoryService constructs a DirectoryService. The cache may be nil.
func NewDirectoryService(users UserLister, registrations RegistrationLister, c *cache.Cache) *DirectoryService {
	return &DirectoryService{users: users, registrations: registrations, cache: c}
}

// Users lists all users.
func (s *DirectoryService) Users(ctx context.Context) ([]model.User, error) {
	var cached []model.User
	if s.cache.GetJSON(ctx, cache.KeyUsers, &cached) {
		return cached, nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.KeyUsers, users)
	return users, nil
}

// Registrations lists all registrations.
func (s *DirectoryService) Registrations(ctx context.Context) ([]model.Registration, error) {
	var cached []model.Registration
	if s.cache.GetJSON(ctx, cache.KeyRegistrations, &cached) {
		return cached, nil
	}
	regs, err := s.registrations.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.KeyRegistrations, regs)
	return regs, nil
}

// FinanceService serves the dedicated financial breakdown endpoint.
type FinanceService struct {
	finance FinanceSummer
}

// NewFinanceService constructs a FinanceService.
func NewFinanceService(finance FinanceSummer) *FinanceService {
	return &FinanceService{finance: finance}
}

// Breakdown sums the ledger and renders the named categories, dropping any
// category whose total is not strictly positive. This differs deliberately
// from the dashboard payload, which keeps zero categories; see DESIGN.md.
func (s *FinanceService) Breakdown(ctx context.Context) (*model.FinanceBreakdown, error) {
	totals, err := s.finance.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("finance breakdown: %w", err)
	}
	return &model.FinanceBreakdown{
		Expenditure: metrics.ExpenseBreakdown(totals, false),
		Revenue:     metrics.RevenueBreakdown(totals, false),
	}, nil
}
