package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-admin-dashboard/internal/metrics"
	"event-admin-dashboard/internal/model"
	"event-admin-dashboard/internal/repository"
)

// fakeStore implements every narrow store interface the services consume,
// so one fixture drives all facade tests.
type fakeStore struct {
	events     []model.Event
	paid       []time.Time
	totals     model.FinanceTotals
	byType     []model.ParticipantTypeCount
	eventsErr  error
	paidErr    error
	totalsErr  error
	byTypeErr  error
	topLimit   int
	created    []model.CreateEventRequest
	deletedIDs []string
	deleteErr  error
}

func (f *fakeStore) TopByBuzz(ctx context.Context, limit int) ([]model.Event, error) {
	f.topLimit = limit
	return f.events, f.eventsErr
}

func (f *fakeStore) PaidDates(ctx context.Context) ([]time.Time, error) {
	return f.paid, f.paidErr
}

func (f *fakeStore) Totals(ctx context.Context) (model.FinanceTotals, error) {
	return f.totals, f.totalsErr
}

func (f *fakeStore) CountByType(ctx context.Context) ([]model.ParticipantTypeCount, error) {
	return f.byType, f.byTypeErr
}

func (f *fakeStore) Search(ctx context.Context, search string) ([]model.Event, error) {
	return f.events, f.eventsErr
}

func (f *fakeStore) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	f.created = append(f.created, req)
	return &model.Event{
		EventID:      "generated-id",
		EventName:    req.EventName,
		TotalTickets: req.TotalTickets,
		TicketLeft:   req.TotalTickets,
		Status:       true,
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

func newDashboard(f *fakeStore) *DashboardService {
	return NewDashboardService(f, f, f, f)
}

func TestDashboardMetrics(t *testing.T) {
	store := &fakeStore{
		events: []model.Event{{EventID: "e1", EventName: "Tech Symposium", BuzzMeter: 5}},
		paid: []time.Time{
			time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 1, 11, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC),
		},
		totals: model.FinanceTotals{PurchaseCost: 1000, Sponsorship: 8000},
		byType: []model.ParticipantTypeCount{{UserType: model.UserTypeInternal, Count: 4}},
	}

	payload, err := newDashboard(store).Metrics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.topLimit != 10 {
		t.Errorf("popular events limit: got %d, want 10", store.topLimit)
	}
	if len(payload.PopularEvents) != 1 || payload.PopularEvents[0].EventID != "e1" {
		t.Errorf("popular events: got %v", payload.PopularEvents)
	}

	wantSeries := []model.SummaryPoint{
		{Date: "2024-01-01", Count: 2},
		{Date: "2024-01-03", Count: 1},
	}
	if len(payload.RegistrationSummary) != 2 {
		t.Fatalf("series: got %v, want %v", payload.RegistrationSummary, wantSeries)
	}
	for i, p := range payload.RegistrationSummary {
		if p != wantSeries[i] {
			t.Errorf("series point %d: got %+v, want %+v", i, p, wantSeries[i])
		}
	}

	// The dashboard keeps zero categories so the charts render all slices.
	if len(payload.ExpenseBreakdown) != 5 {
		t.Errorf("expense breakdown: got %d categories, want all 5", len(payload.ExpenseBreakdown))
	}
	if len(payload.RevenueBreakdown) != 2 {
		t.Errorf("revenue breakdown: got %d categories, want both", len(payload.RevenueBreakdown))
	}

	if len(payload.FormattedCounts) != 1 || payload.FormattedCounts[0].Count != 4 {
		t.Errorf("participant counts: got %v", payload.FormattedCounts)
	}
}

// A failing sub-query must fail the whole payload; the facade never returns
// a partial result.
func TestDashboardMetricsFailsAtomically(t *testing.T) {
	queryErr := errors.New("connection reset")
	stores := []*fakeStore{
		{eventsErr: queryErr},
		{paidErr: queryErr},
		{totalsErr: queryErr},
		{byTypeErr: queryErr},
	}
	for i, store := range stores {
		payload, err := newDashboard(store).Metrics(context.Background())
		if err == nil {
			t.Errorf("store %d: expected error, got payload %+v", i, payload)
			continue
		}
		if !errors.Is(err, queryErr) {
			t.Errorf("store %d: error should wrap the query failure, got %v", i, err)
		}
		if payload != nil {
			t.Errorf("store %d: partial payload returned alongside error", i)
		}
	}
}

func TestDashboardSummary(t *testing.T) {
	store := &fakeStore{
		paid: []time.Time{
			// Mon 2024-01-01 and Wed 2024-01-03 share the Sunday-start week
			// of 2023-12-31; Sun 2024-01-07 starts the next week.
			time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 3, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 7, 8, 0, 0, 0, time.UTC),
		},
		byType: []model.ParticipantTypeCount{
			{UserType: model.UserTypeIndividual, Count: 3},
			{UserType: model.UserTypeInternal, Count: 7},
			{UserType: model.UserTypeSchool, Count: 2},
		},
	}

	view, err := newDashboard(store).Summary(context.Background(), metrics.TimeframeWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Timeframe != metrics.TimeframeWeekly {
		t.Errorf("timeframe: got %s", view.Timeframe)
	}
	if len(view.Points) != 2 {
		t.Fatalf("weekly buckets: got %v", view.Points)
	}
	if view.Points[0].Date != "2023-12-31" || view.Points[0].Count != 3 {
		t.Errorf("first bucket: got %+v", view.Points[0])
	}
	if view.TotalRegistrations != 4 {
		t.Errorf("total: got %d, want 4", view.TotalRegistrations)
	}
	if view.Points[0].Change != nil {
		t.Errorf("first bucket should carry no change")
	}
	if view.OverallChange == nil {
		t.Fatal("overall change missing with two buckets")
	}
	if view.PeakPeriod == nil || view.PeakPeriod.Date != "2023-12-31" {
		t.Errorf("peak: got %+v", view.PeakPeriod)
	}
	if view.Participants.Internal != 7 || view.Participants.External != 5 {
		t.Errorf("participants: got %+v", view.Participants)
	}
}

func TestDashboardSummaryEmptySeries(t *testing.T) {
	view, err := newDashboard(&fakeStore{}).Summary(context.Background(), metrics.TimeframeDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.OverallChange != nil {
		t.Errorf("overall change should be nil for empty series")
	}
	if view.PeakPeriod != nil {
		t.Errorf("peak should be nil for empty series")
	}
	if view.TotalRegistrations != 0 {
		t.Errorf("total: got %d", view.TotalRegistrations)
	}
}

func TestEventServiceCreateValidation(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	valid := model.CreateEventRequest{
		EventName:     "Hackathon",
		OrganiserName: "CS Club",
		RegFee:        100,
		TotalTickets:  50,
		StartDate:     start,
		EndDate:       end,
	}

	tests := []struct {
		name    string
		mutate  func(*model.CreateEventRequest)
		wantErr bool
	}{
		{"valid request", func(r *model.CreateEventRequest) {}, false},
		{"blank name", func(r *model.CreateEventRequest) { r.EventName = "  " }, true},
		{"blank organiser", func(r *model.CreateEventRequest) { r.OrganiserName = "" }, true},
		{"negative fee", func(r *model.CreateEventRequest) { r.RegFee = -1 }, true},
		{"zero tickets", func(r *model.CreateEventRequest) { r.TotalTickets = 0 }, true},
		{"missing dates", func(r *model.CreateEventRequest) { r.StartDate = time.Time{} }, true},
		{"end before start", func(r *model.CreateEventRequest) { r.EndDate = start.AddDate(0, 0, -1) }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewEventService(store, nil)
			req := valid
			tc.mutate(&req)

			event, err := svc.Create(context.Background(), req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("validation failure should carry ErrInvalid, got %v", err)
				}
				if len(store.created) != 0 {
					t.Error("invalid request reached the repository")
				}
				return
			}
			if event.TicketSold != 0 || event.TicketLeft != req.TotalTickets || !event.Status {
				t.Errorf("server-assigned fields wrong: %+v", event)
			}
		})
	}
}

func TestEventServiceDeleteNotFound(t *testing.T) {
	store := &fakeStore{deleteErr: repository.ErrNotFound}
	svc := NewEventService(store, nil)

	err := svc.Delete(context.Background(), "missing-id")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFinanceBreakdownFiltersNonPositive(t *testing.T) {
	store := &fakeStore{
		totals: model.FinanceTotals{
			PurchaseCost: 500,
			TicketProfit: 900,
			// all other columns zero
		},
	}

	breakdown, err := NewFinanceService(store).Breakdown(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(breakdown.Expenditure) != 1 || breakdown.Expenditure[0].Name != metrics.CategoryPurchaseCost {
		t.Errorf("expenditure: got %v", breakdown.Expenditure)
	}
	if len(breakdown.Revenue) != 1 || breakdown.Revenue[0].Name != metrics.CategoryTicketProfit {
		t.Errorf("revenue: got %v", breakdown.Revenue)
	}
}

func TestDirectoryServiceListsWithoutCache(t *testing.T) {
	svc := NewDirectoryService(userListerFunc(func(ctx context.Context) ([]model.User, error) {
		return []model.User{{UserID: "u1", UserType: model.UserTypeSchool, PhoneNumber: 919812345001}}, nil
	}), regListerFunc(func(ctx context.Context) ([]model.Registration, error) {
		return nil, nil
	}), nil)

	users, err := svc.Users(context.Background())
	if err != nil || len(users) != 1 {
		t.Fatalf("users: got %v, err %v", users, err)
	}
	if _, err := svc.Registrations(context.Background()); err != nil {
		t.Fatalf("registrations: %v", err)
	}
}

type userListerFunc func(ctx context.Context) ([]model.User, error)

func (f userListerFunc) List(ctx context.Context) ([]model.User, error) { return f(ctx) }

type regListerFunc func(ctx context.Context) ([]model.Registration, error)

func (f regListerFunc) List(ctx context.Context) ([]model.Registration, error) { return f(ctx) }
