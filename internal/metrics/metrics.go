// Package metrics contains the pure report-building functions behind the
// dashboard: the registration time series, the financial category
// breakdowns, and the derived trend calculations. Nothing in this package
// touches the database; everything is a projection of rows already fetched.
package metrics

import (
	"sort"
	"time"

	"event-admin-dashboard/internal/model"
)

// dateLayout is the calendar-date form used for all series bucket keys.
const dateLayout = "2006-01-02"

// BuildRegistrationSeries buckets paid-registration timestamps by UTC
// calendar date and returns one point per distinct date, sorted ascending.
// Dates without registrations are absent: the series is sparse and callers
// must not assume contiguous daily coverage.
func BuildRegistrationSeries(paidDates []time.Time) []model.SummaryPoint {
	countsByDate := make(map[string]int)
	for _, d := range paidDates {
		countsByDate[d.UTC().Format(dateLayout)]++
	}

	series := make([]model.SummaryPoint, 0, len(countsByDate))
	for date, count := range countsByDate {
		series = append(series, model.SummaryPoint{Date: date, Count: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// Expense and revenue category names as shown on the dashboard charts.
const (
	CategoryPurchaseCost = "Purchase Cost"
	CategoryHallRental   = "Hall Rental Cost"
	CategoryGuestCost    = "Guest Cost"
	CategoryTransport    = "Transport Cost"
	CategoryPrizePool    = "Prize Pool"
	CategorySponsorship  = "Sponsorship"
	CategoryTicketProfit = "Ticket Profit"
)

// ExpenseBreakdown renders the five expense totals as named categories.
// With includeZero, every category is present (zero totals included); without
// it, categories whose total is not strictly positive are dropped. The
// dashboard payload uses the former so charts always show all slices; the
// dedicated finance endpoint uses the latter.
func ExpenseBreakdown(t model.FinanceTotals, includeZero bool) []model.CategoryEntry {
	entries := []model.CategoryEntry{
		{Name: CategoryPurchaseCost, Value: t.PurchaseCost},
		{Name: CategoryHallRental, Value: t.HallRental},
		{Name: CategoryGuestCost, Value: t.GuestCost},
		{Name: CategoryTransport, Value: t.TransportCost},
		{Name: CategoryPrizePool, Value: t.PrizePool},
	}
	if includeZero {
		return entries
	}
	return filterPositive(entries)
}

// RevenueBreakdown renders the two revenue totals as named categories,
// with the same zero policy as ExpenseBreakdown.
func RevenueBreakdown(t model.FinanceTotals, includeZero bool) []model.CategoryEntry {
	entries := []model.CategoryEntry{
		{Name: CategorySponsorship, Value: t.Sponsorship},
		{Name: CategoryTicketProfit, Value: t.TicketProfit},
	}
	if includeZero {
		return entries
	}
	return filterPositive(entries)
}

func filterPositive(entries []model.CategoryEntry) []model.CategoryEntry {
	out := make([]model.CategoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Value > 0 {
			out = append(out, e)
		}
	}
	return out
}
