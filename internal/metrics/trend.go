package metrics

import (
	"fmt"
	"sort"
	"time"

	"event-admin-dashboard/internal/model"
)

// Timeframe selects the bucketing granularity for the registration series.
type Timeframe string

// Supported timeframes.
const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ParseTimeframe validates a timeframe string. An empty value defaults
// to daily.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly:
		return Timeframe(s), nil
	case "":
		return TimeframeDaily, nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// Rebucket regroups a daily series into the given timeframe. Weekly buckets
// are keyed by the Sunday starting the week containing the date; monthly
// buckets by the first day of the month. Counts of all points falling in the
// same bucket are summed, and the result is sorted ascending by bucket date.
// Daily input is returned as-is.
//
// Points whose date does not parse are skipped; the series only ever carries
// dates produced by BuildRegistrationSeries.
func Rebucket(points []model.SummaryPoint, tf Timeframe) []model.SummaryPoint {
	if tf == TimeframeDaily {
		return points
	}

	summed := make(map[string]int)
	for _, p := range points {
		d, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			continue
		}
		var key string
		switch tf {
		case TimeframeWeekly:
			key = d.AddDate(0, 0, -int(d.Weekday())).Format(dateLayout)
		case TimeframeMonthly:
			key = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		}
		summed[key] += p.Count
	}

	out := make([]model.SummaryPoint, 0, len(summed))
	for date, count := range summed {
		out = append(out, model.SummaryPoint{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TrendPoint is a series point annotated with its percentage change versus
// the previous point. Change is nil for the first point, which has no
// previous period to compare against.
type TrendPoint struct {
	model.SummaryPoint
	Change *float64 `json:"change"`
}

// percentChange applies the shared zero rule: a jump from zero to a positive
// count reads as +100%, zero to zero as 0%.
func percentChange(prev, cur int) float64 {
	if prev > 0 {
		return float64(cur-prev) / float64(prev) * 100
	}
	if cur > 0 {
		return 100
	}
	return 0
}

// WithChange annotates each point with its change versus the previous point.
func WithChange(points []model.SummaryPoint) []TrendPoint {
	out := make([]TrendPoint, len(points))
	for i, p := range points {
		out[i] = TrendPoint{SummaryPoint: p}
		if i > 0 {
			change := percentChange(points[i-1].Count, p.Count)
			out[i].Change = &change
		}
	}
	return out
}

// OverallChange compares the last bucket against the first bucket (not
// adjacent periods). It needs at least two buckets; otherwise no trend is
// defined and nil is returned.
func OverallChange(points []model.SummaryPoint) *float64 {
	if len(points) < 2 {
		return nil
	}
	change := percentChange(points[0].Count, points[len(points)-1].Count)
	return &change
}

// Peak returns the bucket with the highest count. Ties resolve to the first
// bucket reaching the maximum. ok is false for an empty series.
func Peak(points []model.SummaryPoint) (peak model.SummaryPoint, ok bool) {
	if len(points) == 0 {
		return model.SummaryPoint{}, false
	}
	peak = points[0]
	for _, p := range points[1:] {
		if p.Count > peak.Count {
			peak = p
		}
	}
	return peak, true
}

// ParticipantGroups partitions participant counts into internal staff versus
// everyone else, keeping a per-category breakdown of the external group for
// the hover detail view.
type ParticipantGroups struct {
	Internal          int            `json:"internal"`
	External          int            `json:"external"`
	ExternalBreakdown map[string]int `json:"externalBreakdown"`
}

// RegroupParticipants sums every non-internal category into External and
// records its composition keyed by capitalized category name. All three
// external keys are always present, zero-filled, so the detail view has a
// stable shape.
func RegroupParticipants(counts []model.ParticipantTypeCount) ParticipantGroups {
	groups := ParticipantGroups{
		ExternalBreakdown: map[string]int{
			"School":       0,
			"Individual":   0,
			"Professional": 0,
		},
	}
	for _, c := range counts {
		if c.UserType == model.UserTypeInternal {
			groups.Internal += c.Count
			continue
		}
		groups.External += c.Count
		key := capitalize(string(c.UserType))
		if _, known := groups.ExternalBreakdown[key]; known {
			groups.ExternalBreakdown[key] += c.Count
		}
	}
	return groups
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
