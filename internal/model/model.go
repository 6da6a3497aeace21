// Package model defines the core domain types for the event admin dashboard.
package model

import "time"

// UserType is the participant category a user belongs to.
type UserType string

// Known participant categories.
const (
	UserTypeIndividual   UserType = "individual"
	UserTypeInternal     UserType = "internal"
	UserTypeSchool       UserType = "school"
	UserTypeProfessional UserType = "professional"
)

// Event represents an event managed through the admin dashboard.
// The CRUD path maintains TicketLeft = TotalTickets - TicketSold.
type Event struct {
	EventID       string    `json:"eventId"`
	EventName     string    `json:"eventName"`
	OrganiserName string    `json:"organiserName"`
	RegFee        float64   `json:"regFee"`
	TotalTickets  int       `json:"totalTickets"`
	TicketSold    int       `json:"ticketSold"`
	TicketLeft    int       `json:"ticketLeft"`
	BuzzMeter     int       `json:"buzzMeter"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        bool      `json:"status"`
}

// User represents a registered participant.
//
// PhoneNumber is stored as a 64-bit integer but serialized as a JSON string:
// phone numbers can exceed JavaScript's safe-integer range, so the string
// form is the wire contract.
type User struct {
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender"`
	Email       string   `json:"email"`
	PhoneNumber int64    `json:"phoneNumber,string"`
	UserType    UserType `json:"userType"`
}

// Registration links one user to one event.
type Registration struct {
	RegID         string    `json:"regId"`
	PaymentStatus bool      `json:"paymentStatus"`
	PaymentMode   string    `json:"paymentMode"`
	RegDate       time.Time `json:"regDate"`
	UserID        string    `json:"userId"`
	EventID       string    `json:"eventId"`
}

// FinanceRecord is one ledger row. Cost and revenue columns are summed
// across all rows for the aggregate views; there is no per-event scoping.
type FinanceRecord struct {
	FinanceID    string  `json:"financeId"`
	PCost        float64 `json:"pCost"`
	HCost        float64 `json:"hCost"`
	GCost        float64 `json:"gCost"`
	TCost        float64 `json:"tCost"`
	PrizePool    float64 `json:"prizePool"`
	SGot         float64 `json:"sGot"`
	TicketProfit float64 `json:"ticketProfit"`
}

// FinanceTotals holds the column sums produced by a single aggregate query
// over the finance table.
type FinanceTotals struct {
	PurchaseCost  float64
	HallRental    float64
	GuestCost     float64
	TransportCost float64
	PrizePool     float64
	Sponsorship   float64
	TicketProfit  float64
}

// SummaryPoint is one date bucket of the registration time series.
// Date is a calendar date in "2006-01-02" form (UTC). Dates with zero paid
// registrations are absent, so the series is sparse.
type SummaryPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryEntry is a named cost or revenue total.
type CategoryEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ParticipantTypeCount is the number of users of one participant category.
type ParticipantTypeCount struct {
	UserType UserType `json:"userType"`
	Count    int      `json:"count"`
}

// DashboardMetrics is the full aggregation payload served by GET /dashboard.
type DashboardMetrics struct {
	PopularEvents       []Event                `json:"popularEvents"`
	RegistrationSummary []SummaryPoint         `json:"registrationSummary"`
	ExpenseBreakdown    []CategoryEntry        `json:"expenseBreakdown"`
	RevenueBreakdown    []CategoryEntry        `json:"revenueBreakdown"`
	FormattedCounts     []ParticipantTypeCount `json:"formattedCounts"`
}

// FinanceBreakdown is the envelope served by GET /finance.
type FinanceBreakdown struct {
	Expenditure []CategoryEntry `json:"expenditure"`
	Revenue     []CategoryEntry `json:"revenue"`
}

// CreateEventRequest is the payload for creating a new event. The server
// assigns the id and the derived ticket counters.
type CreateEventRequest struct {
	EventName     string    `json:"eventName"`
	OrganiserName string    `json:"organiserName"`
	RegFee        float64   `json:"regFee"`
	TotalTickets  int       `json:"totalTickets"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
