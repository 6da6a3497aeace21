// Package repository implements all database queries for the event admin
// dashboard. It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-admin-dashboard/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `event_id, event_name, organiser_name, reg_fee, total_tickets,
	ticket_sold, ticket_left, buzz_meter, start_date, end_date, status`

func scanEvents(rows pgx.Rows) ([]model.Event, error) {
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.EventID, &e.EventName, &e.OrganiserName, &e.RegFee, &e.TotalTickets,
			&e.TicketSold, &e.TicketLeft, &e.BuzzMeter, &e.StartDate, &e.EndDate, &e.Status,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// escapeLike escapes LIKE metacharacters so user input matches literally
// instead of acting as wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search returns events whose name contains the given substring
// (case-insensitive). An empty search returns all events.
func (r *EventRepository) Search(ctx context.Context, search string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE event_name ILIKE '%' || $1 || '%' ESCAPE '\'
		 ORDER BY start_date DESC`,
		escapeLike(search),
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// TopByBuzz returns the limit highest-buzz events, buzz descending.
// Ties break on event_id so the ranking is deterministic.
func (r *EventRepository) TopByBuzz(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 ORDER BY buzz_meter DESC, event_id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Create inserts a new event and returns it with a generated UUID.
// Ticket counters and status are server-assigned: nothing has been sold yet.
func (r *EventRepository) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		EventID:       uuid.New().String(),
		EventName:     req.EventName,
		OrganiserName: req.OrganiserName,
		RegFee:        req.RegFee,
		TotalTickets:  req.TotalTickets,
		TicketSold:    0,
		TicketLeft:    req.TotalTickets,
		BuzzMeter:     0,
		StartDate:     req.StartDate.UTC(),
		EndDate:       req.EndDate.UTC(),
		Status:        true,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (event_id, event_name, organiser_name, reg_fee, total_tickets,
		                     ticket_sold, ticket_left, buzz_meter, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.EventID, event.EventName, event.OrganiserName, event.RegFee, event.TotalTickets,
		event.TicketSold, event.TicketLeft, event.BuzzMeter, event.StartDate, event.EndDate, event.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// Delete removes an event by id, returning ErrNotFound when no row matched.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UserRepository handles persistence for users.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, name, gender, email, phone_number, user_type FROM users`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Gender, &u.Email, &u.PhoneNumber, &u.UserType); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByType groups users by participant category, one entry per category
// actually present. No ordering is guaranteed beyond key uniqueness.
func (r *UserRepository) CountByType(ctx context.Context) ([]model.ParticipantTypeCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_type, COUNT(*) FROM users GROUP BY user_type`,
	)
	if err != nil {
		return nil, fmt.Errorf("count users by type: %w", err)
	}
	defer rows.Close()

	counts := make([]model.ParticipantTypeCount, 0)
	for rows.Next() {
		var c model.ParticipantTypeCount
		if err := rows.Scan(&c.UserType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan user type count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// List returns all registrations ordered by registration time descending.
func (r *RegistrationRepository) List(ctx context.Context) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT reg_id, payment_status, payment_mode, reg_date, user_id, event_id
		 FROM registrations
		 ORDER BY reg_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.RegID, &reg.PaymentStatus, &reg.PaymentMode, &reg.RegDate, &reg.UserID, &reg.EventID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// PaidDates returns the registration timestamps of all paid registrations.
// The caller buckets them by calendar date.
func (r *RegistrationRepository) PaidDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT reg_date FROM registrations WHERE payment_status = TRUE`,
	)
	if err != nil {
		return nil, fmt.Errorf("list paid registration dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan registration date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// FinanceRepository handles the finance ledger.
type FinanceRepository struct {
	db *pgxpool.Pool
}

// NewFinanceRepository constructs a FinanceRepository.
func NewFinanceRepository(db *pgxpool.Pool) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// Totals sums every cost and revenue column across the whole ledger in a
// single aggregate query. There is intentionally no per-event, date-range,
// or status filter.
func (r *FinanceRepository) Totals(ctx context.Context) (model.FinanceTotals, error) {
	var t model.FinanceTotals
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(p_cost), 0),
		        COALESCE(SUM(h_cost), 0),
		        COALESCE(SUM(g_cost), 0),
		        COALESCE(SUM(t_cost), 0),
		        COALESCE(SUM(prize_pool), 0),
		        COALESCE(SUM(s_got), 0),
		        COALESCE(SUM(ticket_profit), 0)
		 FROM finance`,
	).Scan(
		&t.PurchaseCost, &t.HallRental, &t.GuestCost, &t.TransportCost,
		&t.PrizePool, &t.Sponsorship, &t.TicketProfit,
	)
	if err != nil {
		return model.FinanceTotals{}, fmt.Errorf("sum finance columns: %w", err)
	}
	return t, nil
}
