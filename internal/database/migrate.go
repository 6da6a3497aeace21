package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the five tables consumed by the dashboard. Idempotent.
const schema = `
	CREATE TABLE IF NOT EXISTS events (
		event_id       UUID PRIMARY KEY,
		event_name     VARCHAR(255) NOT NULL,
		organiser_name VARCHAR(255) NOT NULL,
		reg_fee        DECIMAL(10,2) NOT NULL DEFAULT 0,
		total_tickets  INTEGER NOT NULL,
		ticket_sold    INTEGER NOT NULL DEFAULT 0,
		ticket_left    INTEGER NOT NULL,
		buzz_meter     INTEGER NOT NULL DEFAULT 0,
		start_date     TIMESTAMPTZ NOT NULL,
		end_date       TIMESTAMPTZ NOT NULL,
		status         BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS users (
		user_id      UUID PRIMARY KEY,
		name         VARCHAR(255) NOT NULL,
		gender       VARCHAR(20) NOT NULL,
		email        VARCHAR(255) NOT NULL,
		phone_number BIGINT NOT NULL DEFAULT 0,
		user_type    VARCHAR(20) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS registrations (
		reg_id         UUID PRIMARY KEY,
		payment_status BOOLEAN NOT NULL DEFAULT FALSE,
		payment_mode   VARCHAR(50) NOT NULL DEFAULT '',
		reg_date       TIMESTAMPTZ NOT NULL,
		user_id        UUID NOT NULL REFERENCES users(user_id),
		event_id       UUID NOT NULL REFERENCES events(event_id)
	);

	CREATE TABLE IF NOT EXISTS finance (
		finance_id    UUID PRIMARY KEY,
		p_cost        DECIMAL(12,2) NOT NULL DEFAULT 0,
		h_cost        DECIMAL(12,2) NOT NULL DEFAULT 0,
		g_cost        DECIMAL(12,2) NOT NULL DEFAULT 0,
		t_cost        DECIMAL(12,2) NOT NULL DEFAULT 0,
		prize_pool    DECIMAL(12,2) NOT NULL DEFAULT 0,
		s_got         DECIMAL(12,2) NOT NULL DEFAULT 0,
		ticket_profit DECIMAL(12,2) NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_events_buzz ON events (buzz_meter DESC);
	CREATE INDEX IF NOT EXISTS idx_registrations_paid ON registrations (payment_status, reg_date);
	CREATE INDEX IF NOT EXISTS idx_users_type ON users (user_type);
`

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SeedDemoData loads a small demo dataset so the dashboard has something to
// show on a fresh database. Skips seeding when events already exist.
func SeedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()

	type demoEvent struct {
		name, organiser string
		fee             float64
		tickets, sold   int
		buzz            int
	}
	demoEvents := []demoEvent{
		{"Tech Symposium", "CS Department", 150, 500, 320, 5},
		{"Cultural Night", "Student Union", 50, 1200, 900, 4},
		{"Robotics Workshop", "Robotics Club", 200, 100, 45, 3},
		{"Alumni Meet", "Alumni Office", 0, 300, 180, 2},
	}

	eventIDs := make([]string, 0, len(demoEvents))
	for i, e := range demoEvents {
		id := uuid.New().String()
		eventIDs = append(eventIDs, id)
		_, err := pool.Exec(ctx,
			`INSERT INTO events (event_id, event_name, organiser_name, reg_fee, total_tickets,
			                     ticket_sold, ticket_left, buzz_meter, start_date, end_date, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			id, e.name, e.organiser, e.fee, e.tickets,
			e.sold, e.tickets-e.sold, e.buzz,
			now.AddDate(0, 0, 7*(i+1)), now.AddDate(0, 0, 7*(i+1)+2), true,
		)
		if err != nil {
			return fmt.Errorf("seed event %q: %w", e.name, err)
		}
	}

	type demoUser struct {
		name, gender, email string
		phone               int64
		utype               string
	}
	demoUsers := []demoUser{
		{"Asha Rao", "Female", "asha@example.com", 919812345001, "individual"},
		{"Vikram Shetty", "Male", "vikram@example.com", 919812345002, "internal"},
		{"Meera Nair", "Female", "meera@example.com", 919812345003, "school"},
		{"Rahul Patil", "Male", "rahul@example.com", 919812345004, "professional"},
		{"Divya Kulkarni", "Female", "divya@example.com", 919812345005, "internal"},
		{"Sanjay Hegde", "Male", "sanjay@example.com", 919812345006, "individual"},
	}

	userIDs := make([]string, 0, len(demoUsers))
	for _, u := range demoUsers {
		id := uuid.New().String()
		userIDs = append(userIDs, id)
		_, err := pool.Exec(ctx,
			`INSERT INTO users (user_id, name, gender, email, phone_number, user_type)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, u.name, u.gender, u.email, u.phone, u.utype,
		)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.name, err)
		}
	}

	// Paid registrations spread over the last two weeks, plus one unpaid
	// row that must not appear in the registration summary.
	modes := []string{"upi", "card", "cash"}
	for i := 0; i < 12; i++ {
		_, err := pool.Exec(ctx,
			`INSERT INTO registrations (reg_id, payment_status, payment_mode, reg_date, user_id, event_id)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), true, modes[i%len(modes)],
			now.AddDate(0, 0, -(i%14)),
			userIDs[i%len(userIDs)], eventIDs[i%len(eventIDs)],
		)
		if err != nil {
			return fmt.Errorf("seed registration: %w", err)
		}
	}
	_, err := pool.Exec(ctx,
		`INSERT INTO registrations (reg_id, payment_status, payment_mode, reg_date, user_id, event_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), false, "upi", now, userIDs[0], eventIDs[0],
	)
	if err != nil {
		return fmt.Errorf("seed unpaid registration: %w", err)
	}

	finance := [][7]float64{
		{12000, 30000, 8000, 5000, 15000, 60000, 48000},
		{4000, 0, 2500, 1800, 0, 20000, 9500},
	}
	for _, f := range finance {
		_, err := pool.Exec(ctx,
			`INSERT INTO finance (finance_id, p_cost, h_cost, g_cost, t_cost, prize_pool, s_got, ticket_profit)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New().String(), f[0], f[1], f[2], f[3], f[4], f[5], f[6],
		)
		if err != nil {
			return fmt.Errorf("seed finance row: %w", err)
		}
	}

	return nil
}
