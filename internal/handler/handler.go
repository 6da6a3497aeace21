// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"event-admin-dashboard/internal/metrics"
	"event-admin-dashboard/internal/model"
	"event-admin-dashboard/internal/repository"
	"event-admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
)

// API holds all HTTP handlers for the admin dashboard service.
type API struct {
	dashboard *service.DashboardService
	events    *service.EventService
	directory *service.DirectoryService
	finance   *service.FinanceService
	pinger    Pinger
}

// Pinger is the liveness probe the health endpoint runs against the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewAPI constructs the handler set.
func NewAPI(
	dashboard *service.DashboardService,
	events *service.EventService,
	directory *service.DirectoryService,
	finance *service.FinanceService,
	pinger Pinger,
) *API {
	return &API{
		dashboard: dashboard,
		events:    events,
		directory: directory,
		finance:   finance,
		pinger:    pinger,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

// GetDashboard handles GET /dashboard
// Returns the full aggregation payload. Any failing sub-query fails the
// whole request; partial payloads are never served.
func (a *API) GetDashboard(w http.ResponseWriter, r *http.Request) {
	payload, err := a.dashboard.Metrics(r.Context())
	if err != nil {
		log.Printf("dashboard metrics: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving dashboard metrics")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// GetDashboardSummary handles GET /dashboard/summary?timeframe=daily|weekly|monthly
// Returns the registration series re-bucketed to the requested timeframe
// with trend annotations and regrouped participant counts.
func (a *API) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	tf, err := metrics.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := a.dashboard.Summary(r.Context(), tf)
	if err != nil {
		log.Printf("dashboard summary: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving registration summary")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /events?search=
// Returns all events, optionally filtered by a case-insensitive name
// substring.
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		log.Printf("list events: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving events")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /events
// Creates a new event; the server assigns the id and ticket counters.
func (a *API) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := a.events.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("create event: %v", err)
		writeError(w, http.StatusInternalServerError, "error creating event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// DeleteEvent handles DELETE /events/{id}
// Removes an event by id, answering 404 for unknown ids.
func (a *API) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.events.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		if errors.Is(err, service.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("delete event %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "error deleting event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Users & registrations ────────────────────────────────────────────────────

// ListUsers handles GET /user
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.directory.Users(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ListRegistrations handles GET /registration
func (a *API) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := a.directory.Registrations(r.Context())
	if err != nil {
		log.Printf("list registrations: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving registrations")
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// ─── Finance ──────────────────────────────────────────────────────────────────

// GetFinanceBreakdown handles GET /finance
// Returns the aggregate expenditure and revenue categories, omitting
// categories with no positive total.
func (a *API) GetFinanceBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := a.finance.Breakdown(r.Context())
	if err != nil {
		log.Printf("finance breakdown: %v", err)
		writeError(w, http.StatusInternalServerError, "error retrieving financial breakdown")
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		if err := a.pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
