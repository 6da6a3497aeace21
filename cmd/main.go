// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-admin-dashboard/internal/cache"
	"event-admin-dashboard/internal/database"
	"event-admin-dashboard/internal/handler"
	"event-admin-dashboard/internal/repository"
	"event-admin-dashboard/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	migrateCmd := flag.Bool("migrate", false, "Run database migration and exit")
	seedCmd := flag.Bool("seed", false, "Seed demo data (idempotent) and exit")
	flag.Parse()

	// Load environment variables from .env file when present.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	ctx := context.Background()

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to PostgreSQL")

	if *migrateCmd || *seedCmd {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migration completed")
		if *seedCmd {
			if err := database.SeedDemoData(ctx, pool); err != nil {
				log.Fatalf("seeding demo data failed: %v", err)
			}
			log.Println("demo data seeded")
		}
		os.Exit(0)
	}

	// ── 2. Optional Redis cache for the list endpoints ────────────────────
	listCache, err := cache.New(ctx)
	if err != nil {
		log.Printf("redis unavailable, running without list cache: %v", err)
		listCache = nil
	} else {
		defer listCache.Close()
		log.Println("connected to Redis")
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	financeRepo := repository.NewFinanceRepository(pool)

	dashboardSvc := service.NewDashboardService(eventRepo, regRepo, financeRepo, userRepo)
	eventSvc := service.NewEventService(eventRepo, listCache)
	directorySvc := service.NewDirectoryService(userRepo, regRepo, listCache)
	financeSvc := service.NewFinanceService(financeRepo)

	api := handler.NewAPI(dashboardSvc, eventSvc, directorySvc, financeSvc, pool)

	// ── 4. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for the dashboard client

	// Health
	r.Get("/health", api.HealthCheck)

	// API routes
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", api.GetDashboard)
		r.Get("/summary", api.GetDashboardSummary)
	})
	r.Route("/events", func(r chi.Router) {
		r.Get("/", api.ListEvents)
		r.Post("/", api.CreateEvent)
		r.Delete("/{id}", api.DeleteEvent)
	})
	r.Get("/user", api.ListUsers)
	r.Get("/registration", api.ListRegistrations)
	r.Get("/finance", api.GetFinanceBreakdown)

	// ── 5. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
