package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/carpenike/liftplan/internal/database"
	"github.com/carpenike/liftplan/internal/handlers"
	"github.com/carpenike/liftplan/internal/middleware"
	"github.com/carpenike/liftplan/internal/notify"
	"github.com/carpenike/liftplan/internal/scheduler"
)

func main() {
	// Local overrides from .env, ignored when absent.
	_ = godotenv.Load()

	dbPath := envDefault("LIFTPLAN_DB_PATH", "liftplan.db")
	addr := envDefault("LIFTPLAN_ADDR", ":8080")
	userEmail := envDefault("LIFTPLAN_USER_EMAIL", "local@user")
	notifyURLs := os.Getenv("LIFTPLAN_NOTIFY_URLS")
	maintenanceHours := envInt("LIFTPLAN_MAINTENANCE_HOURS", 24)
	retentionDays := envInt("LIFTPLAN_RETENTION_DAYS", 90)

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Database ready: %s", filepath.Clean(dbPath))

	seeded, err := database.SeedExercisesIfEmpty(db)
	if err != nil {
		log.Fatalf("Failed to seed exercise library: %v", err)
	}
	if seeded {
		log.Println("Seeded exercise library")
	}

	if err := database.EnsureDefaultUser(db, userEmail, 2.5); err != nil {
		log.Fatalf("Failed to ensure default user: %v", err)
	}

	notifier := notify.New(notifyURLs)
	if notifier.Enabled() {
		log.Println("Notifications enabled")
	}

	questionnaires := &handlers.Questionnaires{DB: db, Notifier: notifier}
	plans := &handlers.Plans{DB: db, Notifier: notifier}
	workouts := &handlers.Workouts{DB: db, Notifier: notifier}
	exercises := &handlers.Exercises{DB: db}
	progression := &handlers.Progression{DB: db}
	backups := &handlers.Backups{DB: db}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", handleHealth)

	r.Post("/questionnaire", questionnaires.Create)

	r.Post("/plans/generate", plans.Generate)
	r.Get("/plans/{planID}", plans.Show)
	r.Get("/plans/{planID}/export.pdf", plans.ExportPDF)
	r.Get("/plans/{planID}/swap-options", plans.SwapOptions)
	r.Patch("/plans/{planID}/swap", plans.Swap)

	r.Post("/workouts", workouts.Create)
	r.Post("/workouts/sessions", workouts.StartSession)
	r.Get("/workouts/sessions", workouts.List)
	r.Post("/workouts/sessions/import", workouts.Import)
	r.Get("/workouts/autofill", workouts.Autofill)

	r.Get("/exercises", exercises.List)
	r.Get("/exercises/{exerciseID}/history", exercises.History)

	r.Get("/progression/recommendations", progression.Recommendations)

	r.Get("/backup", backups.Dump)

	sched := scheduler.New(db, maintenanceHours, retentionDays)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("liftplan listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func envDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", name, v, fallback)
		return fallback
	}
	return n
}
