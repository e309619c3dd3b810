// Package scheduler runs periodic database maintenance in the background.
package scheduler

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/carpenike/liftplan/internal/models"
)

// Status holds the result of the last maintenance run.
type Status struct {
	LastRun        time.Time
	NextRun        time.Time
	SessionsPruned int64
	IntervalHours  int
	RetentionDays  int
}

// Scheduler runs periodic maintenance tasks in the background.
type Scheduler struct {
	db            *sql.DB
	intervalHours int
	retentionDays int
	stop          chan struct{}
	done          chan struct{}

	mu     sync.RWMutex
	status Status
}

// New creates a Scheduler that prunes skipped sessions older than
// retentionDays every intervalHours.
func New(db *sql.DB, intervalHours, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		intervalHours: intervalHours,
		retentionDays: retentionDays,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start begins running maintenance tasks. It runs an initial pass immediately,
// then repeats at the configured interval. Call Stop to shut down gracefully.
func (s *Scheduler) Start() {
	go s.run()
	log.Println("Background scheduler started")
}

// Stop signals the scheduler to shut down and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// Status returns the result of the last maintenance run.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) run() {
	defer close(s.done)

	// Run immediately on startup, then at the configured interval.
	s.RunMaintenance()

	interval := time.Duration(s.intervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunMaintenance()
		case <-s.stop:
			return
		}
	}
}

// RunMaintenance executes one maintenance pass: prune old skipped sessions,
// then compact the database.
func (s *Scheduler) RunMaintenance() {
	log.Println("Running scheduled maintenance...")

	pruned := s.pruneSkippedSessions()
	s.optimize()

	now := time.Now()
	s.mu.Lock()
	s.status = Status{
		LastRun:        now,
		NextRun:        now.Add(time.Duration(s.intervalHours) * time.Hour),
		SessionsPruned: pruned,
		IntervalHours:  s.intervalHours,
		RetentionDays:  s.retentionDays,
	}
	s.mu.Unlock()

	log.Println("Scheduled maintenance complete")
}

// pruneSkippedSessions removes skipped sessions older than the retention
// period. They carry no set logs and never feed history or progression.
func (s *Scheduler) pruneSkippedSessions() int64 {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays).Format(time.RFC3339)
	pruned, err := models.PruneSkippedSessions(s.db, cutoff)
	if err != nil {
		log.Printf("Maintenance: prune skipped sessions: %v", err)
		return 0
	}
	if pruned > 0 {
		log.Printf("Maintenance: pruned %d skipped session(s)", pruned)
	}
	return pruned
}

// optimize refreshes the query planner's statistics and checkpoints the WAL.
func (s *Scheduler) optimize() {
	if _, err := s.db.Exec("PRAGMA optimize"); err != nil {
		log.Printf("Maintenance: optimize: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		log.Printf("Maintenance: wal checkpoint: %v", err)
	}
}
