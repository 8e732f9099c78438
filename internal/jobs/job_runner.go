package jobs

import (
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"matchbot-backend/internal/config"
	"matchbot-backend/internal/logger"
	"matchbot-backend/internal/repository/postgres"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db     *sql.DB
	store  *postgres.Store
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:     db,
		store:  store,
		config: cfg,
	}
}

// Config exposes the runner's configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. Each run gets
// its own id so log lines from concurrent runs can be told apart.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(log *slog.Logger)) {
	runID := uuid.NewString()
	log := logger.With("job", jobName, "run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Info("Starting job")
	jobFunc(log)
	log.Info("Job completed")
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.CloseExpiredEvents()
	jr.ExpireStaleRequests()
}
