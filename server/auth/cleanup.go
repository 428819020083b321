package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/akuaasantewaa/fitta/store"
)

// DefaultCleanupInterval is the default interval between cleanup runs.
const DefaultCleanupInterval = time.Hour

// CleanupJob periodically deletes expired session records so that the
// durable store does not accumulate dead tokens.
type CleanupJob struct {
	store    Store
	interval time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewCleanupJob creates a cleanup job for expired sessions.
func NewCleanupJob(st Store, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupJob{
		store:    st,
		interval: interval,
	}
}

// Start begins the periodic cleanup in a goroutine. Non-blocking.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})

	go j.run(ctx)

	slog.Info("session cleanup job started", "interval", j.interval)
}

// Stop stops the cleanup job.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	close(j.stopChan)
	j.running = false

	slog.Info("session cleanup job stopped")
}

// RunOnce executes a single cleanup run immediately.
func (j *CleanupJob) RunOnce(ctx context.Context) (int64, error) {
	return j.cleanup(ctx)
}

// IsRunning reports whether the cleanup job is currently running.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *CleanupJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run immediately on start.
	if deleted, err := j.cleanup(ctx); err != nil {
		slog.Error("initial session cleanup failed", "error", err)
	} else if deleted > 0 {
		slog.Info("initial session cleanup completed", "deleted", deleted)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stopChan:
			return
		case <-ticker.C:
			if deleted, err := j.cleanup(ctx); err != nil {
				slog.Error("session cleanup failed", "error", err)
			} else if deleted > 0 {
				slog.Info("session cleanup completed", "deleted", deleted)
			}
		}
	}
}

func (j *CleanupJob) cleanup(ctx context.Context) (int64, error) {
	now := time.Now().Unix()
	return j.store.DeleteUserSession(ctx, &store.DeleteUserSession{ExpiredBefore: &now})
}
