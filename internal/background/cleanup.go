package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper drops rate limit state older than the retention period
type Sweeper interface {
	Sweep(retention time.Duration) int
}

// Reloader re-reads content from disk
type Reloader interface {
	Load() error
}

// CleanupConfig holds the intervals for the periodic tasks
type CleanupConfig struct {
	SweepInterval  time.Duration
	Retention      time.Duration
	ReloadInterval time.Duration
}

// CleanupManager periodically sweeps idle rate limit entries and reloads
// site content
type CleanupManager struct {
	limiter  Sweeper
	content  Reloader
	config   CleanupConfig
	logger   *slog.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager. content may be nil, in
// which case only the sweep runs.
func NewCleanupManager(limiter Sweeper, content Reloader, config CleanupConfig, logger *slog.Logger) *CleanupManager {
	return &CleanupManager{
		limiter: limiter,
		content: content,
		config:  config,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start runs the periodic tasks until Stop is called or ctx is cancelled
func (cm *CleanupManager) Start(ctx context.Context) {
	sweepTicker := time.NewTicker(cm.config.SweepInterval)
	defer sweepTicker.Stop()

	// A nil channel never fires, which disables reloading
	var reloadC <-chan time.Time
	if cm.content != nil && cm.config.ReloadInterval > 0 {
		reloadTicker := time.NewTicker(cm.config.ReloadInterval)
		defer reloadTicker.Stop()
		reloadC = reloadTicker.C
	}

	for {
		select {
		case <-sweepTicker.C:
			cm.runSweep()
		case <-reloadC:
			cm.runReload()
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runSweep removes rate limit windows with no recent requests
func (cm *CleanupManager) runSweep() {
	if removed := cm.limiter.Sweep(cm.config.Retention); removed > 0 {
		cm.logger.Debug("rate limit sweep completed", slog.Int("identifiers_removed", removed))
	}
}

// runReload swaps in freshly parsed content; on failure the old content stays live
func (cm *CleanupManager) runReload() {
	if err := cm.content.Load(); err != nil {
		cm.logger.Error("failed to reload content", slog.Any("error", err))
	}
}

// Stop signals the cleanup manager to stop. Safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
