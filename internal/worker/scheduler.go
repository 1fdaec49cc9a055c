package worker

import (
	"time"

	"brevosync/internal/logger"
	"brevosync/internal/sync"
)

// Scheduler triggers the full-store synchronization at a fixed interval.
// Runs are sequential on a single goroutine, so a slow pass simply delays the
// next tick.
type Scheduler struct {
	interval     time.Duration
	logger       *logger.Logger
	synchronizer *sync.Synchronizer
	stop         chan struct{}
}

func NewScheduler(interval time.Duration, logger *logger.Logger, synchronizer *sync.Synchronizer) *Scheduler {
	return &Scheduler{
		interval:     interval,
		logger:       logger,
		synchronizer: synchronizer,
		stop:         make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started, synchronizing every %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) run() {
	results, err := s.synchronizer.SynchronizeAll()
	if err != nil {
		s.logger.Error("Scheduled synchronization aborted: %v", err)
		return
	}

	for _, result := range results {
		switch result.Outcome {
		case sync.OutcomeError:
			s.logger.Error("store %d: %s", result.StoreID, result.Message)
		case sync.OutcomeWarning:
			s.logger.Warn("store %d: %s", result.StoreID, result.Message)
		default:
			s.logger.Info("store %d: %s", result.StoreID, result.Message)
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stop)
}
