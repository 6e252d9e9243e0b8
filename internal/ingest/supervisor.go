package ingest

import (
	"context"
	"log"
	"time"

	"dash-indexer/internal/observability"
)

const (
	// DefaultCleanRetryWait is the pause after a session that ended cleanly.
	DefaultCleanRetryWait = 2 * time.Second
	// DefaultErrorRetryWait is the pause after a session that failed.
	DefaultErrorRetryWait = 5 * time.Second
)

// SessionRunner runs one feed session to completion. A nil return means the
// stream ended cleanly; anything else is a session failure.
type SessionRunner func(ctx context.Context) error

// SupervisorOptions contains configuration for creating a Supervisor.
type SupervisorOptions struct {
	RunSession SessionRunner
	Metrics    *observability.Metrics // optional
	Logger     *log.Logger

	CleanRetryWait time.Duration // Default: 2s
	ErrorRetryWait time.Duration // Default: 5s

	// Sleep is swapped out in tests. Defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration)
}

// Supervisor keeps the feed session running forever. There is no backoff
// escalation: a clean end retries after the short wait, a failure after the
// long one, until the context is cancelled.
type Supervisor struct {
	runSession SessionRunner
	metrics    *observability.Metrics
	logger     *log.Logger

	cleanRetryWait time.Duration
	errorRetryWait time.Duration
	sleep          func(ctx context.Context, d time.Duration)
}

// NewSupervisor creates a new Supervisor.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	cleanRetryWait := opts.CleanRetryWait
	if cleanRetryWait == 0 {
		cleanRetryWait = DefaultCleanRetryWait
	}

	errorRetryWait := opts.ErrorRetryWait
	if errorRetryWait == 0 {
		errorRetryWait = DefaultErrorRetryWait
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	return &Supervisor{
		runSession:     opts.RunSession,
		metrics:        opts.Metrics,
		logger:         logger,
		cleanRetryWait: cleanRetryWait,
		errorRetryWait: errorRetryWait,
		sleep:          sleep,
	}
}

// Run blocks until the context is cancelled, restarting the session after
// every exit. Returns the context's error.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			s.logger.Printf("stream error: %v; backing off %s", err, s.errorRetryWait)
			if s.metrics != nil {
				s.metrics.SessionRestarts.WithLabelValues("error").Inc()
			}
			s.sleep(ctx, s.errorRetryWait)
			continue
		}

		s.logger.Printf("stream ended, restarting in %s", s.cleanRetryWait)
		if s.metrics != nil {
			s.metrics.SessionRestarts.WithLabelValues("clean").Inc()
		}
		s.sleep(ctx, s.cleanRetryWait)
	}
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
