// Package scheduler provides the timer that drives the monitoring cycles.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CycleFunc is one run of a monitoring cycle.
type CycleFunc func(ctx context.Context) error

// IntervalTriggerConfig holds configuration for an interval trigger
type IntervalTriggerConfig struct {
	// Name identifies the trigger in logs
	Name string

	// Interval is the delay between consecutive runs
	Interval time.Duration

	// RunOnStart runs the cycle once immediately instead of waiting a full
	// interval first
	RunOnStart bool
}

// Validate checks the trigger configuration
func (c IntervalTriggerConfig) Validate() error {
	if c.Name == "" {
		return errors.New("scheduler: trigger name is required")
	}
	if c.Interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}
	return nil
}

// IntervalTrigger invokes a cycle function on a fixed interval. Runs never
// overlap: a tick that arrives while the previous run is still going waits
// for the next one.
type IntervalTrigger struct {
	config IntervalTriggerConfig
	run    CycleFunc
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, run CycleFunc, logger *zap.Logger) (*IntervalTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &IntervalTrigger{
		config: config,
		run:    run,
		logger: logger,
	}, nil
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("interval trigger started",
		zap.String("trigger", t.config.Name),
		zap.Duration("interval", t.config.Interval),
		zap.Bool("run_on_start", t.config.RunOnStart),
	)
	return nil
}

// Stop stops the trigger and waits for an in-flight run to finish
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("interval trigger stopped", zap.String("trigger", t.config.Name))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.runOnce(ctx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t *IntervalTrigger) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	log := t.logger.With(
		zap.String("trigger", t.config.Name),
		zap.String("run_id", uuid.NewString()),
	)

	start := time.Now()
	if err := t.run(ctx); err != nil {
		log.Error("cycle run failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	log.Debug("cycle run finished", zap.Duration("elapsed", time.Since(start)))
}
