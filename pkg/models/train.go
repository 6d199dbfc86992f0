package models

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTrainDelay is how long the training illusion takes.
	DefaultTrainDelay = 1500 * time.Millisecond

	// DefaultTrainStagger separates the start of each kind in TrainAll.
	DefaultTrainStagger = 800 * time.Millisecond
)

// ErrTrainingPending is returned by Task.Result before the task completes.
var ErrTrainingPending = errors.New("training pending")

// TrainingResult is the outcome of a completed training task.
type TrainingResult struct {
	Kind     Kind          `json:"kind"`
	Metrics  Metrics       `json:"metrics"`
	Duration time.Duration `json:"duration"`
}

// Task is a pending simulated training run. It resolves exactly once, either
// with fabricated metrics after the delay or with the cancellation error.
type Task struct {
	kind        Kind
	startedAt   time.Time
	completesAt time.Time
	done        chan struct{}
	cancel      context.CancelFunc

	result TrainingResult
	err    error
}

// Kind returns the kind being trained.
func (t *Task) Kind() Kind { return t.kind }

// StartedAt returns when the task was started.
func (t *Task) StartedAt() time.Time { return t.startedAt }

// CompletesAt returns the scheduled completion time.
func (t *Task) CompletesAt() time.Time { return t.completesAt }

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel aborts the task if it has not completed yet.
func (t *Task) Cancel() { t.cancel() }

// Result returns the outcome, or ErrTrainingPending if the task is still running.
func (t *Task) Result() (TrainingResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	default:
		return TrainingResult{}, ErrTrainingPending
	}
}

// Wait blocks until the task resolves or ctx is done. Giving up on ctx does
// not cancel the task.
func (t *Task) Wait(ctx context.Context) (TrainingResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return TrainingResult{}, ctx.Err()
	}
}

// Trainer runs simulated training tasks against a Registry.
type Trainer struct {
	registry *Registry
	delay    time.Duration
	stagger  time.Duration
	logger   *slog.Logger
}

// NewTrainer creates a trainer. Non-positive durations fall back to
// DefaultTrainDelay; a negative stagger falls back to DefaultTrainStagger.
func NewTrainer(registry *Registry, delay, stagger time.Duration, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultTrainDelay
	}
	if stagger < 0 {
		stagger = DefaultTrainStagger
	}

	return &Trainer{
		registry: registry,
		delay:    delay,
		stagger:  stagger,
		logger:   logger,
	}
}

// Delay returns the simulated training duration.
func (tr *Trainer) Delay() time.Duration { return tr.delay }

// Train starts a simulated training run for k. No optimization takes place:
// after the delay the registry marks k trained with metrics sampled from its
// ranges. Cancelling ctx or the task before then leaves the registry as is.
func (tr *Trainer) Train(ctx context.Context, k Kind) (*Task, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(k))
	}

	ctx, cancel := context.WithCancel(ctx)
	now := time.Now()
	t := &Task{
		kind:        k,
		startedAt:   now,
		completesAt: now.Add(tr.delay),
		done:        make(chan struct{}),
		cancel:      cancel,
	}

	tr.logger.Debug("training started", "model", k, "delay", tr.delay)

	go tr.run(ctx, t)

	return t, nil
}

func (tr *Trainer) run(ctx context.Context, t *Task) {
	defer close(t.done)
	defer t.cancel()

	timer := time.NewTimer(tr.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		t.err = ctx.Err()
		tr.logger.Debug("training canceled", "model", t.kind, "error", t.err)
		return
	case <-timer.C:
	}

	m := sampleMetrics(t.kind.Coefficients().Ranges, tr.registry.rng)
	finished := time.Now()
	tr.registry.markTrained(t.kind, m, finished)

	t.result = TrainingResult{
		Kind:     t.kind,
		Metrics:  m,
		Duration: finished.Sub(t.startedAt),
	}

	tr.logger.Debug("training completed",
		"model", t.kind,
		"rmse", m.RMSE,
		"mae", m.MAE,
		"mape", m.MAPE,
	)
}

// StartFunc starts training k and returns its task.
type StartFunc func(k Kind) (*Task, error)

// TrainAll trains every kind, starting each one stagger after the previous,
// and waits for all of them. The first failure cancels the rest.
func (tr *Trainer) TrainAll(ctx context.Context) (map[Kind]TrainingResult, error) {
	return tr.TrainAllWith(ctx, func(k Kind) (*Task, error) {
		return tr.Train(ctx, k)
	})
}

// TrainAllWith is TrainAll with tasks obtained from start, which may hand back
// a task that is already running. Once ctx is done or any task fails, kinds
// not yet started are skipped and the tasks already started are canceled.
func (tr *Trainer) TrainAllWith(ctx context.Context, start StartFunc) (map[Kind]TrainingResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[Kind]TrainingResult, len(Kinds))

	for i, k := range Kinds {
		offset := time.Duration(i) * tr.stagger
		g.Go(func() error {
			if offset > 0 {
				timer := time.NewTimer(offset)
				select {
				case <-gctx.Done():
					timer.Stop()
					return gctx.Err()
				case <-timer.C:
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			task, err := start(k)
			if err != nil {
				return err
			}
			res, err := task.Wait(gctx)
			if err != nil {
				task.Cancel()
				return fmt.Errorf("train %s: %w", k, err)
			}

			mu.Lock()
			results[k] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func sampleMetrics(r MetricRanges, rng Source) Metrics {
	return Metrics{
		RMSE: r.RMSE.Min + rng.Float64()*r.RMSE.Span,
		MAE:  r.MAE.Min + rng.Float64()*r.MAE.Span,
		MAPE: r.MAPE.Min + rng.Float64()*r.MAPE.Span,
	}
}
