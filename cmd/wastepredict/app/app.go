// Package app holds the wastepredict application state and the operations
// the HTTP layer exposes.
//
// App is the controller boundary: every failure is logged, counted, and
// appended to the activity log before being returned, and none of them stop
// the service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/HatiCode/wastepredict/cmd/wastepredict/metrics"
	"github.com/HatiCode/wastepredict/pkg/dataset"
	"github.com/HatiCode/wastepredict/pkg/models"
	"github.com/HatiCode/wastepredict/pkg/stats"
	"github.com/HatiCode/wastepredict/pkg/storage"
	"github.com/HatiCode/wastepredict/pkg/theme"
)

// ErrNotTraining is returned when cancelling a kind with no pending task.
var ErrNotTraining = errors.New("no training in progress")

// Options configures an App.
type Options struct {
	Profile      dataset.Profile
	StartYear    int
	Months       int
	Seed         uint64
	TrainDelay   time.Duration
	TrainStagger time.Duration
	ActivitySize int
}

// App is the application controller. It is safe for concurrent use.
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	gen    *dataset.Generator
	months int
	data   dataset.Dataset

	registry *models.Registry
	trainer  *models.Trainer
	pending  map[models.Kind]*tracked
	watchers sync.WaitGroup

	theme    *theme.Manager
	activity *activityLog
}

// New creates an App. Training tasks run on a context derived from ctx, so
// they outlive the request that started them until Close or CancelTraining.
func New(ctx context.Context, opts Options, store storage.Store, m *metrics.Metrics, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Months <= 0 {
		opts.Months = dataset.DefaultMonths
	}
	if opts.StartYear == 0 {
		opts.StartYear = dataset.DefaultStartYear
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}

	themes, err := theme.NewManager(ctx, store)
	if err != nil {
		return nil, err
	}

	var genSrc dataset.Source
	var predSrc models.Source
	if opts.Seed != 0 {
		genSrc = rand.New(rand.NewPCG(opts.Seed, 0x5741535445))
		predSrc = rand.New(rand.NewPCG(opts.Seed, 0x4d4f44454c))
	}

	registry := models.NewRegistry(predSrc)
	baseCtx, cancel := context.WithCancel(ctx)

	a := &App{
		ctx:      baseCtx,
		cancel:   cancel,
		logger:   logger,
		metrics:  m,
		gen:      dataset.NewGenerator(opts.Profile, opts.StartYear, genSrc),
		months:   opts.Months,
		registry: registry,
		trainer:  models.NewTrainer(registry, opts.TrainDelay, opts.TrainStagger, logger),
		pending:  make(map[models.Kind]*tracked),
		theme:    themes,
		activity: newActivityLog(opts.ActivitySize),
	}
	a.info("ready, theme %s", themes.Current())

	return a, nil
}

// Close cancels pending training and waits for it to resolve.
func (a *App) Close() {
	a.cancel()
	a.watchers.Wait()
}

// LoadResult is the outcome of LoadDataset.
type LoadResult struct {
	Total   int                     `json:"total"`
	Records []dataset.MonthlyRecord `json:"records"`
}

// LoadDataset regenerates the full history and returns its last view records.
func (a *App) LoadDataset(view int) (LoadResult, error) {
	if view <= 0 {
		return LoadResult{}, a.fail("dataset", fmt.Errorf("%w: view must be > 0, got %d", dataset.ErrInvalidArgument, view))
	}

	a.mu.Lock()
	ds, err := a.gen.Generate(a.months)
	if err == nil {
		a.data = ds
	}
	a.mu.Unlock()

	if err != nil {
		return LoadResult{}, a.fail("dataset", err)
	}

	a.metrics.SetDatasetRecords(ds.Len())
	a.logger.Info("dataset generated", "records", ds.Len(), "start_year", a.gen.StartYear())
	a.info("generated %d monthly records", ds.Len())

	return LoadResult{Total: ds.Len(), Records: ds.Last(view).Records()}, nil
}

// Dataset returns the current dataset, which is empty before LoadDataset.
func (a *App) Dataset() dataset.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data
}

// Statistics summarizes the current dataset.
func (a *App) Statistics() (stats.Summary, error) {
	s, err := stats.Summarize(a.Dataset())
	if err != nil {
		return stats.Summary{}, a.fail("stats", err)
	}
	return s, nil
}

// Correlations returns each feature's correlation with waste, strongest first.
func (a *App) Correlations() ([]stats.Coefficient, error) {
	c, err := stats.Correlate(a.Dataset())
	if err != nil {
		return nil, a.fail("stats", err)
	}
	return c.Sorted(), nil
}

// Export writes the current dataset to w in format f.
func (a *App) Export(w io.Writer, f Format) error {
	ds := a.Dataset()
	if ds.Len() == 0 {
		return a.fail("export", stats.ErrEmptyDataset)
	}

	var err error
	switch f {
	case FormatCSV:
		err = dataset.WriteCSV(w, ds)
	case FormatXLSX:
		err = dataset.WriteXLSX(w, ds)
	default:
		err = fmt.Errorf("%w: unsupported export format %q", dataset.ErrInvalidArgument, f)
	}
	if err != nil {
		return a.fail("export", err)
	}

	a.info("exported %d records as %s", ds.Len(), f)
	return nil
}

// tracked is a pending task. settled is closed once its outcome has been
// recorded.
type tracked struct {
	task    *models.Task
	settled chan struct{}
}

// Train starts simulated training of k and returns the pending task. A kind
// that is already training returns its existing task.
func (a *App) Train(k models.Kind) (*models.Task, error) {
	t, err := a.start(k)
	if err != nil {
		return nil, err
	}
	return t.task, nil
}

func (a *App) start(k models.Kind) (*tracked, error) {
	if !k.Valid() {
		return nil, a.fail("train", fmt.Errorf("%w: %d", models.ErrUnknownModel, int(k)))
	}
	if a.Dataset().Len() == 0 {
		return nil, a.fail("train", fmt.Errorf("%w: load a dataset before training", stats.ErrEmptyDataset))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if t, ok := a.pending[k]; ok {
		return t, nil
	}

	task, err := a.trainer.Train(a.ctx, k)
	if err != nil {
		return nil, a.fail("train", err)
	}
	t := &tracked{task: task, settled: make(chan struct{})}
	a.pending[k] = t
	a.info("training %s", k.Coefficients().Display)

	a.watchers.Add(1)
	go a.watch(t)

	return t, nil
}

func (a *App) watch(t *tracked) {
	defer a.watchers.Done()
	defer close(t.settled)

	task := t.task
	<-task.Done()

	a.mu.Lock()
	if a.pending[task.Kind()] == t {
		delete(a.pending, task.Kind())
	}
	a.mu.Unlock()

	res, err := task.Result()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.warn("%s training canceled", task.Kind().Coefficients().Display)
			return
		}
		_ = a.fail("train", err)
		return
	}
	a.trained(res)
}

func (a *App) trained(res models.TrainingResult) {
	a.metrics.RecordTraining(res.Kind.String(), res.Duration.Seconds())
	a.metrics.SetModelsTrained(len(a.registry.TrainedKinds()))
	a.info("%s trained: RMSE %.2f, MAE %.2f, MAPE %.2f%%",
		res.Kind.Coefficients().Display, res.Metrics.RMSE, res.Metrics.MAE, res.Metrics.MAPE)
}

// TrainAll trains every kind with staggered starts and waits for all of them.
// Kinds already training are joined rather than restarted. Cancelling ctx
// abandons the remaining kinds and cancels the started ones.
func (a *App) TrainAll(ctx context.Context) (map[models.Kind]models.TrainingResult, error) {
	if a.Dataset().Len() == 0 {
		return nil, a.fail("train", fmt.Errorf("%w: load a dataset before training", stats.ErrEmptyDataset))
	}

	a.info("training all models")

	var mu sync.Mutex
	var started []*tracked
	results, err := a.trainer.TrainAllWith(ctx, func(k models.Kind) (*models.Task, error) {
		t, err := a.start(k)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		started = append(started, t)
		mu.Unlock()
		return t.task, nil
	})

	// Every started task has resolved; wait for its outcome to be recorded.
	for _, t := range started {
		<-t.settled
	}

	if err != nil {
		return results, a.fail("train", err)
	}
	return results, nil
}

// CancelTraining cancels the pending task of k.
func (a *App) CancelTraining(k models.Kind) error {
	if !k.Valid() {
		return a.fail("train", fmt.Errorf("%w: %d", models.ErrUnknownModel, int(k)))
	}

	a.mu.RLock()
	t, ok := a.pending[k]
	a.mu.RUnlock()

	if !ok {
		return a.fail("train", fmt.Errorf("%w for %s", ErrNotTraining, k))
	}
	t.task.Cancel()
	return nil
}

// ModelStatus is a model's state as presented to clients.
type ModelStatus struct {
	models.State
	Name          string    `json:"name"`
	Accuracy      float64   `json:"accuracy"`
	AccuracyClass string    `json:"accuracyClass,omitempty"`
	Training      bool      `json:"training"`
	CompletesAt   time.Time `json:"completesAt,omitzero"`
}

// Models returns the status of every kind.
func (a *App) Models() []ModelStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	states := a.registry.States()
	out := make([]ModelStatus, 0, len(states))
	for _, s := range states {
		ms := ModelStatus{State: s, Name: s.Kind.Coefficients().Display}
		if s.Trained {
			ms.Accuracy = models.Accuracy(s.Metrics.MAPE)
			ms.AccuracyClass = models.AccuracyClass(ms.Accuracy)
		}
		if t, ok := a.pending[s.Kind]; ok {
			ms.Training = true
			ms.CompletesAt = t.task.CompletesAt()
		}
		out = append(out, ms)
	}
	return out
}

// Predict returns a prediction from every trained kind.
func (a *App) Predict(in models.Inputs) (map[models.Kind]float64, error) {
	out, err := a.registry.Predict(in)
	if err != nil {
		return nil, a.fail("predict", err)
	}

	for _, k := range models.Kinds {
		if v, ok := out[k]; ok {
			a.metrics.RecordPrediction(k.String(), v)
			a.info("%s predicts %.0f tons", k.Coefficients().Display, v)
		}
	}
	return out, nil
}

// Series holds per-model predictions alongside the actual waste column.
type Series struct {
	Labels    []string                  `json:"labels"`
	Actual    []float64                 `json:"actual"`
	Predicted map[models.Kind][]float64 `json:"predicted"`
}

// PredictionSeries predicts every record of the current dataset.
func (a *App) PredictionSeries() (Series, error) {
	ds := a.Dataset()
	if ds.Len() == 0 {
		return Series{}, a.fail("predict", stats.ErrEmptyDataset)
	}

	predicted, err := a.registry.PredictSeries(ds)
	if err != nil {
		return Series{}, a.fail("predict", err)
	}

	labels := make([]string, ds.Len())
	for i := range labels {
		labels[i] = ds.At(i).Label()
	}

	return Series{Labels: labels, Actual: ds.Waste(), Predicted: predicted}, nil
}

// Importance is one feature's importance score.
type Importance struct {
	Feature dataset.Feature `json:"feature"`
	Score   float64         `json:"score"`
}

// FeatureImportance returns the importance table, highest score first.
func (a *App) FeatureImportance() []Importance {
	table := models.FeatureImportance()
	out := make([]Importance, 0, len(table))
	for f, v := range table {
		out = append(out, Importance{Feature: f, Score: v})
	}
	slices.SortFunc(out, func(x, y Importance) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Theme returns the active theme.
func (a *App) Theme() theme.Theme {
	return a.theme.Current()
}

// ToggleTheme flips and persists the theme. On failure the theme is unchanged.
func (a *App) ToggleTheme(ctx context.Context) (theme.Theme, error) {
	t, err := a.theme.Toggle(ctx)
	if err != nil {
		return t, a.fail("theme", err)
	}
	a.info("switched to %s theme", t)
	return t, nil
}

// Activity returns the activity log, oldest first.
func (a *App) Activity() []Entry {
	return a.activity.list()
}

func (a *App) info(format string, args ...any) {
	a.activity.add("info", fmt.Sprintf(format, args...))
}

func (a *App) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Warn(msg)
	a.activity.add("warn", msg)
}

// fail records err and returns it unchanged.
func (a *App) fail(component string, err error) error {
	reason := Reason(err)
	a.logger.Error("operation failed", "component", component, "reason", reason, "error", err)
	a.metrics.RecordError(component, reason)
	a.activity.add("error", err.Error())
	return err
}

// Reason classifies err into a short label.
func Reason(err error) string {
	switch {
	case errors.Is(err, dataset.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, stats.ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, models.ErrMissingField):
		return "missing_field"
	case errors.Is(err, models.ErrUntrainedModel):
		return "untrained_model"
	case errors.Is(err, models.ErrUnknownModel):
		return "unknown_model"
	case errors.Is(err, ErrNotTraining):
		return "not_training"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
