// Package router configures the HTTP routes of the wastepredict API.
//
// Routes configured:
//   - POST /dataset/load?view=12 - Regenerate the history, return the last view records
//   - GET /dataset - Current dataset
//   - GET /dataset/stats - Summary statistics
//   - GET /dataset/correlations - Feature correlations with waste, strongest first
//   - GET /dataset/export?format=csv|xlsx - Dataset download
//   - GET /models - Model states with accuracy
//   - POST /models/{kind}/train?wait=true - Start (202) or complete (200) training
//   - DELETE /models/{kind}/train - Cancel pending training
//   - POST /models/train-all - Train every model and wait
//   - POST /predict - Predict from JSON feature inputs
//   - GET /predictions/series - Per-model predictions over the dataset
//   - GET /features/importance - Feature importance table
//   - GET /preferences/theme, POST /preferences/theme/toggle - Theme preference
//   - GET /activity - Activity log
//   - GET /healthz - Health check endpoint
//   - GET /metrics - Prometheus metrics endpoint
//
// Errors are JSON bodies of the form {"error":"<msg>"}.
package router

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"

	"github.com/HatiCode/wastepredict/cmd/wastepredict/app"
	"github.com/HatiCode/wastepredict/pkg/dataset"
	"github.com/HatiCode/wastepredict/pkg/httpx"
	"github.com/HatiCode/wastepredict/pkg/models"
	"github.com/HatiCode/wastepredict/pkg/stats"
	"github.com/HatiCode/wastepredict/pkg/theme"
)

const (
	defaultView     = 12
	maxPredictBody  = 64 << 10
	trainAllTimeout = 30 * time.Second
)

// Controller is the application surface the routes call into.
type Controller interface {
	LoadDataset(view int) (app.LoadResult, error)
	Dataset() dataset.Dataset
	Statistics() (stats.Summary, error)
	Correlations() ([]stats.Coefficient, error)
	Export(w io.Writer, f app.Format) error
	Train(k models.Kind) (*models.Task, error)
	TrainAll(ctx context.Context) (map[models.Kind]models.TrainingResult, error)
	CancelTraining(k models.Kind) error
	Models() []app.ModelStatus
	Predict(in models.Inputs) (map[models.Kind]float64, error)
	PredictionSeries() (app.Series, error)
	FeatureImportance() []app.Importance
	Theme() theme.Theme
	ToggleTheme(ctx context.Context) (theme.Theme, error)
	Activity() []app.Entry
}

// Options tunes SetupRoutes.
type Options struct {
	// DefaultView is used when POST /dataset/load has no view parameter.
	DefaultView int
	// Gatherer backs /metrics; nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Health backs /healthz; nil always reports healthy.
	Health func(context.Context) error
}

// SetupRoutes configures the HTTP endpoints, wrapped in recovery and
// request logging.
func SetupRoutes(c Controller, opts Options, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultView <= 0 {
		opts.DefaultView = defaultView
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	h := &handlers{c: c, logger: logger, defaultView: opts.DefaultView}
	mux := http.NewServeMux()

	if opts.Health != nil {
		mux.Handle("GET /healthz", httpx.HealthHandlerWithCheck(opts.Health))
	} else {
		mux.Handle("GET /healthz", httpx.HealthHandler())
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /dataset/load", h.loadDataset)
	mux.HandleFunc("GET /dataset", h.getDataset)
	mux.HandleFunc("GET /dataset/stats", h.getStats)
	mux.HandleFunc("GET /dataset/correlations", h.getCorrelations)
	mux.HandleFunc("GET /dataset/export", h.exportDataset)

	mux.HandleFunc("GET /models", h.getModels)
	mux.HandleFunc("POST /models/{kind}/train", h.train)
	mux.HandleFunc("DELETE /models/{kind}/train", h.cancelTraining)
	mux.HandleFunc("POST /models/train-all", h.trainAll)

	mux.HandleFunc("POST /predict", h.predict)
	mux.HandleFunc("GET /predictions/series", h.predictionSeries)
	mux.HandleFunc("GET /features/importance", h.featureImportance)

	mux.HandleFunc("GET /preferences/theme", h.getTheme)
	mux.HandleFunc("POST /preferences/theme/toggle", h.toggleTheme)
	mux.HandleFunc("GET /activity", h.activity)

	return httpx.Chain(mux, httpx.RecoveryMiddleware(logger), httpx.LoggingMiddleware(logger))
}

type handlers struct {
	c           Controller
	logger      *slog.Logger
	defaultView int
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := httpx.WriteJSON(w, status, v); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrInvalidArgument), errors.Is(err, models.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownModel):
		return http.StatusNotFound
	case errors.Is(err, stats.ErrEmptyDataset),
		errors.Is(err, models.ErrUntrainedModel),
		errors.Is(err, app.ErrNotTraining):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		httpx.WriteErrorMessage(w, status, "internal server error")
		return
	}
	httpx.WriteError(w, status, err)
}

func (h *handlers) loadDataset(w http.ResponseWriter, r *http.Request) {
	view := h.defaultView
	if s := r.URL.Query().Get("view"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			httpx.WriteErrorMessage(w, http.StatusBadRequest, "view must be an integer")
			return
		}
		view = v
	}

	res, err := h.c.LoadDataset(view)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *handlers) getDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.c.Dataset()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"total":   ds.Len(),
		"records": ds.Records(),
	})
}

func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.c.Statistics()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handlers) getCorrelations(w http.ResponseWriter, r *http.Request) {
	coeffs, err := h.c.Correlations()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, coeffs)
}

func (h *handlers) exportDataset(w http.ResponseWriter, r *http.Request) {
	format, err := app.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.c.Export(&buf, format); err != nil {
		h.writeError(w, err)
		return
	}

	err = httpx.WriteAttachment(w, format.ContentType(), format.FileName(), func(out io.Writer) error {
		_, err := buf.WriteTo(out)
		return err
	})
	if err != nil {
		h.logger.Error("failed to write export", "format", format, "error", err)
	}
}

func (h *handlers) getModels(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.c.Models())
}

func (h *handlers) train(w http.ResponseWriter, r *http.Request) {
	k, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	task, err := h.c.Train(k)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); !wait {
		h.writeJSON(w, http.StatusAccepted, map[string]any{
			"kind":        k,
			"startedAt":   task.StartedAt(),
			"completesAt": task.CompletesAt(),
		})
		return
	}

	res, err := task.Wait(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() == nil {
			httpx.WriteErrorMessage(w, http.StatusConflict, "training canceled")
			return
		}
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *handlers) cancelTraining(w http.ResponseWriter, r *http.Request) {
	k, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.c.CancelTraining(k); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) trainAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), trainAllTimeout)
	defer cancel()

	results, err := h.c.TrainAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() == nil {
			httpx.WriteErrorMessage(w, http.StatusConflict, "training canceled")
			return
		}
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPredictBody))
	if err != nil {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	preds, err := h.c.Predict(ParseInputs(body))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"predictions": preds})
}

// ParseInputs extracts the numeric feature fields of a JSON object. Fields
// that are absent or not numbers are left out, so validation reports them
// as missing.
func ParseInputs(body []byte) models.Inputs {
	in := make(models.Inputs, len(dataset.Features))
	for _, f := range dataset.Features {
		v := gjson.GetBytes(body, string(f))
		if v.Type != gjson.Number {
			continue
		}
		in[f] = v.Float()
	}
	return in
}

func (h *handlers) predictionSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.c.PredictionSeries()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, series)
}

func (h *handlers) featureImportance(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.c.FeatureImportance())
}

func (h *handlers) getTheme(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]theme.Theme{"theme": h.c.Theme()})
}

func (h *handlers) toggleTheme(w http.ResponseWriter, r *http.Request) {
	t, err := h.c.ToggleTheme(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]theme.Theme{"theme": t})
}

func (h *handlers) activity(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.c.Activity())
}
