package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// Metrics are the fabricated error figures of a trained pseudo-model.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
}

// State is the lifecycle of one pseudo-model. It starts untrained and is
// never persisted.
type State struct {
	Kind      Kind      `json:"kind"`
	Trained   bool      `json:"trained"`
	Metrics   Metrics   `json:"metrics"`
	TrainedAt time.Time `json:"trainedAt,omitzero"`
}

// Registry owns the per-kind State. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	states map[Kind]State
	rng    Source
}

// NewRegistry creates a registry with every kind untrained.
// rng drives the prediction jitter; nil uses the process-wide source.
func NewRegistry(rng Source) *Registry {
	if rng == nil {
		rng = globalSource{}
	} else {
		rng = &lockedSource{src: rng}
	}

	states := make(map[Kind]State, len(Kinds))
	for _, k := range Kinds {
		states[k] = State{Kind: k}
	}

	return &Registry{states: states, rng: rng}
}

// State returns the state of kind k.
func (r *Registry) State(k Kind) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.states[k]
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownModel, int(k))
	}
	return s, nil
}

// States returns every state in Kinds order.
func (r *Registry) States() []State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]State, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, r.states[k])
	}
	return out
}

// TrainedKinds returns the trained kinds in Kinds order.
func (r *Registry) TrainedKinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Kind
	for _, k := range Kinds {
		if r.states[k].Trained {
			out = append(out, k)
		}
	}
	return out
}

func (r *Registry) markTrained(k Kind, m Metrics, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[k] = State{Kind: k, Trained: true, Metrics: m, TrainedAt: at}
}

// Reset marks every kind untrained.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range Kinds {
		r.states[k] = State{Kind: k}
	}
}

// PredictKind predicts with a single kind. It fails with ErrUntrainedModel
// if k has not completed training.
func (r *Registry) PredictKind(k Kind, in Inputs) (float64, error) {
	s, err := r.State(k)
	if err != nil {
		return 0, err
	}
	if !s.Trained {
		return 0, fmt.Errorf("%w: %s", ErrUntrainedModel, k)
	}
	return Predict(k, in, r.rng)
}

// Predict returns a prediction from every trained kind.
// It fails with ErrUntrainedModel when no kind is trained.
func (r *Registry) Predict(in Inputs) (map[Kind]float64, error) {
	trained := r.TrainedKinds()
	if len(trained) == 0 {
		return nil, fmt.Errorf("%w: train at least one model first", ErrUntrainedModel)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	out := make(map[Kind]float64, len(trained))
	for _, k := range trained {
		v, err := Predict(k, in, r.rng)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// PredictSeries predicts every record of ds with each trained kind.
func (r *Registry) PredictSeries(ds dataset.Dataset) (map[Kind][]float64, error) {
	trained := r.TrainedKinds()
	if len(trained) == 0 {
		return nil, fmt.Errorf("%w: train at least one model first", ErrUntrainedModel)
	}

	out := make(map[Kind][]float64, len(trained))
	for _, k := range trained {
		series := make([]float64, ds.Len())
		for i := 0; i < ds.Len(); i++ {
			v, err := Predict(k, InputsFromRecord(ds.At(i)), r.rng)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			series[i] = v
		}
		out[k] = series
	}
	return out, nil
}
