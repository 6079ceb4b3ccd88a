package recommend

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

const AlgorithmLogistic = "logistic_regression"

// Predictor maps a feature vector to a success probability in [0, 1].
type Predictor interface {
	Predict(x FeatureVector) (float64, error)
}

// Snapshot is one model version pinned for the length of a call.
type Snapshot interface {
	Predictor
	ModelVersion() string
}

// SnapshotSource hands out the model currently serving.
type SnapshotSource interface {
	Snapshot() (Snapshot, error)
}

// Model is a trained logistic regression. A Model is never modified once it
// has been published to a ModelStore.
type Model struct {
	Version        string    `json:"version"`
	Algorithm      string    `json:"algorithm"`
	Weights        []float64 `json:"-"`
	Bias           float64   `json:"-"`
	FeatureDim     int       `json:"feature_dim"`
	Metric         float64   `json:"metric"`
	TrainedAt      time.Time `json:"trained_at"`
	TrainedThrough time.Time `json:"trained_through"`
}

func (m *Model) ModelVersion() string {
	return m.Version
}

func (m *Model) Predict(x FeatureVector) (float64, error) {
	if len(x) != m.FeatureDim || len(m.Weights) != m.FeatureDim {
		return 0, &EncodingError{
			Field:  "feature_vector",
			Reason: fmt.Sprintf("length %d, model %s expects %d", len(x), m.Version, m.FeatureDim),
		}
	}

	return clampProbability(sigmoid(m.Bias + dot(m.Weights, x))), nil
}

func dot(w []float64, x FeatureVector) float64 {
	sum := 0.0
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// ModelStore publishes the serving model. Readers load the pointer once per
// call and never lock; the Updater is the only writer.
type ModelStore struct {
	current atomic.Pointer[Model]
}

func NewModelStore() *ModelStore {
	return &ModelStore{}
}

// Current returns the serving model, or nil before the first load.
func (s *ModelStore) Current() *Model {
	return s.current.Load()
}

func (s *ModelStore) Snapshot() (Snapshot, error) {
	m := s.current.Load()
	if m == nil {
		return nil, ErrModelUnavailable
	}
	return m, nil
}

func (s *ModelStore) Predict(x FeatureVector) (float64, error) {
	m := s.current.Load()
	if m == nil {
		return 0, ErrModelUnavailable
	}
	return m.Predict(x)
}

func (s *ModelStore) swap(m *Model) *Model {
	return s.current.Swap(m)
}
