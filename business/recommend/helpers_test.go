package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"
)

// tablePredictor answers from a fixed table keyed by the printed vector.
type tablePredictor struct {
	version string
	probs   map[string]float64
	def     float64
}

func (p *tablePredictor) Predict(x FeatureVector) (float64, error) {
	if v, ok := p.probs[fmt.Sprint([]float64(x))]; ok {
		return v, nil
	}
	return p.def, nil
}

func (p *tablePredictor) ModelVersion() string { return p.version }

type fixedSource struct {
	snap Snapshot
	err  error
}

func (s fixedSource) Snapshot() (Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

type memOutcomes struct {
	mu      sync.Mutex
	records []OutcomeRecord
	err     error
	since   []time.Time
	block   chan struct{}
	entered chan struct{}
}

func (m *memOutcomes) ListOutcomesSince(_ context.Context, since time.Time) ([]OutcomeRecord, error) {
	m.mu.Lock()
	m.since = append(m.since, since)
	block, entered := m.block, m.entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if m.err != nil {
		return nil, m.err
	}

	var out []OutcomeRecord
	for _, r := range m.records {
		if r.RecordedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memArtifacts struct {
	mu      sync.Mutex
	models  map[string]*Model
	order   []string
	active  string
	saveErr error
	saves   int
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{models: map[string]*Model{}}
}

func (a *memArtifacts) put(m *Model) {
	a.models[m.Version] = m
	a.order = append(a.order, m.Version)
}

func (a *memArtifacts) SaveActive(_ context.Context, m *Model) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saves++
	if a.saveErr != nil {
		return a.saveErr
	}
	a.put(m)
	a.active = m.Version
	return nil
}

func (a *memArtifacts) FindActive(_ context.Context) (*Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == "" {
		return nil, nil
	}
	return a.models[a.active], nil
}

func (a *memArtifacts) FindByVersion(_ context.Context, version string) (*Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.models[version]
	if !ok {
		return nil, ErrModelNotFound
	}
	return m, nil
}

func (a *memArtifacts) Activate(_ context.Context, version string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.models[version]; !ok {
		return ErrModelNotFound
	}
	a.active = version
	return nil
}

func (a *memArtifacts) List(_ context.Context) ([]*Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Model, 0, len(a.order))
	for _, v := range a.order {
		out = append(out, a.models[v])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TrainedAt.After(out[j].TrainedAt) })
	return out, nil
}

// stubTrainer returns fixed parameters, optionally waiting for release.
type stubTrainer struct {
	weights []float64
	bias    float64
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *stubTrainer) Train(_ []FeatureVector, _ []float64) ([]float64, float64, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.weights, s.bias, s.err
}

func abCatalog(t testing.TB, maxSize int, exclusions ...Exclusion) *Catalog {
	t.Helper()
	c, err := NewCatalog([]InterventionOption{"A", "B"}, maxSize, exclusions)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// oneAttrSchema has a single attribute x in [0, 1].
var oneAttrSchema = Schema{{Name: "x", Min: 0, Max: 1}}

// separableRecords labels a record successful exactly when x is 1.
func separableRecords(n int, start time.Time) []OutcomeRecord {
	out := make([]OutcomeRecord, n)
	for i := range out {
		x := float64(i % 2)
		out[i] = OutcomeRecord{
			Profile:       ClientProfile{"x": x},
			Interventions: InterventionCombination{},
			Succeeded:     x == 1,
			RecordedAt:    start.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinTrainingRecords = 10
	cfg.ValidationFraction = 0.25
	cfg.LearningRate = 0.5
	cfg.Epochs = 1000
	return cfg
}
