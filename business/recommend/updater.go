package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"caseAssist/pkg/logger"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle       State = "idle"
	StateTraining   State = "training"
	StateValidating State = "validating"
	StateSwapping   State = "swapping"
	StateFailed     State = "failed"
)

type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// UpdateResult describes one updater run. Rejected candidates are reported
// here rather than as errors.
type UpdateResult struct {
	Accepted        bool      `json:"accepted"`
	Reason          string    `json:"reason,omitempty"`
	Version         string    `json:"version,omitempty"`
	CandidateMetric float64   `json:"candidate_metric"`
	DeployedMetric  *float64  `json:"deployed_metric,omitempty"`
	TrainingRecords int       `json:"training_records"`
	Trigger         Trigger   `json:"trigger"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

type Status struct {
	State         State         `json:"state"`
	ActiveVersion string        `json:"active_version,omitempty"`
	ActiveMetric  *float64      `json:"active_metric,omitempty"`
	LastResult    *UpdateResult `json:"last_result,omitempty"`
	LastRunAt     *time.Time    `json:"last_run_at,omitempty"`
}

// OutcomeRepository supplies training data.
type OutcomeRepository interface {
	ListOutcomesSince(ctx context.Context, since time.Time) ([]OutcomeRecord, error)
}

// ArtifactRepository persists trained models. SaveActive stores m and makes it
// the only active artifact. FindActive returns nil, nil when none is active.
type ArtifactRepository interface {
	SaveActive(ctx context.Context, m *Model) error
	FindActive(ctx context.Context) (*Model, error)
	FindByVersion(ctx context.Context, version string) (*Model, error)
	Activate(ctx context.Context, version string) error
	List(ctx context.Context) ([]*Model, error)
}

// Updater retrains and republishes the serving model. It is the only writer
// of its ModelStore, and at most one run (retrain or switch) is active at a
// time; others are turned away with ErrRetrainInProgress.
type Updater struct {
	store     *ModelStore
	encoder   *Encoder
	outcomes  OutcomeRepository
	artifacts ArtifactRepository
	trainer   Trainer
	cfg       Config

	now        func() time.Time
	newVersion func() string

	running atomic.Bool

	mu         sync.Mutex
	state      State
	lastResult *UpdateResult
	lastRunAt  *time.Time
}

func NewUpdater(
	store *ModelStore,
	encoder *Encoder,
	outcomes OutcomeRepository,
	artifacts ArtifactRepository,
	trainer Trainer,
	cfg Config,
) *Updater {
	if trainer == nil {
		trainer = cfg.trainer()
	}
	return &Updater{
		store:      store,
		encoder:    encoder,
		outcomes:   outcomes,
		artifacts:  artifacts,
		trainer:    trainer,
		cfg:        cfg,
		now:        time.Now,
		newVersion: func() string { return uuid.NewString() },
		state:      StateIdle,
	}
}

func (u *Updater) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := Status{State: u.state, LastRunAt: u.lastRunAt}
	if u.lastResult != nil {
		r := *u.lastResult
		st.LastResult = &r
	}
	if m := u.store.Current(); m != nil {
		st.ActiveVersion = m.Version
		metric := m.Metric
		st.ActiveMetric = &metric
	}
	return st
}

func (u *Updater) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

func (u *Updater) finish(s State, res UpdateResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = s
	u.lastResult = &res
	at := res.FinishedAt
	u.lastRunAt = &at
}

// Bootstrap loads the persisted active model, if any, into the store.
func (u *Updater) Bootstrap(ctx context.Context) error {
	m, err := u.artifacts.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active model: %w", err)
	}
	if m == nil {
		logger.Warn("No active model stored, recommendations unavailable until a retrain succeeds")
		return nil
	}
	if m.FeatureDim != u.encoder.Dim() {
		logger.Warn("Stored model does not match the feature layout, not loading it",
			"model_version", m.Version,
			"model_dim", m.FeatureDim,
			"encoder_dim", u.encoder.Dim(),
		)
		return nil
	}

	u.store.swap(m)
	activeModelMetric.Set(m.Metric)
	logger.Info("Loaded active model", "model_version", m.Version, "metric", m.Metric)
	return nil
}

// Retrain runs Idle -> Training -> Validating -> Swapping -> Idle. A run that
// cannot produce a better model ends in Failed with the deployed model left
// serving; the next trigger starts over from Failed.
//
// ctx is only checked before the run starts. Once training begins the run
// completes regardless of cancellation.
func (u *Updater) Retrain(ctx context.Context, trigger Trigger) (UpdateResult, error) {
	if !u.running.CompareAndSwap(false, true) {
		retrainRuns.WithLabelValues(string(trigger), "in_progress").Inc()
		return UpdateResult{}, ErrRetrainInProgress
	}
	defer u.running.Store(false)

	if err := ctx.Err(); err != nil {
		return UpdateResult{}, fmt.Errorf("context error: %w", err)
	}

	res := u.retrain(context.WithoutCancel(ctx), trigger)

	final := StateIdle
	result := "accepted"
	if !res.Accepted {
		final = StateFailed
		result = "rejected"
	}
	u.finish(final, res)
	retrainRuns.WithLabelValues(string(trigger), result).Inc()

	return res, nil
}

func (u *Updater) retrain(ctx context.Context, trigger Trigger) UpdateResult {
	res := UpdateResult{Trigger: trigger, StartedAt: u.now()}
	tid := TraceIDFromContext(ctx)

	reject := func(reason string, err error) UpdateResult {
		res.Reason = reason
		res.FinishedAt = u.now()
		kv := []any{"trace_id", tid, "trigger", trigger, "reason", reason}
		if err != nil {
			kv = append(kv, "error", err)
		}
		logger.Warn("Model retrain rejected", kv...)
		return res
	}

	deployed := u.store.Current()
	var since time.Time
	if deployed != nil {
		since = deployed.TrainedThrough
		dm := deployed.Metric
		res.DeployedMetric = &dm
	}

	u.setState(StateTraining)
	logger.Info("Model retrain started", "trace_id", tid, "trigger", trigger, "since", since)

	records, err := u.outcomes.ListOutcomesSince(ctx, since)
	if err != nil {
		return reject("failed to load outcome records", err)
	}

	xs, ys, through := u.encodeRecords(records)
	res.TrainingRecords = len(xs)
	if len(xs) < u.cfg.MinTrainingRecords {
		return reject(fmt.Sprintf("insufficient training data: %d usable records, need %d", len(xs), u.cfg.MinTrainingRecords), nil)
	}

	trainIdx, valIdx := splitIndices(len(xs), u.cfg.ValidationFraction, u.cfg.Seed)
	trainX, trainY := pick(xs, ys, trainIdx)
	valX, valY := pick(xs, ys, valIdx)

	weights, bias, err := u.trainer.Train(trainX, trainY)
	if err != nil {
		return reject("training failed", err)
	}

	candidate := &Model{
		Version:        u.newVersion(),
		Algorithm:      AlgorithmLogistic,
		Weights:        weights,
		Bias:           bias,
		FeatureDim:     u.encoder.Dim(),
		TrainedAt:      u.now(),
		TrainedThrough: through,
	}
	res.Version = candidate.Version

	u.setState(StateValidating)

	candidateMetric, err := accuracy(candidate, valX, valY)
	if err != nil {
		return reject("validation failed", err)
	}
	candidate.Metric = candidateMetric
	res.CandidateMetric = candidateMetric

	threshold := u.cfg.MinAcceptableMetric
	against := "minimum acceptable"
	if deployed != nil {
		deployedMetric, err := accuracy(deployed, valX, valY)
		if err != nil {
			logger.Warn("Deployed model cannot score the validation split, using minimum acceptable metric",
				"trace_id", tid, "model_version", deployed.Version, "error", err)
		} else {
			res.DeployedMetric = &deployedMetric
			threshold = deployedMetric + u.cfg.MinImprovement
			against = "deployed"
		}
	}

	if candidateMetric < threshold {
		return reject(fmt.Sprintf("candidate metric %.4f below %s threshold %.4f", candidateMetric, against, threshold), nil)
	}

	u.setState(StateSwapping)

	if err := u.artifacts.SaveActive(ctx, candidate); err != nil {
		return reject("failed to persist model", err)
	}
	u.store.swap(candidate)
	activeModelMetric.Set(candidateMetric)

	res.Accepted = true
	res.FinishedAt = u.now()
	logger.Info("Model retrain accepted",
		"trace_id", tid,
		"trigger", trigger,
		"model_version", candidate.Version,
		"metric", candidateMetric,
		"records", len(xs),
	)
	return res
}

// encodeRecords skips records that no longer encode, for example after a
// catalog change, and returns the latest RecordedAt seen.
func (u *Updater) encodeRecords(records []OutcomeRecord) ([]FeatureVector, []float64, time.Time) {
	xs := make([]FeatureVector, 0, len(records))
	ys := make([]float64, 0, len(records))
	var through time.Time
	skipped := 0

	for _, rec := range records {
		if rec.RecordedAt.After(through) {
			through = rec.RecordedAt
		}
		x, err := u.encoder.Encode(rec.Profile, rec.Interventions)
		if err != nil {
			skipped++
			continue
		}
		xs = append(xs, x)
		ys = append(ys, label(rec.Succeeded))
	}

	if skipped > 0 {
		logger.Warn("Skipped outcome records that could not be encoded", "skipped", skipped, "total", len(records))
	}
	return xs, ys, through
}

func pick(xs []FeatureVector, ys []float64, idx []int) ([]FeatureVector, []float64) {
	px := make([]FeatureVector, len(idx))
	py := make([]float64, len(idx))
	for i, j := range idx {
		px[i] = xs[j]
		py[i] = ys[j]
	}
	return px, py
}

// Activate switches serving to a previously stored model version.
func (u *Updater) Activate(ctx context.Context, version string) (*Model, error) {
	if !u.running.CompareAndSwap(false, true) {
		return nil, ErrRetrainInProgress
	}
	defer u.running.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	m, err := u.artifacts.FindByVersion(ctx, version)
	if err != nil {
		return nil, err
	}
	if m.FeatureDim != u.encoder.Dim() {
		return nil, &EncodingError{
			Field:  "feature_dim",
			Reason: fmt.Sprintf("model %s has %d features, encoder produces %d", version, m.FeatureDim, u.encoder.Dim()),
		}
	}

	started := u.now()
	prev := u.Status().State
	u.setState(StateSwapping)
	if err := u.artifacts.Activate(ctx, version); err != nil {
		u.setState(prev)
		return nil, fmt.Errorf("failed to activate model: %w", err)
	}
	u.store.swap(m)
	activeModelMetric.Set(m.Metric)

	u.finish(StateIdle, UpdateResult{
		Accepted:        true,
		Reason:          "activated",
		Version:         m.Version,
		CandidateMetric: m.Metric,
		Trigger:         TriggerManual,
		StartedAt:       started,
		FinishedAt:      u.now(),
	})
	logger.Info("Model switched", "trace_id", TraceIDFromContext(ctx), "model_version", m.Version)

	return m, nil
}

// Models lists stored artifacts, newest first.
func (u *Updater) Models(ctx context.Context) ([]*Model, error) {
	models, err := u.artifacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

// Current returns the serving model or ErrModelUnavailable.
func (u *Updater) Current() (*Model, error) {
	m := u.store.Current()
	if m == nil {
		return nil, ErrModelUnavailable
	}
	return m, nil
}
