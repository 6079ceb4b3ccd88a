package recommend

import (
	"cmp"
	"context"
	"slices"
	"time"

	"caseAssist/pkg/logger"
)

type ScoredCombination struct {
	Combination InterventionCombination `json:"interventions"`
	Probability float64                 `json:"probability"`
	Uplift      float64                 `json:"uplift"`
}

// Recommendation is a ranked list scored by a single model version.
type Recommendation struct {
	ModelVersion string              `json:"model_version"`
	Baseline     float64             `json:"baseline"`
	Items        []ScoredCombination `json:"recommendations"`
}

type Ranker struct {
	generator *Generator
	encoder   *Encoder
	models    SnapshotSource
	topK      int
}

// NewRanker wires the scoring pipeline. topK 0 returns every combination.
func NewRanker(generator *Generator, encoder *Encoder, models SnapshotSource, topK int) *Ranker {
	return &Ranker{
		generator: generator,
		encoder:   encoder,
		models:    models,
		topK:      topK,
	}
}

// Recommend scores every feasible combination for profile against the
// baseline of no intervention, best uplift first. Encoder, generator and
// predictor errors are returned as they are.
func (r *Ranker) Recommend(ctx context.Context, profile ClientProfile) (rec Recommendation, err error) {
	start := time.Now()
	defer func() {
		recommendLatency.Observe(time.Since(start).Seconds())
		recommendTotal.Inc()
		if err != nil {
			recommendErrors.WithLabelValues(errorKind(err)).Inc()
		}
	}()

	model, err := r.models.Snapshot()
	if err != nil {
		return Recommendation{}, err
	}

	combos, err := r.generator.Generate(profile)
	if err != nil {
		return Recommendation{}, err
	}

	baseVec, err := r.encoder.Encode(profile, InterventionCombination{})
	if err != nil {
		return Recommendation{}, err
	}
	baseline, err := model.Predict(baseVec)
	if err != nil {
		return Recommendation{}, err
	}

	items := make([]ScoredCombination, 0, len(combos))
	for _, combo := range combos {
		if combo.Size() == 0 {
			items = append(items, ScoredCombination{Combination: combo, Probability: baseline, Uplift: 0})
			continue
		}

		vec, err := r.encoder.Encode(profile, combo)
		if err != nil {
			return Recommendation{}, err
		}
		p, err := model.Predict(vec)
		if err != nil {
			return Recommendation{}, err
		}
		items = append(items, ScoredCombination{Combination: combo, Probability: p, Uplift: p - baseline})
	}

	r.sort(items)
	items = truncateKeepingBaseline(items, r.topK)

	logger.Debug("recommend",
		"trace_id", TraceIDFromContext(ctx),
		"model_version", model.ModelVersion(),
		"candidates", len(combos),
		"returned", len(items),
		"baseline", baseline,
	)

	return Recommendation{
		ModelVersion: model.ModelVersion(),
		Baseline:     baseline,
		Items:        items,
	}, nil
}

// sort orders by uplift descending, then fewer interventions, then catalog
// order.
func (r *Ranker) sort(items []ScoredCombination) {
	slices.SortStableFunc(items, func(a, b ScoredCombination) int {
		if c := cmp.Compare(b.Uplift, a.Uplift); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Combination.Size(), b.Combination.Size()); c != 0 {
			return c
		}
		return r.compareCatalogOrder(a.Combination, b.Combination)
	})
}

func (r *Ranker) compareCatalogOrder(a, b InterventionCombination) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ia, _ := r.encoder.catalog.Index(a[i])
		ib, _ := r.encoder.catalog.Index(b[i])
		if c := cmp.Compare(ia, ib); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// truncateKeepingBaseline keeps the first k items. If the baseline falls
// outside them it takes the last kept place, which preserves the order since
// it ranks below everything kept.
func truncateKeepingBaseline(items []ScoredCombination, k int) []ScoredCombination {
	if k <= 0 || len(items) <= k {
		return items
	}

	kept := items[:k]
	for _, it := range kept {
		if it.Combination.Size() == 0 {
			return kept
		}
	}
	for _, it := range items[k:] {
		if it.Combination.Size() == 0 {
			kept[k-1] = it
			break
		}
	}
	return kept
}
