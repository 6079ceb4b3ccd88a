package recommend

import "context"

// Engine bundles the pieces of the recommendation pipeline built from one
// Config.
type Engine struct {
	Catalog   *Catalog
	Encoder   *Encoder
	Generator *Generator
	Store     *ModelStore
	Ranker    *Ranker
	Updater   *Updater
	Scheduler *Scheduler
}

// NewEngine builds an engine over the default catalog and schema. The store
// starts empty; call Bootstrap to load the persisted model.
func NewEngine(cfg Config, outcomes OutcomeRepository, artifacts ArtifactRepository) (*Engine, error) {
	return NewEngineWith(cfg, DefaultOptions(), DefaultSchema(), outcomes, artifacts, nil)
}

func NewEngineWith(
	cfg Config,
	options []InterventionOption,
	schema Schema,
	outcomes OutcomeRepository,
	artifacts ArtifactRepository,
	trainer Trainer,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := NewCatalog(options, cfg.MaxCombinationSize, cfg.Exclusions)
	if err != nil {
		return nil, err
	}
	encoder, err := NewEncoder(schema, catalog)
	if err != nil {
		return nil, err
	}

	store := NewModelStore()
	generator := NewGenerator(catalog)
	updater := NewUpdater(store, encoder, outcomes, artifacts, trainer, cfg)

	return &Engine{
		Catalog:   catalog,
		Encoder:   encoder,
		Generator: generator,
		Store:     store,
		Ranker:    NewRanker(generator, encoder, store, cfg.TopK),
		Updater:   updater,
		Scheduler: NewScheduler(updater, cfg.Schedule),
	}, nil
}

func (e *Engine) Bootstrap(ctx context.Context) error {
	return e.Updater.Bootstrap(ctx)
}

func (e *Engine) Recommend(ctx context.Context, profile ClientProfile) (Recommendation, error) {
	return e.Ranker.Recommend(ctx, profile)
}
