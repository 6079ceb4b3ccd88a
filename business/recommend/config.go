package recommend

import (
	"fmt"

	"caseAssist/pkg/config"

	"github.com/go-playground/validator/v10"
)

// Config carries the catalog rules, serving options and updater policy.
type Config struct {
	MaxCombinationSize int `validate:"gte=0"`
	TopK               int `validate:"gte=0"`
	Exclusions         []Exclusion
	Schedule           Schedule `validate:"oneof=daily weekly monthly off"`

	MinTrainingRecords  int     `validate:"gte=2"`
	ValidationFraction  float64 `validate:"gt=0,lt=1"`
	MinImprovement      float64 `validate:"gte=0,lte=1"`
	MinAcceptableMetric float64 `validate:"gte=0,lte=1"`

	LearningRate float64 `validate:"gt=0"`
	Epochs       int     `validate:"gt=0"`
	L2           float64 `validate:"gte=0"`
	Seed         int64
}

const (
	defaultMaxCombinationSize  = 3
	defaultMinTrainingRecords  = 20
	defaultValidationFraction  = 0.2
	defaultMinAcceptableMetric = 0.5
	defaultLearningRate        = 0.1
	defaultEpochs              = 500
	defaultL2                  = 0.001
	defaultSeed                = 42
)

func DefaultConfig() Config {
	return Config{
		MaxCombinationSize:  defaultMaxCombinationSize,
		Schedule:            ScheduleWeekly,
		MinTrainingRecords:  defaultMinTrainingRecords,
		ValidationFraction:  defaultValidationFraction,
		MinAcceptableMetric: defaultMinAcceptableMetric,
		LearningRate:        defaultLearningRate,
		Epochs:              defaultEpochs,
		L2:                  defaultL2,
		Seed:                defaultSeed,
	}
}

// FromEnv converts the environment settings into a validated Config.
func FromEnv(raw config.RecommendConfig) (Config, error) {
	exclusions, err := ParseExclusions(raw.Exclusions)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		MaxCombinationSize:  raw.MaxCombinationSize,
		TopK:                raw.TopK,
		Exclusions:          exclusions,
		Schedule:            Schedule(raw.Schedule),
		MinTrainingRecords:  raw.MinTrainingRecords,
		ValidationFraction:  raw.ValidationFraction,
		MinImprovement:      raw.MinImprovement,
		MinAcceptableMetric: raw.MinAcceptableMetric,
		LearningRate:        raw.LearningRate,
		Epochs:              raw.Epochs,
		L2:                  raw.L2,
		Seed:                raw.Seed,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid engine config: %v", err)}
	}
	return nil
}

func (c Config) trainer() LogisticTrainer {
	return LogisticTrainer{
		LearningRate: c.LearningRate,
		Epochs:       c.Epochs,
		L2:           c.L2,
	}
}
