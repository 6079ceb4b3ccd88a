package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned while no predictor model has been loaded.
	ErrModelUnavailable = errors.New("no predictor model loaded")

	// ErrRetrainInProgress is returned when a retrain or model switch is
	// requested while another run holds the updater.
	ErrRetrainInProgress = errors.New("retrain already in progress")

	// ErrModelNotFound is returned when a stored model version does not exist.
	ErrModelNotFound = errors.New("model version not found")
)

// EncodingError reports input that cannot be turned into a feature vector:
// a missing or out of range attribute, or an option outside the catalog.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports an unusable catalog or engine configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "recommend configuration: " + e.Reason
}

// errorKind labels err for the error counter.
func errorKind(err error) string {
	var encErr *EncodingError
	var cfgErr *ConfigurationError
	switch {
	case errors.As(err, &encErr):
		return "encoding"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	default:
		return "other"
	}
}
