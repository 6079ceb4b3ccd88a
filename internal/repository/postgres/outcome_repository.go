package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caseAssist/business/recommend"
	"caseAssist/domain"
	"caseAssist/pkg/logger"

	"gorm.io/gorm"
)

type OutcomeRepository struct {
	DB *gorm.DB
}

func NewOutcomeRepository(db *gorm.DB) *OutcomeRepository {
	return &OutcomeRepository{
		DB: db,
	}
}

func (r *OutcomeRepository) Create(ctx context.Context, o *domain.CaseOutcome) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create case outcome: %w", err)
	}

	return nil
}

// ListOutcomesSince returns outcomes recorded strictly after since, oldest
// first.
func (r *OutcomeRepository) ListOutcomesSince(ctx context.Context, since time.Time) ([]recommend.OutcomeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CaseOutcome
	err := r.DB.WithContext(ctx).
		Where("recorded_at > ?", since).
		Order("recorded_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list case outcomes: %w", err)
	}

	records := make([]recommend.OutcomeRecord, 0, len(rows))
	for _, row := range rows {
		profile, err := toProfile(row.Profile)
		if err != nil {
			logger.Warn("Skipping case outcome with invalid profile", "outcome_id", row.ID, "error", err)
			continue
		}

		interventions := make(recommend.InterventionCombination, 0, len(row.Interventions))
		for _, name := range row.Interventions {
			interventions = append(interventions, recommend.InterventionOption(name))
		}

		records = append(records, recommend.OutcomeRecord{
			Profile:       profile,
			Interventions: interventions,
			Succeeded:     row.Succeeded,
			RecordedAt:    row.RecordedAt,
		})
	}

	return records, nil
}

// toProfile converts a decoded jsonb object into numeric attributes.
func toProfile(m map[string]any) (recommend.ClientProfile, error) {
	profile := make(recommend.ClientProfile, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", k, err)
			}
			profile[k] = f
		case float64:
			profile[k] = n
		case int:
			profile[k] = float64(n)
		case int64:
			profile[k] = float64(n)
		case bool:
			if n {
				profile[k] = 1
			} else {
				profile[k] = 0
			}
		default:
			return nil, fmt.Errorf("attribute %s has non-numeric value %v", k, v)
		}
	}
	return profile, nil
}
