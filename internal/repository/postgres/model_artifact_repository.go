package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caseAssist/business/recommend"
	"caseAssist/domain"

	"gorm.io/gorm"
)

type ModelArtifactRepository struct {
	DB *gorm.DB
}

func NewModelArtifactRepository(db *gorm.DB) *ModelArtifactRepository {
	return &ModelArtifactRepository{
		DB: db,
	}
}

func toArtifact(m *recommend.Model) domain.ModelArtifact {
	return domain.ModelArtifact{
		Version:        m.Version,
		Algorithm:      m.Algorithm,
		Weights:        append([]float64(nil), m.Weights...),
		Bias:           m.Bias,
		FeatureDim:     m.FeatureDim,
		Metric:         m.Metric,
		TrainedAt:      m.TrainedAt,
		TrainedThrough: m.TrainedThrough,
	}
}

func toModel(a domain.ModelArtifact) *recommend.Model {
	return &recommend.Model{
		Version:        a.Version,
		Algorithm:      a.Algorithm,
		Weights:        append([]float64(nil), a.Weights...),
		Bias:           a.Bias,
		FeatureDim:     a.FeatureDim,
		Metric:         a.Metric,
		TrainedAt:      a.TrainedAt,
		TrainedThrough: a.TrainedThrough,
	}
}

// SaveActive inserts m and makes it the only active artifact.
func (r *ModelArtifactRepository) SaveActive(ctx context.Context, m *recommend.Model) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now().UTC()
	artifact := toArtifact(m)
	artifact.Active = true
	artifact.ActivatedAt = &now

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivateAll(tx); err != nil {
			return err
		}
		if err := tx.Create(&artifact).Error; err != nil {
			return fmt.Errorf("failed to save model artifact: %w", err)
		}
		return nil
	})
}

func deactivateAll(tx *gorm.DB) error {
	err := tx.Model(&domain.ModelArtifact{}).Where("active = ?", true).Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate model artifacts: %w", err)
	}
	return nil
}

func (r *ModelArtifactRepository) FindActive(ctx context.Context) (*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var a domain.ModelArtifact
	err := r.DB.WithContext(ctx).Where("active = ?", true).Order("activated_at DESC").First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active model: %w", err)
	}

	return toModel(a), nil
}

func (r *ModelArtifactRepository) FindByVersion(ctx context.Context, version string) (*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var a domain.ModelArtifact
	if err := r.DB.WithContext(ctx).Where("version = ?", version).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recommend.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to find model %s: %w", version, err)
	}

	return toModel(a), nil
}

func (r *ModelArtifactRepository) Activate(ctx context.Context, version string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivateAll(tx); err != nil {
			return err
		}

		result := tx.Model(&domain.ModelArtifact{}).Where("version = ?", version).
			Updates(map[string]any{"active": true, "activated_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to activate model %s: %w", version, result.Error)
		}
		if result.RowsAffected == 0 {
			return recommend.ErrModelNotFound
		}
		return nil
	})
}

// List returns every stored model, newest first.
func (r *ModelArtifactRepository) List(ctx context.Context) ([]*recommend.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ModelArtifact
	if err := r.DB.WithContext(ctx).Order("trained_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]*recommend.Model, 0, len(rows))
	for _, row := range rows {
		models = append(models, toModel(row))
	}
	return models, nil
}
