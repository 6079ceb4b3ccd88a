package postgres

import (
	"context"
	"errors"
	"fmt"

	"caseAssist/domain"

	"gorm.io/gorm"
)

type ClientCaseRepository struct {
	DB *gorm.DB
}

func NewClientCaseRepository(db *gorm.DB) *ClientCaseRepository {
	return &ClientCaseRepository{
		DB: db,
	}
}

func (r *ClientCaseRepository) FindByClient(ctx context.Context, clientID uint) ([]domain.ClientCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var cases []domain.ClientCase
	err := r.DB.WithContext(ctx).Where("client_id = ?", clientID).Order("user_id").Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find client cases: %w", err)
	}

	return cases, nil
}

func (r *ClientCaseRepository) FindByClientAndUser(ctx context.Context, clientID, userID uint) (domain.ClientCase, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClientCase{}, fmt.Errorf("context error: %w", err)
	}

	var c domain.ClientCase
	err := r.DB.WithContext(ctx).Where("client_id = ? AND user_id = ?", clientID, userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ClientCase{}, domain.ErrNotFound
		}
		return domain.ClientCase{}, fmt.Errorf("failed to find client case: %w", err)
	}

	return c, nil
}

func (r *ClientCaseRepository) Create(ctx context.Context, c *domain.ClientCase) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create client case: %w", err)
	}

	return nil
}

func (r *ClientCaseRepository) Update(ctx context.Context, c *domain.ClientCase) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.ClientCase{}).
		Where("client_id = ? AND user_id = ?", c.ClientID, c.UserID).
		Select(
			"employment_assistance",
			"life_stabilization",
			"retention_services",
			"specialized_services",
			"employment_related_financial_supports",
			"employer_financial_supports",
			"enhanced_referrals",
			"success_rate",
		).
		Updates(c)
	if result.Error != nil {
		return fmt.Errorf("failed to update client case: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
