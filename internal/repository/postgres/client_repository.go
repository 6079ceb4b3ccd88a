package postgres

import (
	"context"
	"errors"
	"fmt"

	"caseAssist/business/client"
	"caseAssist/domain"

	"gorm.io/gorm"
)

type ClientRepository struct {
	DB *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{
		DB: db,
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint) (domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return domain.Client{}, fmt.Errorf("context error: %w", err)
	}

	var c domain.Client
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to find client: %w", err)
	}

	return c, nil
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return domain.Client{}, fmt.Errorf("context error: %w", err)
	}

	var c domain.Client
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to find client: %w", err)
	}

	return c, nil
}

func (r *ClientRepository) FindAll(ctx context.Context, skip, limit int) ([]domain.Client, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&domain.Client{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []domain.Client
	err := r.DB.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&clients).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find clients: %w", err)
	}

	return clients, total, nil
}

func (r *ClientRepository) FindByCriteria(ctx context.Context, criteria client.Criteria) ([]domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Client{})
	if criteria.AgeMin != nil {
		q = q.Where("age >= ?", *criteria.AgeMin)
	}
	if criteria.AgeMax != nil {
		q = q.Where("age <= ?", *criteria.AgeMax)
	}
	// column names come from client.CriteriaFields, never from the request
	for _, cond := range criteria.Conditions() {
		q = q.Where(fmt.Sprintf("%s = ?", cond.Column), cond.Value)
	}

	var clients []domain.Client
	if err := q.Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}

	return clients, nil
}

// joinCases returns a query over clients that have at least one case row
// matching the conditions added by the caller.
func (r *ClientRepository) joinCases(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&domain.Client{}).
		Distinct("clients.*").
		Joins("JOIN client_cases ON client_cases.client_id = clients.id")
}

func (r *ClientRepository) FindByServices(ctx context.Context, filter client.ServiceFilter) ([]domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.joinCases(ctx)
	for _, cond := range filter.Conditions() {
		q = q.Where(fmt.Sprintf("client_cases.%s = ?", cond.Column), cond.Value)
	}

	var clients []domain.Client
	if err := q.Order("clients.id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients by services: %w", err)
	}

	return clients, nil
}

func (r *ClientRepository) FindBySuccessRate(ctx context.Context, minRate int) ([]domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var clients []domain.Client
	err := r.joinCases(ctx).
		Where("client_cases.success_rate >= ?", minRate).
		Order("clients.id").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find clients by success rate: %w", err)
	}

	return clients, nil
}

func (r *ClientRepository) FindByCaseWorker(ctx context.Context, userID uint) ([]domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var clients []domain.Client
	err := r.joinCases(ctx).
		Where("client_cases.user_id = ?", userID).
		Order("clients.id").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find clients by case worker: %w", err)
	}

	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", c.ID).
		Select("*").Omit("id", "created_at").
		Updates(c)
	if result.Error != nil {
		return fmt.Errorf("failed to update client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes the client and its cases in one transaction.
func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&domain.ClientCase{}).Error; err != nil {
			return fmt.Errorf("failed to delete client cases: %w", err)
		}

		result := tx.Delete(&domain.Client{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete client: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
