package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caseAssist/business/recommend"
	"caseAssist/domain"
	"caseAssist/pkg/logger"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrCaseWorkerNotFound  = errors.New("case worker not found")
	ErrCaseNotFound        = errors.New("case not found")
	ErrDuplicateAssignment = errors.New("client already assigned to this case worker")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidInput        = errors.New("invalid input")
)

const (
	MaxPageSize     = 150
	DefaultPageSize = 50
)

// ClientRepository contract interface
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id uint) (domain.Client, error)
	FindByEmail(ctx context.Context, email string) (domain.Client, error)
	FindAll(ctx context.Context, skip, limit int) ([]domain.Client, int64, error)
	FindByCriteria(ctx context.Context, criteria Criteria) ([]domain.Client, error)
	FindByServices(ctx context.Context, filter ServiceFilter) ([]domain.Client, error)
	FindBySuccessRate(ctx context.Context, minRate int) ([]domain.Client, error)
	FindByCaseWorker(ctx context.Context, userID uint) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uint) error
}

// CaseRepository contract interface
type CaseRepository interface {
	FindByClient(ctx context.Context, clientID uint) ([]domain.ClientCase, error)
	FindByClientAndUser(ctx context.Context, clientID, userID uint) (domain.ClientCase, error)
	Create(ctx context.Context, c *domain.ClientCase) error
	Update(ctx context.Context, c *domain.ClientCase) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OutcomeRepository interface {
	Create(ctx context.Context, outcome *domain.CaseOutcome) error
}

type Recommender interface {
	Recommend(ctx context.Context, profile recommend.ClientProfile) (recommend.Recommendation, error)
}

type clientService struct {
	clientRepo  ClientRepository
	caseRepo    CaseRepository
	userRepo    UserRepository
	outcomeRepo OutcomeRepository
	recommender Recommender
	validate    *validator.Validate
	now         func() time.Time
}

func NewClientService(
	clientRepo ClientRepository,
	caseRepo CaseRepository,
	userRepo UserRepository,
	outcomeRepo OutcomeRepository,
	recommender Recommender,
	validate *validator.Validate,
) *clientService {
	return &clientService{
		clientRepo:  clientRepo,
		caseRepo:    caseRepo,
		userRepo:    userRepo,
		outcomeRepo: outcomeRepo,
		recommender: recommender,
		validate:    validate,
		now:         time.Now,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *clientService) validateCaseFields(c *domain.Client) error {
	if err := s.validate.Var(c.Email, "required,email"); err != nil {
		return invalid("email must be a valid address")
	}
	if err := s.validate.Var(c.CaseStatus, "oneof=new in_progress closed"); err != nil {
		return invalid("case_status must be one of new, in_progress, closed")
	}
	if err := s.validate.Var(c.Priority, "oneof=low medium high"); err != nil {
		return invalid("priority must be one of low, medium, high")
	}
	return nil
}

func (s *clientService) CreateClient(ctx context.Context, c *domain.Client) (domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return domain.Client{}, fmt.Errorf("context error: %w", err)
	}

	if c.CaseStatus == "" {
		c.CaseStatus = domain.CaseStatusNew
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}
	if c.Name == "" {
		return domain.Client{}, invalid("name is required")
	}
	if err := s.validateCaseFields(c); err != nil {
		return domain.Client{}, err
	}

	if existing, err := s.clientRepo.FindByEmail(ctx, c.Email); err == nil && existing.ID > 0 {
		return domain.Client{}, ErrEmailTaken
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		logger.Error("Failed to create client", "error", err)
		return domain.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	return *c, nil
}

func (s *clientService) GetClient(ctx context.Context, id uint) (domain.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		logger.Error("Failed to get client", "client_id", id, "error", err)
		return domain.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (s *clientService) GetClients(ctx context.Context, skip, limit int) (domain.ClientList, error) {
	if skip < 0 {
		return domain.ClientList{}, invalid("skip cannot be negative")
	}
	if limit < 1 || limit > MaxPageSize {
		return domain.ClientList{}, invalid("limit must be between 1 and %d", MaxPageSize)
	}

	clients, total, err := s.clientRepo.FindAll(ctx, skip, limit)
	if err != nil {
		logger.Error("Failed to list clients", "error", err)
		return domain.ClientList{}, fmt.Errorf("failed to list clients: %w", err)
	}

	return domain.ClientList{Clients: clients, Total: total}, nil
}

func (s *clientService) SearchByCriteria(ctx context.Context, criteria Criteria) ([]domain.Client, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.FindByCriteria(ctx, criteria)
	if err != nil {
		logger.Error("Failed to search clients by criteria", "error", err)
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) SearchByServices(ctx context.Context, filter ServiceFilter) ([]domain.Client, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.FindByServices(ctx, filter)
	if err != nil {
		logger.Error("Failed to search clients by services", "error", err)
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) GetClientServices(ctx context.Context, clientID uint) ([]domain.ClientCase, error) {
	cases, err := s.caseRepo.FindByClient(ctx, clientID)
	if err != nil {
		logger.Error("Failed to get client services", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to get client services: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: no services for client %d", ErrCaseNotFound, clientID)
	}
	return cases, nil
}

func (s *clientService) GetClientsBySuccessRate(ctx context.Context, minRate int) ([]domain.Client, error) {
	if minRate < 0 || minRate > 100 {
		return nil, invalid("success rate must be between 0 and 100")
	}

	clients, err := s.clientRepo.FindBySuccessRate(ctx, minRate)
	if err != nil {
		logger.Error("Failed to get clients by success rate", "error", err)
		return nil, fmt.Errorf("failed to get clients by success rate: %w", err)
	}
	return clients, nil
}

func (s *clientService) GetClientsByCaseWorker(ctx context.Context, userID uint) ([]domain.Client, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCaseWorkerNotFound
		}
		return nil, fmt.Errorf("failed to get case worker: %w", err)
	}

	clients, err := s.clientRepo.FindByCaseWorker(ctx, userID)
	if err != nil {
		logger.Error("Failed to get clients by case worker", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get clients by case worker: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id uint, update Update) (domain.Client, error) {
	existing, err := s.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	if update.Email != nil && *update.Email != existing.Email {
		if other, err := s.clientRepo.FindByEmail(ctx, *update.Email); err == nil && other.ID != id {
			return domain.Client{}, ErrEmailTaken
		}
	}

	update.apply(&existing)
	if existing.Name == "" {
		return domain.Client{}, invalid("name cannot be empty")
	}
	if err := s.validateCaseFields(&existing); err != nil {
		return domain.Client{}, err
	}

	if err := s.clientRepo.Update(ctx, &existing); err != nil {
		logger.Error("Failed to update client", "client_id", id, "error", err)
		return domain.Client{}, fmt.Errorf("failed to update client: %w", err)
	}
	return existing, nil
}

func (s *clientService) UpdateClientServices(ctx context.Context, clientID, userID uint, update ServiceUpdate) (domain.ClientCase, error) {
	c, err := s.caseRepo.FindByClientAndUser(ctx, clientID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ClientCase{}, fmt.Errorf("%w: client %d has no case with case worker %d", ErrCaseNotFound, clientID, userID)
		}
		return domain.ClientCase{}, fmt.Errorf("failed to get case: %w", err)
	}

	if update.SuccessRate != nil && (*update.SuccessRate < 0 || *update.SuccessRate > 100) {
		return domain.ClientCase{}, invalid("success_rate must be between 0 and 100")
	}
	update.apply(&c)

	if err := s.caseRepo.Update(ctx, &c); err != nil {
		logger.Error("Failed to update client services", "client_id", clientID, "user_id", userID, "error", err)
		return domain.ClientCase{}, fmt.Errorf("failed to update client services: %w", err)
	}
	return c, nil
}

func (s *clientService) CreateCaseAssignment(ctx context.Context, clientID, userID uint) (domain.ClientCase, error) {
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return domain.ClientCase{}, err
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ClientCase{}, ErrCaseWorkerNotFound
		}
		return domain.ClientCase{}, fmt.Errorf("failed to get case worker: %w", err)
	}

	_, err := s.caseRepo.FindByClientAndUser(ctx, clientID, userID)
	switch {
	case err == nil:
		return domain.ClientCase{}, ErrDuplicateAssignment
	case !errors.Is(err, domain.ErrNotFound):
		return domain.ClientCase{}, fmt.Errorf("failed to check assignment: %w", err)
	}

	c := domain.ClientCase{ClientID: clientID, UserID: userID}
	if err := s.caseRepo.Create(ctx, &c); err != nil {
		logger.Error("Failed to create case assignment", "client_id", clientID, "user_id", userID, "error", err)
		return domain.ClientCase{}, fmt.Errorf("failed to create case assignment: %w", err)
	}
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id uint) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrClientNotFound
		}
		logger.Error("Failed to delete client", "client_id", id, "error", err)
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// RecordOutcome stores a training example from the client's current
// assessment and the union of services across their cases.
func (s *clientService) RecordOutcome(ctx context.Context, clientID uint, succeeded bool) (domain.CaseOutcome, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return domain.CaseOutcome{}, err
	}

	cases, err := s.caseRepo.FindByClient(ctx, clientID)
	if err != nil {
		return domain.CaseOutcome{}, fmt.Errorf("failed to get client services: %w", err)
	}

	profile := datatypes.JSONMap{}
	for k, v := range ProfileFromClient(c) {
		profile[k] = v
	}

	outcome := domain.CaseOutcome{
		ClientID:      clientID,
		Profile:       profile,
		Interventions: datatypes.JSONSlice[string](deliveredServices(cases)),
		Succeeded:     succeeded,
		RecordedAt:    s.now().UTC(),
	}

	if err := s.outcomeRepo.Create(ctx, &outcome); err != nil {
		logger.Error("Failed to record outcome", "client_id", clientID, "error", err)
		return domain.CaseOutcome{}, fmt.Errorf("failed to record outcome: %w", err)
	}

	logger.Info("Outcome recorded",
		"trace_id", recommend.TraceIDFromContext(ctx),
		"client_id", clientID,
		"succeeded", succeeded,
		"interventions", len(outcome.Interventions),
	)
	return outcome, nil
}

func (s *clientService) Recommend(ctx context.Context, clientID uint) (recommend.Recommendation, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return recommend.Recommendation{}, err
	}

	rec, err := s.recommender.Recommend(ctx, ProfileFromClient(c))
	if err != nil {
		return recommend.Recommendation{}, fmt.Errorf("failed to recommend for client %d: %w", clientID, err)
	}
	return rec, nil
}

func deliveredServices(cases []domain.ClientCase) []string {
	seen := map[string]bool{}
	var out []string
	for _, opt := range recommend.DefaultOptions() {
		for _, c := range cases {
			for _, svc := range c.Services() {
				if svc == string(opt) && !seen[svc] {
					seen[svc] = true
					out = append(out, svc)
				}
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
