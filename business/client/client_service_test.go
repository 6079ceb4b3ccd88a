package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"caseAssist/business/recommend"
	"caseAssist/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uint) (domain.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindByEmail(ctx context.Context, email string) (domain.Client, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindAll(ctx context.Context, skip, limit int) ([]domain.Client, int64, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]domain.Client), args.Get(1).(int64), args.Error(2)
}

func (m *mockClientRepo) FindByCriteria(ctx context.Context, c Criteria) ([]domain.Client, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindByServices(ctx context.Context, f ServiceFilter) ([]domain.Client, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindBySuccessRate(ctx context.Context, minRate int) ([]domain.Client, error) {
	args := m.Called(ctx, minRate)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindByCaseWorker(ctx context.Context, userID uint) ([]domain.Client, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type mockCaseRepo struct{ mock.Mock }

func (m *mockCaseRepo) FindByClient(ctx context.Context, clientID uint) ([]domain.ClientCase, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.ClientCase), args.Error(1)
}

func (m *mockCaseRepo) FindByClientAndUser(ctx context.Context, clientID, userID uint) (domain.ClientCase, error) {
	args := m.Called(ctx, clientID, userID)
	return args.Get(0).(domain.ClientCase), args.Error(1)
}

func (m *mockCaseRepo) Create(ctx context.Context, c *domain.ClientCase) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCaseRepo) Update(ctx context.Context, c *domain.ClientCase) error {
	return m.Called(ctx, c).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockOutcomeRepo struct{ mock.Mock }

func (m *mockOutcomeRepo) Create(ctx context.Context, o *domain.CaseOutcome) error {
	return m.Called(ctx, o).Error(0)
}

type mockRecommender struct{ mock.Mock }

func (m *mockRecommender) Recommend(ctx context.Context, p recommend.ClientProfile) (recommend.Recommendation, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(recommend.Recommendation), args.Error(1)
}

type fixture struct {
	clients  *mockClientRepo
	cases    *mockCaseRepo
	users    *mockUserRepo
	outcomes *mockOutcomeRepo
	rec      *mockRecommender
	svc      *clientService
}

func newFixture() *fixture {
	f := &fixture{
		clients:  &mockClientRepo{},
		cases:    &mockCaseRepo{},
		users:    &mockUserRepo{},
		outcomes: &mockOutcomeRepo{},
		rec:      &mockRecommender{},
	}
	f.svc = NewClientService(f.clients, f.cases, f.users, f.outcomes, f.rec, validator.New())
	return f
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestCreateClient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.clients.On("FindByEmail", ctx, "ana@example.com").Return(domain.Client{}, domain.ErrNotFound)
	f.clients.On("Create", ctx, mock.AnythingOfType("*domain.Client")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Client).ID = 7 }).
		Return(nil)

	got, err := f.svc.CreateClient(ctx, &domain.Client{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, domain.CaseStatusNew, got.CaseStatus)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	f.clients.AssertExpectations(t)
}

func TestCreateClient_Rejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateClient(ctx, &domain.Client{Name: "Ana", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateClient(ctx, &domain.Client{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateClient(ctx, &domain.Client{Name: "Ana", Email: "ana@example.com", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.clients.On("FindByEmail", ctx, "taken@example.com").Return(domain.Client{ID: 3}, nil)
	_, err = f.svc.CreateClient(ctx, &domain.Client{Name: "Bo", Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	f.clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetClient_NotFound(t *testing.T) {
	f := newFixture()
	f.clients.On("FindByID", mock.Anything, uint(9)).Return(domain.Client{}, domain.ErrNotFound)

	_, err := f.svc.GetClient(context.Background(), 9)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetClients_Paging(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.GetClients(ctx, -1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.GetClients(ctx, 0, MaxPageSize+1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.clients.On("FindAll", ctx, 10, 5).Return([]domain.Client{{ID: 1}}, int64(42), nil)
	list, err := f.svc.GetClients(ctx, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), list.Total)
	assert.Len(t, list.Clients, 1)
}

func TestSearchByCriteria(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.SearchByCriteria(ctx, Criteria{AgeMin: intPtr(10)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SearchByCriteria(ctx, Criteria{AgeMin: intPtr(40), AgeMax: intPtr(30)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SearchByCriteria(ctx, Criteria{Equals: map[string]int{"shoe_size": 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SearchByCriteria(ctx, Criteria{Equals: map[string]int{"education_level": 20}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	c := Criteria{AgeMin: intPtr(20), Equals: map[string]int{"employment_status": 0}}
	f.clients.On("FindByCriteria", ctx, c).Return([]domain.Client{{ID: 2}}, nil)
	got, err := f.svc.SearchByCriteria(ctx, c)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCriteria_Conditions(t *testing.T) {
	c := Criteria{Equals: map[string]int{"housing": 3, "education_level": 5, "gender": 1}}
	assert.Equal(t, []Condition{
		{Column: "gender", Value: 1},
		{Column: "housing", Value: 3},
		{Column: "level_of_schooling", Value: 5},
	}, c.Conditions())
}

func TestServiceFilter(t *testing.T) {
	assert.ErrorIs(t, ServiceFilter{"yoga": true}.Validate(), ErrInvalidInput)

	f := ServiceFilter{"enhanced_referrals": false, "employment_assistance": true}
	require.NoError(t, f.Validate())
	assert.Equal(t, []Condition{
		{Column: "employment_assistance", Value: true},
		{Column: "enhanced_referrals", Value: false},
	}, f.Conditions())
}

func TestGetClientServices_Empty(t *testing.T) {
	f := newFixture()
	f.cases.On("FindByClient", mock.Anything, uint(4)).Return([]domain.ClientCase{}, nil)

	_, err := f.svc.GetClientServices(context.Background(), 4)
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestGetClientsBySuccessRate_Range(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetClientsBySuccessRate(context.Background(), 101)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetClientsByCaseWorker_UnknownWorker(t *testing.T) {
	f := newFixture()
	f.users.On("FindByID", mock.Anything, uint(5)).Return(domain.User{}, domain.ErrNotFound)

	_, err := f.svc.GetClientsByCaseWorker(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCaseWorkerNotFound)
}

func TestUpdateClient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	existing := domain.Client{ID: 1, Name: "Ana", Email: "ana@example.com", CaseStatus: "new", Priority: "low", Age: 30}

	f.clients.On("FindByID", ctx, uint(1)).Return(existing, nil)
	f.clients.On("Update", ctx, mock.AnythingOfType("*domain.Client")).Return(nil)

	got, err := f.svc.UpdateClient(ctx, 1, Update{Age: intPtr(31), CaseStatus: strPtr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
	assert.Equal(t, "in_progress", got.CaseStatus)
	assert.Equal(t, "Ana", got.Name)
}

func TestUpdateClient_EmailTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.clients.On("FindByID", ctx, uint(1)).Return(domain.Client{ID: 1, Name: "Ana", Email: "ana@example.com"}, nil)
	f.clients.On("FindByEmail", ctx, "bo@example.com").Return(domain.Client{ID: 2}, nil)

	_, err := f.svc.UpdateClient(ctx, 1, Update{Email: strPtr("bo@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateClientServices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cases.On("FindByClientAndUser", ctx, uint(1), uint(2)).Return(domain.ClientCase{ClientID: 1, UserID: 2}, nil)
	f.cases.On("Update", ctx, mock.AnythingOfType("*domain.ClientCase")).Return(nil)

	_, err := f.svc.UpdateClientServices(ctx, 1, 2, ServiceUpdate{SuccessRate: intPtr(120)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := f.svc.UpdateClientServices(ctx, 1, 2, ServiceUpdate{
		LifeStabilization: boolPtr(true),
		SuccessRate:       intPtr(80),
	})
	require.NoError(t, err)
	assert.True(t, got.LifeStabilization)
	assert.Equal(t, 80, got.SuccessRate)
	assert.Equal(t, []string{"life_stabilization"}, got.Services())
}

func TestUpdateClientServices_NoCase(t *testing.T) {
	f := newFixture()
	f.cases.On("FindByClientAndUser", mock.Anything, uint(1), uint(2)).Return(domain.ClientCase{}, domain.ErrNotFound)

	_, err := f.svc.UpdateClientServices(context.Background(), 1, 2, ServiceUpdate{})
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCreateCaseAssignment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.clients.On("FindByID", ctx, uint(1)).Return(domain.Client{ID: 1}, nil)
	f.users.On("FindByID", ctx, uint(2)).Return(domain.User{ID: 2}, nil)
	f.cases.On("FindByClientAndUser", ctx, uint(1), uint(2)).Return(domain.ClientCase{}, domain.ErrNotFound).Once()
	f.cases.On("Create", ctx, mock.AnythingOfType("*domain.ClientCase")).Return(nil)

	got, err := f.svc.CreateCaseAssignment(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ClientID)
	assert.Equal(t, uint(2), got.UserID)

	f.cases.On("FindByClientAndUser", ctx, uint(1), uint(2)).Return(domain.ClientCase{ClientID: 1, UserID: 2}, nil)
	_, err = f.svc.CreateCaseAssignment(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrDuplicateAssignment)
}

func TestDeleteClient(t *testing.T) {
	f := newFixture()
	f.clients.On("Delete", mock.Anything, uint(3)).Return(domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteClient(context.Background(), 3), ErrClientNotFound)
}

func TestRecordOutcome(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	f.clients.On("FindByID", ctx, uint(1)).Return(domain.Client{ID: 1, Age: 40, Gender: 2}, nil)
	f.cases.On("FindByClient", ctx, uint(1)).Return([]domain.ClientCase{
		{ClientID: 1, UserID: 2, EnhancedReferrals: true},
		{ClientID: 1, UserID: 3, EmploymentAssistance: true, EnhancedReferrals: true},
	}, nil)
	f.outcomes.On("Create", ctx, mock.AnythingOfType("*domain.CaseOutcome")).Return(nil)

	got, err := f.svc.RecordOutcome(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, got.Succeeded)
	assert.Equal(t, now, got.RecordedAt)
	assert.Equal(t, []string{"employment_assistance", "enhanced_referrals"}, []string(got.Interventions))
	assert.Equal(t, float64(40), got.Profile["age"])
	assert.Len(t, got.Profile, 24)
}

func TestRecordOutcome_NoServices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.clients.On("FindByID", ctx, uint(1)).Return(domain.Client{ID: 1}, nil)
	f.cases.On("FindByClient", ctx, uint(1)).Return([]domain.ClientCase{}, nil)
	f.outcomes.On("Create", ctx, mock.Anything).Return(nil)

	got, err := f.svc.RecordOutcome(ctx, 1, false)
	require.NoError(t, err)
	assert.NotNil(t, got.Interventions)
	assert.Empty(t, got.Interventions)
}

func TestRecommend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := domain.Client{ID: 1, Age: 25}

	f.clients.On("FindByID", ctx, uint(1)).Return(c, nil)
	want := recommend.Recommendation{ModelVersion: "v1", Baseline: 0.4}
	f.rec.On("Recommend", ctx, ProfileFromClient(c)).Return(want, nil).Once()

	got, err := f.svc.Recommend(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	f.rec.On("Recommend", ctx, mock.Anything).Return(recommend.Recommendation{}, recommend.ErrModelUnavailable)
	_, err = f.svc.Recommend(ctx, 1)
	assert.True(t, errors.Is(err, recommend.ErrModelUnavailable))
}

func TestProfileFromClient_MatchesSchema(t *testing.T) {
	profile := ProfileFromClient(domain.Client{})
	for _, attr := range recommend.DefaultSchema() {
		_, ok := profile[attr.Name]
		assert.True(t, ok, attr.Name)
	}
	assert.Len(t, profile, len(recommend.DefaultSchema()))
}
