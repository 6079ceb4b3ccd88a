package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"caseAssist/business/client"
	"caseAssist/business/recommend"
	"caseAssist/domain"
	"caseAssist/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultMinSuccessRate = 70

type ClientService interface {
	CreateClient(ctx context.Context, c *domain.Client) (domain.Client, error)
	GetClient(ctx context.Context, id uint) (domain.Client, error)
	GetClients(ctx context.Context, skip, limit int) (domain.ClientList, error)
	SearchByCriteria(ctx context.Context, criteria client.Criteria) ([]domain.Client, error)
	SearchByServices(ctx context.Context, filter client.ServiceFilter) ([]domain.Client, error)
	GetClientServices(ctx context.Context, clientID uint) ([]domain.ClientCase, error)
	GetClientsBySuccessRate(ctx context.Context, minRate int) ([]domain.Client, error)
	GetClientsByCaseWorker(ctx context.Context, userID uint) ([]domain.Client, error)
	UpdateClient(ctx context.Context, id uint, update client.Update) (domain.Client, error)
	UpdateClientServices(ctx context.Context, clientID, userID uint, update client.ServiceUpdate) (domain.ClientCase, error)
	CreateCaseAssignment(ctx context.Context, clientID, userID uint) (domain.ClientCase, error)
	DeleteClient(ctx context.Context, id uint) error
	RecordOutcome(ctx context.Context, clientID uint, succeeded bool) (domain.CaseOutcome, error)
	Recommend(ctx context.Context, clientID uint) (recommend.Recommendation, error)
}

type ClientHandler struct {
	clientService ClientService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewClientHandler(clientService ClientService, validate *validator.Validate) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		validator:     validate,
		timeout:       10 * time.Second,
	}
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"max=20"`

	Age                         int `json:"age" validate:"gte=18,lte=100"`
	Gender                      int `json:"gender" validate:"gte=1,lte=2"`
	WorkExperience              int `json:"work_experience" validate:"gte=0,lte=60"`
	CanadaWorkex                int `json:"canada_workex" validate:"gte=0,lte=60"`
	DepNum                      int `json:"dep_num" validate:"gte=0,lte=20"`
	CanadaBorn                  int `json:"canada_born" validate:"gte=0,lte=1"`
	CitizenStatus               int `json:"citizen_status" validate:"gte=0,lte=1"`
	LevelOfSchooling            int `json:"level_of_schooling" validate:"gte=1,lte=14"`
	FluentEnglish               int `json:"fluent_english" validate:"gte=0,lte=1"`
	ReadingEnglishScale         int `json:"reading_english_scale" validate:"gte=0,lte=10"`
	SpeakingEnglishScale        int `json:"speaking_english_scale" validate:"gte=0,lte=10"`
	WritingEnglishScale         int `json:"writing_english_scale" validate:"gte=0,lte=10"`
	NumeracyScale               int `json:"numeracy_scale" validate:"gte=0,lte=10"`
	ComputerScale               int `json:"computer_scale" validate:"gte=0,lte=10"`
	TransportationBool          int `json:"transportation_bool" validate:"gte=0,lte=1"`
	CaregiverBool               int `json:"caregiver_bool" validate:"gte=0,lte=1"`
	Housing                     int `json:"housing" validate:"gte=1,lte=10"`
	IncomeSource                int `json:"income_source" validate:"gte=1,lte=11"`
	FelonyBool                  int `json:"felony_bool" validate:"gte=0,lte=1"`
	AttendingSchool             int `json:"attending_school" validate:"gte=0,lte=1"`
	CurrentlyEmployed           int `json:"currently_employed" validate:"gte=0,lte=1"`
	SubstanceUse                int `json:"substance_use" validate:"gte=0,lte=1"`
	TimeUnemployed              int `json:"time_unemployed" validate:"gte=0,lte=120"`
	NeedMentalHealthSupportBool int `json:"need_mental_health_support_bool" validate:"gte=0,lte=1"`

	CaseStatus string `json:"case_status" validate:"omitempty,oneof=new in_progress closed"`
	CaseType   string `json:"case_type" validate:"max=100"`
	AssignedTo string `json:"assigned_to" validate:"max=100"`
	Priority   string `json:"priority" validate:"omitempty,oneof=low medium high"`
	CaseNotes  string `json:"case_notes"`
}

func (r CreateClientRequest) toDomain() *domain.Client {
	return &domain.Client{
		Name:                        r.Name,
		Email:                       r.Email,
		Phone:                       r.Phone,
		Age:                         r.Age,
		Gender:                      r.Gender,
		WorkExperience:              r.WorkExperience,
		CanadaWorkex:                r.CanadaWorkex,
		DepNum:                      r.DepNum,
		CanadaBorn:                  r.CanadaBorn,
		CitizenStatus:               r.CitizenStatus,
		LevelOfSchooling:            r.LevelOfSchooling,
		FluentEnglish:               r.FluentEnglish,
		ReadingEnglishScale:         r.ReadingEnglishScale,
		SpeakingEnglishScale:        r.SpeakingEnglishScale,
		WritingEnglishScale:         r.WritingEnglishScale,
		NumeracyScale:               r.NumeracyScale,
		ComputerScale:               r.ComputerScale,
		TransportationBool:          r.TransportationBool,
		CaregiverBool:               r.CaregiverBool,
		Housing:                     r.Housing,
		IncomeSource:                r.IncomeSource,
		FelonyBool:                  r.FelonyBool,
		AttendingSchool:             r.AttendingSchool,
		CurrentlyEmployed:           r.CurrentlyEmployed,
		SubstanceUse:                r.SubstanceUse,
		TimeUnemployed:              r.TimeUnemployed,
		NeedMentalHealthSupportBool: r.NeedMentalHealthSupportBool,
		CaseStatus:                  r.CaseStatus,
		CaseType:                    r.CaseType,
		AssignedTo:                  r.AssignedTo,
		Priority:                    r.Priority,
		CaseNotes:                   r.CaseNotes,
	}
}

// UpdateClientRequest mirrors client.Update field for field so one converts
// to the other.
type UpdateClientRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`

	Age                         *int `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender                      *int `json:"gender" validate:"omitempty,gte=1,lte=2"`
	WorkExperience              *int `json:"work_experience" validate:"omitempty,gte=0,lte=60"`
	CanadaWorkex                *int `json:"canada_workex" validate:"omitempty,gte=0,lte=60"`
	DepNum                      *int `json:"dep_num" validate:"omitempty,gte=0,lte=20"`
	CanadaBorn                  *int `json:"canada_born" validate:"omitempty,gte=0,lte=1"`
	CitizenStatus               *int `json:"citizen_status" validate:"omitempty,gte=0,lte=1"`
	LevelOfSchooling            *int `json:"level_of_schooling" validate:"omitempty,gte=1,lte=14"`
	FluentEnglish               *int `json:"fluent_english" validate:"omitempty,gte=0,lte=1"`
	ReadingEnglishScale         *int `json:"reading_english_scale" validate:"omitempty,gte=0,lte=10"`
	SpeakingEnglishScale        *int `json:"speaking_english_scale" validate:"omitempty,gte=0,lte=10"`
	WritingEnglishScale         *int `json:"writing_english_scale" validate:"omitempty,gte=0,lte=10"`
	NumeracyScale               *int `json:"numeracy_scale" validate:"omitempty,gte=0,lte=10"`
	ComputerScale               *int `json:"computer_scale" validate:"omitempty,gte=0,lte=10"`
	TransportationBool          *int `json:"transportation_bool" validate:"omitempty,gte=0,lte=1"`
	CaregiverBool               *int `json:"caregiver_bool" validate:"omitempty,gte=0,lte=1"`
	Housing                     *int `json:"housing" validate:"omitempty,gte=1,lte=10"`
	IncomeSource                *int `json:"income_source" validate:"omitempty,gte=1,lte=11"`
	FelonyBool                  *int `json:"felony_bool" validate:"omitempty,gte=0,lte=1"`
	AttendingSchool             *int `json:"attending_school" validate:"omitempty,gte=0,lte=1"`
	CurrentlyEmployed           *int `json:"currently_employed" validate:"omitempty,gte=0,lte=1"`
	SubstanceUse                *int `json:"substance_use" validate:"omitempty,gte=0,lte=1"`
	TimeUnemployed              *int `json:"time_unemployed" validate:"omitempty,gte=0,lte=120"`
	NeedMentalHealthSupportBool *int `json:"need_mental_health_support_bool" validate:"omitempty,gte=0,lte=1"`

	CaseStatus *string `json:"case_status" validate:"omitempty,oneof=new in_progress closed"`
	CaseType   *string `json:"case_type" validate:"omitempty,max=100"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,max=100"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	CaseNotes  *string `json:"case_notes"`
}

// ServiceUpdateRequest mirrors client.ServiceUpdate.
type ServiceUpdateRequest struct {
	EmploymentAssistance               *bool `json:"employment_assistance"`
	LifeStabilization                  *bool `json:"life_stabilization"`
	RetentionServices                  *bool `json:"retention_services"`
	SpecializedServices                *bool `json:"specialized_services"`
	EmploymentRelatedFinancialSupports *bool `json:"employment_related_financial_supports"`
	EmployerFinancialSupports          *bool `json:"employer_financial_supports"`
	EnhancedReferrals                  *bool `json:"enhanced_referrals"`
	SuccessRate                        *int  `json:"success_rate" validate:"omitempty,gte=0,lte=100"`
}

type OutcomeRequest struct {
	Succeeded *bool `json:"succeeded" validate:"required"`
}

func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryInt(c echo.Context, name string, def int) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *ClientHandler) bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		logger.Warn("Failed to bind request", "path", c.Path(), "error", err)
		return err
	}
	return h.validator.Struct(req)
}

func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := h.bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.clientService.CreateClient(ctx, req.toDomain())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *ClientHandler) GetClients(c echo.Context) error {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return badRequest(c, "invalid skip")
	}
	limit, ok := queryInt(c, "limit", client.DefaultPageSize)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.clientService.GetClients(ctx, skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

func (h *ClientHandler) GetClient(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.clientService.GetClient(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, found)
}

func (h *ClientHandler) UpdateClient(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	var req UpdateClientRequest
	if err := h.bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.clientService.UpdateClient(ctx, id, client.Update(req))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.clientService.DeleteClient(ctx, id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SearchByCriteria filters on age bounds plus any parameter named in
// client.CriteriaFields. Other parameters are ignored.
func (h *ClientHandler) SearchByCriteria(c echo.Context) error {
	var criteria client.Criteria

	for name, dst := range map[string]**int{"age_min": &criteria.AgeMin, "age_max": &criteria.AgeMax} {
		if c.QueryParam(name) == "" {
			continue
		}
		v, ok := queryInt(c, name, 0)
		if !ok {
			return badRequest(c, "invalid "+name)
		}
		*dst = &v
	}

	for name := range client.CriteriaFields {
		if c.QueryParam(name) == "" {
			continue
		}
		v, ok := queryInt(c, name, 0)
		if !ok {
			return badRequest(c, "invalid "+name)
		}
		if criteria.Equals == nil {
			criteria.Equals = map[string]int{}
		}
		criteria.Equals[name] = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	clients, err := h.clientService.SearchByCriteria(ctx, criteria)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) SearchByServices(c echo.Context) error {
	filter := client.ServiceFilter{}
	for _, opt := range recommend.DefaultOptions() {
		raw := c.QueryParam(string(opt))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid "+string(opt))
		}
		filter[string(opt)] = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	clients, err := h.clientService.SearchByServices(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClientsBySuccessRate(c echo.Context) error {
	minRate, ok := queryInt(c, "min_rate", defaultMinSuccessRate)
	if !ok {
		return badRequest(c, "invalid min_rate")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	clients, err := h.clientService.GetClientsBySuccessRate(ctx, minRate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClientsByCaseWorker(c echo.Context) error {
	userID, ok := parseID(c, "case_worker_id")
	if !ok {
		return badRequest(c, "invalid case worker id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	clients, err := h.clientService.GetClientsByCaseWorker(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClientServices(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cases, err := h.clientService.GetClientServices(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cases)
}

func (h *ClientHandler) UpdateClientServices(c echo.Context) error {
	clientID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	var req ServiceUpdateRequest
	if err := h.bindValid(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.clientService.UpdateClientServices(ctx, clientID, userID, client.ServiceUpdate(req))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *ClientHandler) CreateCaseAssignment(c echo.Context) error {
	clientID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}
	userID, err := strconv.ParseUint(c.QueryParam("case_worker_id"), 10, 64)
	if err != nil || userID == 0 {
		return badRequest(c, "case_worker_id is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	assignment, err := h.clientService.CreateCaseAssignment(ctx, clientID, uint(userID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, assignment)
}

func (h *ClientHandler) RecordOutcome(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	var req OutcomeRequest
	if err := h.bindValid(c, &req); err != nil {
		return badRequest(c, "succeeded is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	outcome, err := h.clientService.RecordOutcome(ctx, id, *req.Succeeded)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(outcome))
}

func (h *ClientHandler) Recommend(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid client id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.clientService.Recommend(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}
