package client

import (
	"slices"
	"strings"

	"caseAssist/business/recommend"
	"caseAssist/domain"
)

// CriteriaField maps a search parameter onto a client column and its
// accepted range.
type CriteriaField struct {
	Column string
	Min    int
	Max    int
}

// CriteriaFields are the equality filters accepted by SearchByCriteria, keyed
// by parameter name.
var CriteriaFields = map[string]CriteriaField{
	"employment_status":               {Column: "currently_employed", Min: 0, Max: 1},
	"education_level":                 {Column: "level_of_schooling", Min: 1, Max: 14},
	"gender":                          {Column: "gender", Min: 1, Max: 2},
	"work_experience":                 {Column: "work_experience", Min: 0, Max: 60},
	"canada_workex":                   {Column: "canada_workex", Min: 0, Max: 60},
	"dep_num":                         {Column: "dep_num", Min: 0, Max: 20},
	"canada_born":                     {Column: "canada_born", Min: 0, Max: 1},
	"citizen_status":                  {Column: "citizen_status", Min: 0, Max: 1},
	"fluent_english":                  {Column: "fluent_english", Min: 0, Max: 1},
	"reading_english_scale":           {Column: "reading_english_scale", Min: 0, Max: 10},
	"speaking_english_scale":          {Column: "speaking_english_scale", Min: 0, Max: 10},
	"writing_english_scale":           {Column: "writing_english_scale", Min: 0, Max: 10},
	"numeracy_scale":                  {Column: "numeracy_scale", Min: 0, Max: 10},
	"computer_scale":                  {Column: "computer_scale", Min: 0, Max: 10},
	"transportation_bool":             {Column: "transportation_bool", Min: 0, Max: 1},
	"caregiver_bool":                  {Column: "caregiver_bool", Min: 0, Max: 1},
	"housing":                         {Column: "housing", Min: 1, Max: 10},
	"income_source":                   {Column: "income_source", Min: 1, Max: 11},
	"felony_bool":                     {Column: "felony_bool", Min: 0, Max: 1},
	"attending_school":                {Column: "attending_school", Min: 0, Max: 1},
	"substance_use":                   {Column: "substance_use", Min: 0, Max: 1},
	"time_unemployed":                 {Column: "time_unemployed", Min: 0, Max: 120},
	"need_mental_health_support_bool": {Column: "need_mental_health_support_bool", Min: 0, Max: 1},
}

// Condition is a single column = value filter.
type Condition struct {
	Column string
	Value  any
}

type Criteria struct {
	AgeMin *int
	AgeMax *int
	Equals map[string]int
}

func (c Criteria) Validate() error {
	if c.AgeMin != nil && *c.AgeMin < 18 {
		return invalid("age_min must be at least 18")
	}
	if c.AgeMax != nil && *c.AgeMax > 100 {
		return invalid("age_max must be at most 100")
	}
	if c.AgeMin != nil && c.AgeMax != nil && *c.AgeMin > *c.AgeMax {
		return invalid("age_min cannot exceed age_max")
	}
	for name, v := range c.Equals {
		f, ok := CriteriaFields[name]
		if !ok {
			return invalid("unknown search field %q", name)
		}
		if v < f.Min || v > f.Max {
			return invalid("%s must be between %d and %d", name, f.Min, f.Max)
		}
	}
	return nil
}

// Conditions returns the equality filters ordered by column name.
func (c Criteria) Conditions() []Condition {
	var out []Condition
	for name, v := range c.Equals {
		out = append(out, Condition{Column: CriteriaFields[name].Column, Value: v})
	}
	sortConditions(out)
	return out
}

func sortConditions(cs []Condition) {
	slices.SortFunc(cs, func(a, b Condition) int {
		return strings.Compare(a.Column, b.Column)
	})
}

// ServiceFilter selects clients by service flags on any of their cases.
type ServiceFilter map[string]bool

func (f ServiceFilter) Validate() error {
	for name := range f {
		if !isService(name) {
			return invalid("unknown service %q", name)
		}
	}
	return nil
}

// Conditions returns the filters in catalog order.
func (f ServiceFilter) Conditions() []Condition {
	var out []Condition
	for _, opt := range recommend.DefaultOptions() {
		if v, ok := f[string(opt)]; ok {
			out = append(out, Condition{Column: string(opt), Value: v})
		}
	}
	return out
}

func isService(name string) bool {
	for _, opt := range recommend.DefaultOptions() {
		if string(opt) == name {
			return true
		}
	}
	return false
}

// Update is a partial client update; nil fields are left unchanged.
type Update struct {
	Name  *string
	Email *string
	Phone *string

	Age                         *int
	Gender                      *int
	WorkExperience              *int
	CanadaWorkex                *int
	DepNum                      *int
	CanadaBorn                  *int
	CitizenStatus               *int
	LevelOfSchooling            *int
	FluentEnglish               *int
	ReadingEnglishScale         *int
	SpeakingEnglishScale        *int
	WritingEnglishScale         *int
	NumeracyScale               *int
	ComputerScale               *int
	TransportationBool          *int
	CaregiverBool               *int
	Housing                     *int
	IncomeSource                *int
	FelonyBool                  *int
	AttendingSchool             *int
	CurrentlyEmployed           *int
	SubstanceUse                *int
	TimeUnemployed              *int
	NeedMentalHealthSupportBool *int

	CaseStatus *string
	CaseType   *string
	AssignedTo *string
	Priority   *string
	CaseNotes  *string
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (u Update) apply(c *domain.Client) {
	set(&c.Name, u.Name)
	set(&c.Email, u.Email)
	set(&c.Phone, u.Phone)

	set(&c.Age, u.Age)
	set(&c.Gender, u.Gender)
	set(&c.WorkExperience, u.WorkExperience)
	set(&c.CanadaWorkex, u.CanadaWorkex)
	set(&c.DepNum, u.DepNum)
	set(&c.CanadaBorn, u.CanadaBorn)
	set(&c.CitizenStatus, u.CitizenStatus)
	set(&c.LevelOfSchooling, u.LevelOfSchooling)
	set(&c.FluentEnglish, u.FluentEnglish)
	set(&c.ReadingEnglishScale, u.ReadingEnglishScale)
	set(&c.SpeakingEnglishScale, u.SpeakingEnglishScale)
	set(&c.WritingEnglishScale, u.WritingEnglishScale)
	set(&c.NumeracyScale, u.NumeracyScale)
	set(&c.ComputerScale, u.ComputerScale)
	set(&c.TransportationBool, u.TransportationBool)
	set(&c.CaregiverBool, u.CaregiverBool)
	set(&c.Housing, u.Housing)
	set(&c.IncomeSource, u.IncomeSource)
	set(&c.FelonyBool, u.FelonyBool)
	set(&c.AttendingSchool, u.AttendingSchool)
	set(&c.CurrentlyEmployed, u.CurrentlyEmployed)
	set(&c.SubstanceUse, u.SubstanceUse)
	set(&c.TimeUnemployed, u.TimeUnemployed)
	set(&c.NeedMentalHealthSupportBool, u.NeedMentalHealthSupportBool)

	set(&c.CaseStatus, u.CaseStatus)
	set(&c.CaseType, u.CaseType)
	set(&c.AssignedTo, u.AssignedTo)
	set(&c.Priority, u.Priority)
	set(&c.CaseNotes, u.CaseNotes)
}

// ServiceUpdate is a partial update of a case's service flags.
type ServiceUpdate struct {
	EmploymentAssistance               *bool
	LifeStabilization                  *bool
	RetentionServices                  *bool
	SpecializedServices                *bool
	EmploymentRelatedFinancialSupports *bool
	EmployerFinancialSupports          *bool
	EnhancedReferrals                  *bool
	SuccessRate                        *int
}

func (u ServiceUpdate) apply(c *domain.ClientCase) {
	set(&c.EmploymentAssistance, u.EmploymentAssistance)
	set(&c.LifeStabilization, u.LifeStabilization)
	set(&c.RetentionServices, u.RetentionServices)
	set(&c.SpecializedServices, u.SpecializedServices)
	set(&c.EmploymentRelatedFinancialSupports, u.EmploymentRelatedFinancialSupports)
	set(&c.EmployerFinancialSupports, u.EmployerFinancialSupports)
	set(&c.EnhancedReferrals, u.EnhancedReferrals)
	set(&c.SuccessRate, u.SuccessRate)
}

// ProfileFromClient builds the engine profile from a client's assessment.
func ProfileFromClient(c domain.Client) recommend.ClientProfile {
	return recommend.ClientProfile{
		"age":                             float64(c.Age),
		"gender":                          float64(c.Gender),
		"work_experience":                 float64(c.WorkExperience),
		"canada_workex":                   float64(c.CanadaWorkex),
		"dep_num":                         float64(c.DepNum),
		"canada_born":                     float64(c.CanadaBorn),
		"citizen_status":                  float64(c.CitizenStatus),
		"level_of_schooling":              float64(c.LevelOfSchooling),
		"fluent_english":                  float64(c.FluentEnglish),
		"reading_english_scale":           float64(c.ReadingEnglishScale),
		"speaking_english_scale":          float64(c.SpeakingEnglishScale),
		"writing_english_scale":           float64(c.WritingEnglishScale),
		"numeracy_scale":                  float64(c.NumeracyScale),
		"computer_scale":                  float64(c.ComputerScale),
		"transportation_bool":             float64(c.TransportationBool),
		"caregiver_bool":                  float64(c.CaregiverBool),
		"housing":                         float64(c.Housing),
		"income_source":                   float64(c.IncomeSource),
		"felony_bool":                     float64(c.FelonyBool),
		"attending_school":                float64(c.AttendingSchool),
		"currently_employed":              float64(c.CurrentlyEmployed),
		"substance_use":                   float64(c.SubstanceUse),
		"time_unemployed":                 float64(c.TimeUnemployed),
		"need_mental_health_support_bool": float64(c.NeedMentalHealthSupportBool),
	}
}
