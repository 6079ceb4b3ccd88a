package domain

import (
	"time"
)

const (
	CaseStatusNew        = "new"
	CaseStatusInProgress = "in_progress"
	CaseStatusClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Client is a person receiving case management. The assessment attributes are
// stored pre-coded as integers (booleans as 0/1) so they feed the
// recommendation engine without a lookup table.
type Client struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"column:name;not null" json:"name"`
	Email string `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"column:phone;size:20" json:"phone,omitempty"`

	Age                         int `gorm:"column:age" json:"age"`
	Gender                      int `gorm:"column:gender" json:"gender"`
	WorkExperience              int `gorm:"column:work_experience" json:"work_experience"`
	CanadaWorkex                int `gorm:"column:canada_workex" json:"canada_workex"`
	DepNum                      int `gorm:"column:dep_num" json:"dep_num"`
	CanadaBorn                  int `gorm:"column:canada_born" json:"canada_born"`
	CitizenStatus               int `gorm:"column:citizen_status" json:"citizen_status"`
	LevelOfSchooling            int `gorm:"column:level_of_schooling" json:"level_of_schooling"`
	FluentEnglish               int `gorm:"column:fluent_english" json:"fluent_english"`
	ReadingEnglishScale         int `gorm:"column:reading_english_scale" json:"reading_english_scale"`
	SpeakingEnglishScale        int `gorm:"column:speaking_english_scale" json:"speaking_english_scale"`
	WritingEnglishScale         int `gorm:"column:writing_english_scale" json:"writing_english_scale"`
	NumeracyScale               int `gorm:"column:numeracy_scale" json:"numeracy_scale"`
	ComputerScale               int `gorm:"column:computer_scale" json:"computer_scale"`
	TransportationBool          int `gorm:"column:transportation_bool" json:"transportation_bool"`
	CaregiverBool               int `gorm:"column:caregiver_bool" json:"caregiver_bool"`
	Housing                     int `gorm:"column:housing" json:"housing"`
	IncomeSource                int `gorm:"column:income_source" json:"income_source"`
	FelonyBool                  int `gorm:"column:felony_bool" json:"felony_bool"`
	AttendingSchool             int `gorm:"column:attending_school" json:"attending_school"`
	CurrentlyEmployed           int `gorm:"column:currently_employed" json:"currently_employed"`
	SubstanceUse                int `gorm:"column:substance_use" json:"substance_use"`
	TimeUnemployed              int `gorm:"column:time_unemployed" json:"time_unemployed"`
	NeedMentalHealthSupportBool int `gorm:"column:need_mental_health_support_bool" json:"need_mental_health_support_bool"`

	CaseStatus string    `gorm:"column:case_status;size:50;default:new" json:"case_status"`
	CaseType   string    `gorm:"column:case_type;size:100" json:"case_type,omitempty"`
	AssignedTo string    `gorm:"column:assigned_to;size:100" json:"assigned_to,omitempty"`
	Priority   string    `gorm:"column:priority;size:20;default:medium" json:"priority"`
	CaseNotes  string    `gorm:"column:case_notes;type:text" json:"case_notes,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

// ClientList is a page of clients plus the unpaged total.
type ClientList struct {
	Clients []Client `json:"clients"`
	Total   int64    `json:"total"`
}
