package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CaseOutcome is a historical training example: the client's assessment at
// the time the outcome was recorded, the services delivered and whether the
// client reached employment.
type CaseOutcome struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ClientID      uint                        `gorm:"column:client_id;index" json:"client_id"`
	Profile       datatypes.JSONMap           `gorm:"column:profile;type:jsonb" json:"profile"`
	Interventions datatypes.JSONSlice[string] `gorm:"column:interventions;type:jsonb" json:"interventions"`
	Succeeded     bool                        `gorm:"column:succeeded;not null" json:"succeeded"`
	RecordedAt    time.Time                   `gorm:"column:recorded_at;index;not null" json:"recorded_at"`
}

func (CaseOutcome) TableName() string {
	return "case_outcomes"
}
