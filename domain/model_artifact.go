package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ModelArtifact is a persisted predictor. At most one row is active.
type ModelArtifact struct {
	ID             uint                         `gorm:"primaryKey" json:"-"`
	Version        string                       `gorm:"column:version;size:36;uniqueIndex;not null" json:"version"`
	Algorithm      string                       `gorm:"column:algorithm;size:50;not null" json:"algorithm"`
	Weights        datatypes.JSONSlice[float64] `gorm:"column:weights;type:jsonb" json:"-"`
	Bias           float64                      `gorm:"column:bias" json:"-"`
	FeatureDim     int                          `gorm:"column:feature_dim" json:"feature_dim"`
	Metric         float64                      `gorm:"column:metric" json:"metric"`
	TrainedAt      time.Time                    `gorm:"column:trained_at" json:"trained_at"`
	TrainedThrough time.Time                    `gorm:"column:trained_through" json:"trained_through"`
	Active         bool                         `gorm:"column:active;index;default:false" json:"active"`
	ActivatedAt    *time.Time                   `gorm:"column:activated_at" json:"activated_at,omitempty"`
}

func (ModelArtifact) TableName() string {
	return "model_artifacts"
}
