package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreDistribution holds the four fixed score buckets used by exam
// statistics. Bucket boundaries: <40, 40-60, 60-80, >=80.
type ScoreDistribution struct {
	Below40        int `json:"below_40"`
	Between40And60 int `json:"between_40_and_60"`
	Between60And80 int `json:"between_60_and_80"`
	Above80        int `json:"above_80"`
}

// Total returns the number of scores recorded across all buckets.
func (d ScoreDistribution) Total() int {
	return d.Below40 + d.Between40And60 + d.Between60And80 + d.Above80
}

type ExamStatistics struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	ExamID uint `json:"exam_id" gorm:"uniqueIndex;not null"`

	ParticipantCount int     `json:"participant_count" gorm:"default:0"`
	CompletedCount   int     `json:"completed_count" gorm:"default:0"`
	CompletionRate   float64 `json:"completion_rate" gorm:"default:0"`
	AverageScore     float64 `json:"average_score" gorm:"default:0"`

	AverageTimeInMinutes float64 `json:"average_time_in_minutes" gorm:"default:0"`

	ScoreDistribution datatypes.JSONType[ScoreDistribution] `json:"score_distribution" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExamStatistics) TableName() string {
	return "exam_statistics"
}
