package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MetricRequests     = "requests"
	MetricErrors       = "errors"
	MetricResponseTime = "response_time"
	MetricUptime       = "uptime"
)

func ValidMetric(m string) bool {
	switch m {
	case MetricRequests, MetricErrors, MetricResponseTime, MetricUptime:
		return true
	}
	return false
}

// ProjectMetric is one sample reported for a deployed project.
type ProjectMetric struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_project_metric_project_metric_recorded_at,priority:1" json:"project_id"`

	Metric string  `gorm:"type:text;not null;index:idx_project_metric_project_metric_recorded_at,priority:2" json:"metric"`
	Value  float64 `gorm:"not null;default:0" json:"value"`

	RecordedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_project_metric_project_metric_recorded_at,priority:3" json:"recorded_at"`

	// ProjectMetric <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ProjectMetric) TableName() string { return "project_metrics" }
