package model

import (
	"time"

	"github.com/google/uuid"
)

type GenerationStep string

const (
	StepAnalyze      GenerationStep = "analyze"
	StepGenerateCode GenerationStep = "generate_code"
	StepOptimize     GenerationStep = "optimize"
	StepFinalize     GenerationStep = "finalize"
)

// GenerationSteps is the persisted pipeline, in execution order.
var GenerationSteps = []GenerationStep{StepAnalyze, StepGenerateCode, StepOptimize, StepFinalize}

type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
)

type GenerationLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_generation_log_project_id_started_at,priority:1" json:"project_id"`

	Step    GenerationStep `gorm:"type:text;not null;check:step IN ('analyze','generate_code','optimize','finalize')" json:"step"`
	Status  StepStatus     `gorm:"type:text;not null;default:'pending';check:status IN ('pending','in_progress','completed','failed')" json:"status"`
	Message string         `gorm:"type:text;not null;default:''" json:"message"`

	StartedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_generation_log_project_id_started_at,priority:2" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// GenerationLog <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (GenerationLog) TableName() string { return "generation_logs" }
