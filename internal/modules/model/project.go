package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusGenerating ProjectStatus = "generating"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusDeployed   ProjectStatus = "deployed"
	ProjectStatusError      ProjectStatus = "error"
)

// Generatable reports whether a generate request may flip the project to generating.
func (s ProjectStatus) Generatable() bool {
	return s == ProjectStatusDraft || s == ProjectStatusError || s == ProjectStatusCompleted
}

// Deployable reports whether the project holds an artifact that can be deployed.
func (s ProjectStatus) Deployable() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusDeployed
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusGenerating, ProjectStatusCompleted, ProjectStatusDeployed, ProjectStatusError:
		return true
	}
	return false
}

// GeneratableStatuses is the from-set of the conditional generating transition.
var GeneratableStatuses = []ProjectStatus{ProjectStatusDraft, ProjectStatusError, ProjectStatusCompleted}

type Project struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:ix_project_user_id_created_at,priority:1;index:ix_project_user_id_category,priority:1" json:"user_id"`

	Title             string `gorm:"type:text;not null" json:"title"`
	Description       string `gorm:"type:text;not null;default:''" json:"description"`
	Category          string `gorm:"type:text;not null;default:'other';index:ix_project_user_id_category,priority:2" json:"category"`
	Features          string `gorm:"type:text;not null;default:''" json:"features"`
	DesignPreferences string `gorm:"type:text;not null;default:''" json:"design_preferences"`
	TechRequirements  string `gorm:"type:text;not null;default:''" json:"tech_requirements"`

	Status        ProjectStatus  `gorm:"type:text;not null;default:'draft';check:status IN ('draft','generating','completed','deployed','error');index" json:"status"`
	GeneratedCode datatypes.JSON `gorm:"type:jsonb" swaggertype:"object" json:"generated_code,omitempty"`
	ErrorMessage  string         `gorm:"type:text;not null;default:''" json:"error_message,omitempty"`

	RepositoryURL string `gorm:"type:text;not null;default:''" json:"repository_url"`
	DeploymentURL string `gorm:"type:text;not null;default:''" json:"deployment_url"`

	IsPublic   bool       `gorm:"not null;default:false" json:"is_public"`
	ClonedFrom *uuid.UUID `gorm:"type:uuid" json:"cloned_from,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP;index:ix_project_user_id_created_at,priority:2" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DeployedAt  *time.Time `json:"deployed_at"`

	// Project <-> GenerationLog
	GenerationLogs []GenerationLog `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Activity
	Activities []Activity `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

// HasCode reports whether a generated artifact is stored.
func (p *Project) HasCode() bool {
	return len(p.GeneratedCode) > 0 && string(p.GeneratedCode) != "null"
}
