package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DeployProviderVercel = "vercel"
	DeployProviderS3     = "s3"
	DeployProviderDemo   = "demo"
)

type DeploymentStatus string

const (
	DeploymentStatusPending DeploymentStatus = "pending"
	DeploymentStatusReady   DeploymentStatus = "ready"
	DeploymentStatusFailed  DeploymentStatus = "failed"
)

type Deployment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_deployment_project_id_created_at,priority:1" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Provider      string           `gorm:"type:text;not null" json:"provider"`
	Status        DeploymentStatus `gorm:"type:text;not null;default:'pending';check:status IN ('pending','ready','failed')" json:"status"`
	URL           string           `gorm:"type:text;not null;default:''" json:"url"`
	RepositoryURL string           `gorm:"type:text;not null;default:''" json:"repository_url"`
	ExternalID    string           `gorm:"type:text;not null;default:''" json:"external_id"`
	ErrorMessage  string           `gorm:"type:text;not null;default:''" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP;index:ix_deployment_project_id_created_at,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Deployment <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Deployment) TableName() string { return "project_deployments" }
