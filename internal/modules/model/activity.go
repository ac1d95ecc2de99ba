package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity actions written by the service layer. The column itself is open-ended.
const (
	ActionProjectCreated      = "project_created"
	ActionProjectUpdated      = "project_updated"
	ActionProjectDeleted      = "project_deleted"
	ActionProjectCloned       = "project_cloned"
	ActionGenerationStarted   = "generation_started"
	ActionGenerationCompleted = "generation_completed"
	ActionGenerationFailed    = "generation_failed"
	ActionProjectDeployed     = "project_deployed"
	ActionDeploymentFailed    = "deployment_failed"
	ActionProjectFavorited    = "project_favorited"
	ActionProjectUnfavorited  = "project_unfavorited"
	ActionProjectShared       = "project_shared"
	ActionShareUpdated        = "share_updated"
	ActionShareRevoked        = "share_revoked"
	ActionTemplateCreated     = "template_created"
	ActionTemplateUsed        = "template_used"
)

type Activity struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_activity_project_id_created_at,priority:1" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:ix_activity_user_id_created_at,priority:1" json:"user_id"`

	Action      string            `gorm:"type:text;not null;index" json:"action"`
	Description string            `gorm:"type:text;not null;default:''" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP;index:ix_activity_project_id_created_at,priority:2;index:ix_activity_user_id_created_at,priority:2" json:"created_at"`

	// Activity <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Activity) TableName() string { return "project_activity" }
