package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Template struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SourceProjectID *uuid.UUID `gorm:"type:uuid" json:"source_project_id,omitempty"`

	Name             string         `gorm:"type:text;not null" json:"name"`
	Description      string         `gorm:"type:text;not null;default:''" json:"description"`
	Category         string         `gorm:"type:text;not null;default:'other'" json:"category"`
	Features         string         `gorm:"type:text;not null;default:''" json:"features"`
	TechRequirements string         `gorm:"type:text;not null;default:''" json:"tech_requirements"`
	GeneratedCode    datatypes.JSON `gorm:"type:jsonb" swaggertype:"object" json:"generated_code,omitempty"`
	IsPublic         bool           `gorm:"not null;default:false;index" json:"is_public"`
	UsageCount       int            `gorm:"not null;default:0" json:"usage_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Template) TableName() string { return "project_templates" }
