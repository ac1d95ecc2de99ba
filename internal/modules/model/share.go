package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ShareSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_share_project_user,priority:1" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_share_project_user,priority:2" json:"user_id"`

	// TokenHMAC is the lookup key; the raw token is never stored.
	TokenHMAC    string `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	TokenHashPHC string `gorm:"type:text;not null" json:"-"`
	TokenHint    string `gorm:"type:text;not null;default:''" json:"token_hint"`

	IsPublic      bool                         `gorm:"not null;default:false" json:"is_public"`
	AllowedEmails datatypes.JSONType[[]string] `gorm:"type:jsonb;not null" swaggertype:"array,string" json:"allowed_emails"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// ShareSetting <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ShareSetting) TableName() string { return "project_shares" }
