package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	// UserID is nil for system categories.
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_category_user_name,priority:1" json:"user_id,omitempty"`

	Name        string `gorm:"type:text;not null;uniqueIndex:uq_category_user_name,priority:2" json:"name"`
	Slug        string `gorm:"type:text;not null;index" json:"slug"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	Icon        string `gorm:"type:text;not null;default:''" json:"icon"`
	Color       string `gorm:"type:text;not null;default:''" json:"color"`
	IsSystem    bool   `gorm:"not null;default:false" json:"is_system"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Category) TableName() string { return "project_categories" }

// OwnedBy reports whether userID may edit or delete the category.
func (c *Category) OwnedBy(userID uuid.UUID) bool {
	return !c.IsSystem && c.UserID != nil && *c.UserID == userID
}

// SystemCategories are seeded at boot and in the demo backend.
var SystemCategories = []Category{
	{Name: "E-commerce", Slug: "ecommerce", Icon: "shopping-cart", Color: "#f97316", Description: "Online stores and marketplaces"},
	{Name: "Todo", Slug: "todo", Icon: "check-square", Color: "#22c55e", Description: "Task and productivity apps"},
	{Name: "Blog", Slug: "blog", Icon: "file-text", Color: "#3b82f6", Description: "Blogs and content sites"},
	{Name: "Dashboard", Slug: "dashboard", Icon: "bar-chart", Color: "#a855f7", Description: "Admin panels and analytics"},
	{Name: "Social", Slug: "social", Icon: "users", Color: "#ec4899", Description: "Communities and social networks"},
	{Name: "SaaS", Slug: "saas", Icon: "cloud", Color: "#06b6d4", Description: "Subscription software"},
	{Name: "Other", Slug: "other", Icon: "box", Color: "#64748b", Description: "Everything else"},
}
