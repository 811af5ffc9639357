package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SyncHistory records each completed import run
type SyncHistory struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider    string         `gorm:"column:provider;not null;index" json:"provider"` // "bizzio_products", "bizzio_categories"
	Status      string         `gorm:"column:status;not null;index" json:"status"`     // "success", "partial"
	StartedAt   time.Time      `gorm:"column:started_at;not null" json:"startedAt"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt"`
	Duration    int            `gorm:"column:duration;default:0" json:"duration"` // milliseconds
	Total       int            `gorm:"column:total;default:0" json:"total"`
	Created     int            `gorm:"column:created;default:0" json:"created"`
	Updated     int            `gorm:"column:updated;default:0" json:"updated"`
	Errors      int            `gorm:"column:errors;default:0" json:"errors"`
	DebugInfo   datatypes.JSON `gorm:"column:debug_info" json:"debugInfo,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"-"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (SyncHistory) TableName() string {
	return "sync_history"
}
