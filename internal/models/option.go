package models

import "time"

// Option is a durable key-value configuration entry
type Option struct {
	Name      string    `gorm:"primaryKey;size:191" json:"name"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Option) TableName() string {
	return "options"
}
