package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SnapshotStatus is the lifecycle state of an import snapshot
type SnapshotStatus string

const (
	StatusIdle       SnapshotStatus = "idle"
	StatusInProgress SnapshotStatus = "in_progress"
	StatusCompleted  SnapshotStatus = "completed"
)

// SyncSnapshot holds a fetched record list and its reconciliation counters.
// There is one row per import kind.
type SyncSnapshot struct {
	Kind        string         `gorm:"primaryKey;size:32" json:"kind"`
	Records     datatypes.JSON `json:"-"`
	Total       int            `gorm:"not null;default:0" json:"total"`
	Cursor      int            `gorm:"column:progress;not null;default:0" json:"cursor"`
	Imported    int            `gorm:"not null;default:0" json:"imported"`
	Created     int            `gorm:"not null;default:0" json:"created"`
	Updated     int            `gorm:"not null;default:0" json:"updated"`
	Failed      int            `gorm:"not null;default:0" json:"failed"`
	Status      SnapshotStatus `gorm:"size:20;not null;default:idle" json:"status"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName specifies the table name
func (SyncSnapshot) TableName() string {
	return "sync_snapshots"
}

// DecodeRecords unmarshals the stored records into dst
func (s *SyncSnapshot) DecodeRecords(dst interface{}) error {
	if len(s.Records) == 0 {
		return nil
	}
	return json.Unmarshal(s.Records, dst)
}

// Done reports whether every record has been attempted
func (s *SyncSnapshot) Done() bool {
	return s.Total == 0 || s.Cursor >= s.Total
}
