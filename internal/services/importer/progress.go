package importer

import (
	"time"

	"github.com/xelth-com/bizziosync/internal/models"
)

// Progress is the client-facing projection of a snapshot
type Progress struct {
	Kind        string                `json:"kind"`
	Cursor      int                   `json:"cursor"`
	Total       int                   `json:"total"`
	Imported    int                   `json:"imported"`
	Created     int                   `json:"created"`
	Updated     int                   `json:"updated"`
	Failed      int                   `json:"failed"`
	Status      models.SnapshotStatus `json:"status"`
	Percent     int                   `json:"percent"`
	StartedAt   *time.Time            `json:"startedAt,omitempty"`
	CompletedAt *time.Time            `json:"completedAt,omitempty"`
}

// ProgressOf projects a snapshot without touching storage
func ProgressOf(snap *models.SyncSnapshot) *Progress {
	p := &Progress{
		Kind:        snap.Kind,
		Cursor:      snap.Cursor,
		Total:       snap.Total,
		Imported:    snap.Imported,
		Created:     snap.Created,
		Updated:     snap.Updated,
		Failed:      snap.Failed,
		Status:      snap.Status,
		CompletedAt: snap.CompletedAt,
	}
	if !snap.StartedAt.IsZero() {
		started := snap.StartedAt
		p.StartedAt = &started
	}
	if snap.Total > 0 {
		p.Percent = snap.Cursor * 100 / snap.Total
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}
