package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
)

// History writes one sync_history row per completed import run
type History struct {
	db *database.DB
}

// NewHistory creates a history recorder
func NewHistory(db *database.DB) *History {
	return &History{db: db}
}

// Record stores the counters of a completed snapshot
func (h *History) Record(ctx context.Context, snap *models.SyncSnapshot) error {
	status := "success"
	if snap.Failed > 0 {
		status = "partial"
	}

	entry := models.SyncHistory{
		Provider:    "bizzio_" + snap.Kind,
		Status:      status,
		StartedAt:   snap.StartedAt,
		CompletedAt: snap.CompletedAt,
		Total:       snap.Total,
		Created:     snap.Created,
		Updated:     snap.Updated,
		Errors:      snap.Failed,
	}
	if snap.CompletedAt != nil && !snap.StartedAt.IsZero() {
		entry.Duration = int(snap.CompletedAt.Sub(snap.StartedAt).Milliseconds())
	}

	debug, _ := json.Marshal(map[string]interface{}{
		"imported": snap.Imported,
		"cursor":   snap.Cursor,
	})
	entry.DebugInfo = debug

	if err := h.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to save sync history: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first
func (h *History) List(ctx context.Context, limit int) ([]models.SyncHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []models.SyncHistory
	err := h.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync history: %w", err)
	}
	return entries, nil
}
