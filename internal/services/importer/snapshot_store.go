package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Delta is the change applied to a snapshot by one batch
type Delta struct {
	Cursor   int
	Imported int
	Created  int
	Updated  int
	Failed   int
}

// SnapshotStore persists fetched records and their counters, one row per kind
type SnapshotStore struct {
	db    *database.DB
	mu    sync.Mutex
	locks map[bizzio.Kind]*sync.Mutex
	now   func() time.Time
}

// NewSnapshotStore creates a snapshot store
func NewSnapshotStore(db *database.DB) *SnapshotStore {
	return &SnapshotStore{
		db:    db,
		locks: make(map[bizzio.Kind]*sync.Mutex),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Lock serializes writers of one kind inside this process and returns the
// matching unlock function.
func (s *SnapshotStore) Lock(kind bizzio.Kind) func() {
	s.mu.Lock()
	l, ok := s.locks[kind]
	if !ok {
		l = &sync.Mutex{}
		s.locks[kind] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// SaveArticles replaces the product snapshot
func (s *SnapshotStore) SaveArticles(ctx context.Context, articles []bizzio.Article) (*models.SyncSnapshot, error) {
	return s.save(ctx, bizzio.KindProducts, articles, len(articles))
}

// SaveCategories replaces the category snapshot
func (s *SnapshotStore) SaveCategories(ctx context.Context, categories []bizzio.Category) (*models.SyncSnapshot, error) {
	return s.save(ctx, bizzio.KindCategories, categories, len(categories))
}

func (s *SnapshotStore) save(ctx context.Context, kind bizzio.Kind, records interface{}, total int) (*models.SyncSnapshot, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s snapshot: %w", kind, err)
	}

	status := models.StatusIdle
	if total > 0 {
		status = models.StatusInProgress
	}

	snap := &models.SyncSnapshot{
		Kind:      kind.String(),
		Records:   raw,
		Total:     total,
		Status:    status,
		StartedAt: s.now(),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		UpdateAll: true,
	}).Create(snap).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save %s snapshot: %w", kind, err)
	}
	return snap, nil
}

// Load returns the snapshot of a kind, or an empty idle one
func (s *SnapshotStore) Load(ctx context.Context, kind bizzio.Kind) (*models.SyncSnapshot, error) {
	var snap models.SyncSnapshot
	err := s.db.WithContext(ctx).Where("kind = ?", kind.String()).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SyncSnapshot{Kind: kind.String(), Status: models.StatusIdle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s snapshot: %w", kind, err)
	}
	return &snap, nil
}

// Status is the read-only view used by progress reporting
func (s *SnapshotStore) Status(ctx context.Context, kind bizzio.Kind) (*models.SyncSnapshot, error) {
	return s.Load(ctx, kind)
}

// Advance applies d to snap. The write only succeeds when the stored
// cursor still equals snap.Cursor; otherwise ErrConcurrentUpdate.
func (s *SnapshotStore) Advance(ctx context.Context, snap *models.SyncSnapshot, d Delta) (*models.SyncSnapshot, error) {
	next := *snap
	next.Cursor += d.Cursor
	next.Imported += d.Imported
	next.Created += d.Created
	next.Updated += d.Updated
	next.Failed += d.Failed
	next.Status = models.StatusInProgress

	updates := map[string]interface{}{
		"progress": next.Cursor,
		"imported": next.Imported,
		"created":  next.Created,
		"updated":  next.Updated,
		"failed":   next.Failed,
		"status":   next.Status,
	}
	if next.Done() {
		now := s.now()
		next.Status = models.StatusCompleted
		next.CompletedAt = &now
		updates["status"] = next.Status
		updates["completed_at"] = now
	}

	res := s.db.WithContext(ctx).Model(&models.SyncSnapshot{}).
		Where("kind = ? AND progress = ?", snap.Kind, snap.Cursor).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to advance %s snapshot: %w", snap.Kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrConcurrentUpdate
	}
	return &next, nil
}

// MarkCompleted flags a snapshot with nothing left to process
func (s *SnapshotStore) MarkCompleted(ctx context.Context, snap *models.SyncSnapshot) (*models.SyncSnapshot, error) {
	if snap.Status == models.StatusCompleted {
		return snap, nil
	}
	next := *snap
	now := s.now()
	next.Status = models.StatusCompleted
	next.CompletedAt = &now

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at", "updated_at"}),
	}).Create(&next).Error
	if err != nil {
		return nil, fmt.Errorf("failed to complete %s snapshot: %w", snap.Kind, err)
	}
	return &next, nil
}

// Reset deletes every snapshot
func (s *SnapshotStore) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SyncSnapshot{}).Error
	if err != nil {
		return fmt.Errorf("failed to reset snapshots: %w", err)
	}
	return nil
}
