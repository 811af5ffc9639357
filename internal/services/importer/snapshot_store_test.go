package importer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

func TestSaveResetsCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snap, err := f.snapshots.SaveArticles(ctx, articles(4))
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if _, err := f.snapshots.Advance(ctx, snap, Delta{Cursor: 2, Imported: 2, Created: 2}); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	_, err = f.snapshots.SaveArticles(ctx, articles(6))
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	loaded, err := f.snapshots.Load(ctx, bizzio.KindProducts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Total != 6 || loaded.Cursor != 0 || loaded.Imported != 0 || loaded.Created != 0 {
		t.Errorf("Expected reset counters, got %+v", loaded)
	}

	var records []bizzio.Article
	if err := loaded.DecodeRecords(&records); err != nil {
		t.Fatalf("DecodeRecords failed: %v", err)
	}
	if len(records) != 6 || records[5].Barcode != "B006" {
		t.Errorf("Unexpected records %+v", records)
	}

	empty, err := f.snapshots.SaveCategories(ctx, nil)
	if err != nil {
		t.Fatalf("SaveCategories failed: %v", err)
	}
	if empty.Status != models.StatusIdle || empty.Total != 0 {
		t.Errorf("Expected idle empty snapshot, got %+v", empty)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	f := newFixture(t)

	snap, err := f.snapshots.Load(context.Background(), bizzio.KindCategories)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Status != models.StatusIdle || snap.Total != 0 || snap.Kind != "categories" {
		t.Errorf("Expected idle empty snapshot, got %+v", snap)
	}
}

func TestAdvanceDetectsConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	snap, err := f.snapshots.SaveArticles(ctx, articles(20))
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}

	if _, err := f.snapshots.Advance(ctx, snap, Delta{Cursor: 10, Imported: 10, Created: 10}); err != nil {
		t.Fatalf("First Advance failed: %v", err)
	}
	// Stale read of the same snapshot
	if _, err := f.snapshots.Advance(ctx, snap, Delta{Cursor: 10, Imported: 10, Created: 10}); !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("Expected ErrConcurrentUpdate, got %v", err)
	}

	loaded, _ := f.snapshots.Load(ctx, bizzio.KindProducts)
	if loaded.Cursor != 10 || loaded.Created != 10 {
		t.Errorf("Expected the first write only, got %+v", loaded)
	}
}

func TestResetDeletesSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.snapshots.SaveArticles(ctx, articles(2)); err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if err := f.snapshots.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	snap, _ := f.snapshots.Load(ctx, bizzio.KindProducts)
	if snap.Total != 0 || snap.Status != models.StatusIdle {
		t.Errorf("Expected no snapshot after reset, got %+v", snap)
	}
}

func TestProgressOf(t *testing.T) {
	p := ProgressOf(&models.SyncSnapshot{Kind: "products", Total: 23, Cursor: 10, Status: models.StatusInProgress})
	if p.Percent != 43 {
		t.Errorf("Expected 43 percent, got %d", p.Percent)
	}
	if p.StartedAt != nil {
		t.Error("Expected no start time for a zero timestamp")
	}
}

func TestProgressJSONUsesCursorKey(t *testing.T) {
	raw, err := json.Marshal(ProgressOf(&models.SyncSnapshot{Kind: "categories", Total: 4, Cursor: 2}))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out["cursor"] != float64(2) {
		t.Errorf("Expected cursor 2, got %v in %s", out["cursor"], raw)
	}
	if _, ok := out["progress"]; ok {
		t.Errorf("Expected no progress key, got %s", raw)
	}
}
