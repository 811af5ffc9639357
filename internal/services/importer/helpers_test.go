package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/xelth-com/bizziosync/internal/catalog"
	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

type fixture struct {
	db        *database.DB
	snapshots *SnapshotStore
	store     *catalog.GormStore
	images    *fakeImages
	history   *History
	engine    *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", Silent: true})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	f := &fixture{
		db:        db,
		snapshots: NewSnapshotStore(db),
		store:     catalog.NewGormStore(db),
		images:    newFakeImages(),
		history:   NewHistory(db),
	}
	f.engine = NewEngine(f.snapshots, f.store, f.images, f.history, DefaultBatchSize)
	return f
}

// fakeImages hands out attachment IDs per remote image ID
type fakeImages struct {
	mu         sync.Mutex
	ids        map[string]uint
	next       uint
	fail       map[string]bool
	downloads  int
	thumbnails map[uint]string
}

func newFakeImages() *fakeImages {
	return &fakeImages{
		ids:        make(map[string]uint),
		next:       100,
		fail:       make(map[string]bool),
		thumbnails: make(map[uint]string),
	}
}

func (f *fakeImages) Resolve(ctx context.Context, ownerID uint, img bizzio.Image) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[img.ID] {
		return 0, errors.New("download failed")
	}
	if id, ok := f.ids[img.ID]; ok {
		return id, nil
	}
	f.downloads++
	f.next++
	f.ids[img.ID] = f.next
	return f.next, nil
}

func (f *fakeImages) SetCategoryThumbnail(ctx context.Context, categoryID uint, img bizzio.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[img.ID] {
		return errors.New("download failed")
	}
	f.thumbnails[categoryID] = img.URI
	return nil
}

// failingStore rejects products whose SKU is listed in failSKU
type failingStore struct {
	catalog.Store
	failSKU map[string]bool
}

func (s *failingStore) SaveProduct(ctx context.Context, p *models.CatalogProduct) error {
	if s.failSKU[p.SKU] {
		return fmt.Errorf("simulated save failure for %s", p.SKU)
	}
	return s.Store.SaveProduct(ctx, p)
}

func articles(n int) []bizzio.Article {
	out := make([]bizzio.Article, n)
	for i := range out {
		out[i] = bizzio.Article{
			Name:      fmt.Sprintf("Article %d", i+1),
			Barcode:   fmt.Sprintf("B%03d", i+1),
			SalePrice: 1.5,
			Quantity:  i % 3,
		}
	}
	return out
}

func checkInvariant(t *testing.T, r *BatchResult) {
	t.Helper()
	if r.Created+r.Updated+r.Failed != r.Cursor {
		t.Errorf("Expected created+updated+failed == cursor, got %d+%d+%d != %d", r.Created, r.Updated, r.Failed, r.Cursor)
	}
	if r.Imported != r.Created+r.Updated {
		t.Errorf("Expected imported == created+updated, got %d != %d+%d", r.Imported, r.Created, r.Updated)
	}
}
