package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"github.com/xelth-com/bizziosync/internal/services/importer"
)

type stubERP struct {
	articles   []bizzio.Article
	categories []bizzio.Category
}

func (s *stubERP) FetchArticles(ctx context.Context, opts bizzio.ArticleOptions) ([]bizzio.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.articles, nil
}

func (s *stubERP) FetchCategories(ctx context.Context, includeImages bool) ([]bizzio.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.categories, nil
}

func (s *stubERP) TestConnection(ctx context.Context) error {
	return ctx.Err()
}

func newTestService(t *testing.T, erp *stubERP) *importer.Service {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", Silent: true})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Import: config.ImportConfig{BatchSize: 4},
		Media:  config.MediaConfig{UploadDir: t.TempDir()},
	}
	return newService(db, cfg, func(ctx context.Context) (importer.ERPClient, error) { return erp, nil })
}

func TestImportKindsCompletes(t *testing.T) {
	erp := &stubERP{categories: []bizzio.Category{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}}
	for i := 1; i <= 10; i++ {
		erp.articles = append(erp.articles, bizzio.Article{Name: fmt.Sprintf("Article %d", i), Barcode: fmt.Sprintf("B%03d", i)})
	}
	svc := newTestService(t, erp)
	ctx := context.Background()

	kinds, err := parseKinds("all")
	if err != nil {
		t.Fatalf("parseKinds failed: %v", err)
	}
	if err := importKinds(ctx, svc, kinds, false); err != nil {
		t.Fatalf("importKinds failed: %v", err)
	}

	p, _ := svc.Progress(ctx, bizzio.KindProducts)
	if p.Status != models.StatusCompleted || p.Created != 10 {
		t.Errorf("Expected 10 products created, got %+v", p)
	}
	c, _ := svc.Progress(ctx, bizzio.KindCategories)
	if c.Status != models.StatusCompleted || c.Created != 2 {
		t.Errorf("Expected 2 categories created, got %+v", c)
	}
}

func TestImportKindsInterruptedDuringFetch(t *testing.T) {
	svc := newTestService(t, &stubERP{articles: []bizzio.Article{{Barcode: "B1"}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := importKinds(ctx, svc, []bizzio.Kind{bizzio.KindProducts}, false)
	if !errors.Is(err, errInterrupted) {
		t.Errorf("Expected errInterrupted, got %v", err)
	}
}

func TestImportKindsResumeSkipsFetch(t *testing.T) {
	erp := &stubERP{articles: []bizzio.Article{{Barcode: "B1"}, {Barcode: "B2"}}}
	svc := newTestService(t, erp)
	ctx := context.Background()

	if _, err := svc.StartImport(ctx, bizzio.KindProducts); err != nil {
		t.Fatalf("StartImport failed: %v", err)
	}
	// The stored snapshot is drained even though the ERP now returns more
	erp.articles = append(erp.articles, bizzio.Article{Barcode: "B3"})

	if err := importKinds(ctx, svc, []bizzio.Kind{bizzio.KindProducts}, true); err != nil {
		t.Fatalf("importKinds failed: %v", err)
	}
	p, _ := svc.Progress(ctx, bizzio.KindProducts)
	if p.Total != 2 || p.Cursor != 2 || p.Status != models.StatusCompleted {
		t.Errorf("Expected the stored snapshot of 2 to complete, got %+v", p)
	}
}

func TestParseKinds(t *testing.T) {
	if kinds, err := parseKinds("products"); err != nil || len(kinds) != 1 || kinds[0] != bizzio.KindProducts {
		t.Errorf("Expected products, got %v %v", kinds, err)
	}
	if _, err := parseKinds("connection_test"); err == nil {
		t.Error("Expected an error for a non-importable kind")
	}
	if _, err := parseKinds("bogus"); err == nil {
		t.Error("Expected an error for an unknown kind")
	}
}
