package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/bizziosync/internal/catalog"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

// DefaultBatchSize is the number of records reconciled per invocation
const DefaultBatchSize = 10

// ImageResolver provides local attachments for remote images
type ImageResolver interface {
	Resolve(ctx context.Context, ownerID uint, img bizzio.Image) (uint, error)
	SetCategoryThumbnail(ctx context.Context, categoryID uint, img bizzio.Image) error
}

// BatchResult is the outcome of one ProcessBatch call. Processed counts the
// records attempted by this call, the other counters are cumulative.
type BatchResult struct {
	Kind      string                `json:"kind"`
	Processed int                   `json:"processed"`
	Cursor    int                   `json:"cursor"`
	Total     int                   `json:"total"`
	Imported  int                   `json:"imported"`
	Created   int                   `json:"created"`
	Updated   int                   `json:"updated"`
	Failed    int                   `json:"failed"`
	Status    models.SnapshotStatus `json:"status"`
}

// Message is the human readable summary returned to the caller
func (r *BatchResult) Message() string {
	return fmt.Sprintf("Processed %d %s. Total imported: %d, Total failed: %d", r.Processed, r.Kind, r.Imported, r.Failed)
}

func resultFrom(snap *models.SyncSnapshot, processed int) *BatchResult {
	return &BatchResult{
		Kind:      snap.Kind,
		Processed: processed,
		Cursor:    snap.Cursor,
		Total:     snap.Total,
		Imported:  snap.Imported,
		Created:   snap.Created,
		Updated:   snap.Updated,
		Failed:    snap.Failed,
		Status:    snap.Status,
	}
}

// Engine reconciles persisted snapshots into the catalog, one bounded
// batch per call.
type Engine struct {
	snapshots *SnapshotStore
	catalog   catalog.Store
	images    ImageResolver
	history   *History
	batchSize int
}

// NewEngine creates a reconciliation engine
func NewEngine(snapshots *SnapshotStore, store catalog.Store, images ImageResolver, history *History, batchSize int) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Engine{
		snapshots: snapshots,
		catalog:   store,
		images:    images,
		history:   history,
		batchSize: batchSize,
	}
}

// ProcessBatch reconciles the next batch of kind. It is safe to call after
// completion: it then returns the terminal counters with Processed 0.
func (e *Engine) ProcessBatch(ctx context.Context, kind bizzio.Kind) (*BatchResult, error) {
	if !kind.Importable() {
		return nil, ErrUnknownKind
	}

	unlock := e.snapshots.Lock(kind)
	defer unlock()

	return e.processBatch(ctx, kind)
}

func (e *Engine) processBatch(ctx context.Context, kind bizzio.Kind) (*BatchResult, error) {
	snap, err := e.snapshots.Load(ctx, kind)
	if err != nil {
		return nil, err
	}

	if snap.Done() {
		transition := snap.Status != models.StatusCompleted
		snap, err = e.snapshots.MarkCompleted(ctx, snap)
		if err != nil {
			return nil, err
		}
		// An empty fetch completes here; a kind never fetched has no start time
		if transition && !snap.StartedAt.IsZero() {
			e.recordHistory(ctx, kind, snap)
		}
		return resultFrom(snap, 0), nil
	}

	start := time.Now()
	var delta Delta
	var decodeErr error
	switch kind {
	case bizzio.KindProducts:
		var articles []bizzio.Article
		if decodeErr = snap.DecodeRecords(&articles); decodeErr == nil {
			delta = e.processArticles(ctx, window(articles, snap.Cursor, e.batchSize))
		}
	case bizzio.KindCategories:
		var categories []bizzio.Category
		if decodeErr = snap.DecodeRecords(&categories); decodeErr == nil {
			delta = e.processCategories(ctx, window(categories, snap.Cursor, e.batchSize))
		}
	}
	if decodeErr != nil {
		log.Printf("❌ Bizzio: %s snapshot is unreadable, skipping %d records: %v", kind, snap.Total-snap.Cursor, decodeErr)
	}

	// Records missing from a truncated or unreadable snapshot count as
	// failed so the run still terminates
	if delta.Cursor == 0 {
		missing := snap.Total - snap.Cursor
		delta.Cursor = missing
		delta.Failed = missing
	}

	next, err := e.snapshots.Advance(ctx, snap, delta)
	if err != nil {
		return nil, err
	}
	observeBatch(kind, delta, time.Since(start))

	log.Printf("🔄 Bizzio: %s batch %d-%d of %d (created %d, updated %d, failed %d)",
		kind, snap.Cursor, next.Cursor, next.Total, delta.Created, delta.Updated, delta.Failed)

	if next.Status == models.StatusCompleted {
		log.Printf("✅ Bizzio: %s import completed (imported %d, failed %d)", kind, next.Imported, next.Failed)
		e.recordHistory(ctx, kind, next)
	}

	return resultFrom(next, delta.Cursor), nil
}

func (e *Engine) recordHistory(ctx context.Context, kind bizzio.Kind, snap *models.SyncSnapshot) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, snap); err != nil {
		log.Printf("⚠️  Failed to record %s import history: %v", kind, err)
	}
}

func window[T any](records []T, cursor, size int) []T {
	if cursor >= len(records) {
		return nil
	}
	end := cursor + size
	if end > len(records) {
		end = len(records)
	}
	return records[cursor:end]
}

func (e *Engine) processArticles(ctx context.Context, articles []bizzio.Article) Delta {
	var d Delta
	for _, a := range articles {
		d.Cursor++
		created, err := e.importArticle(ctx, a)
		if err != nil {
			log.Printf("❌ Bizzio: %v", err)
			d.Failed++
			continue
		}
		d.Imported++
		if created {
			d.Created++
		} else {
			d.Updated++
		}
	}
	return d
}

// importArticle upserts one product by SKU, then links categories and
// images. Only the product save decides success.
func (e *Engine) importArticle(ctx context.Context, a bizzio.Article) (bool, error) {
	existing, err := e.catalog.FindProductBySKU(ctx, a.Barcode)
	if err != nil {
		return false, &PersistenceError{Kind: "product", Key: a.Barcode, Err: err}
	}

	p := existing
	created := p == nil
	if created {
		p = &models.CatalogProduct{}
	}

	p.SKU = a.Barcode
	p.Name = a.Name
	p.Description = a.Description
	p.Price = a.SalePrice
	p.RegularPrice = a.SalePrice
	p.ManageStock = true
	p.StockQuantity = a.Quantity
	p.StockStatus = models.StockOutOfStock
	if a.Quantity > 0 {
		p.StockStatus = models.StockInStock
	}
	if p.Meta == nil {
		p.Meta = map[string]interface{}{}
	}
	p.Meta[models.MetaBarcode] = a.Barcode

	if err := e.catalog.SaveProduct(ctx, p); err != nil {
		return false, &PersistenceError{Kind: "product", Key: a.Barcode, Err: err}
	}

	e.linkCategories(ctx, p.ID, a.CategoryRefs)
	e.attachImages(ctx, p.ID, a)

	return created, nil
}

func (e *Engine) linkCategories(ctx context.Context, productID uint, refs []string) {
	for _, ref := range refs {
		cat, err := e.catalog.FindCategoryBySlug(ctx, catalog.Slugify(ref))
		if err != nil {
			log.Printf("⚠️  Bizzio: category lookup %q failed: %v", ref, err)
			continue
		}
		if cat == nil {
			continue
		}
		if err := e.catalog.AddProductCategory(ctx, productID, cat.ID); err != nil {
			log.Printf("⚠️  Bizzio: %v", err)
		}
	}
}

// attachImages resolves every image; the first one that resolves becomes
// the thumbnail and the rest replace the gallery.
func (e *Engine) attachImages(ctx context.Context, productID uint, a bizzio.Article) {
	images := a.Images
	if len(images) == 0 {
		images = externalImages(a.ExternalURLs)
	}
	if len(images) == 0 {
		return
	}

	ids := make([]uint, 0, len(images))
	for _, img := range images {
		id, err := e.images.Resolve(ctx, productID, img)
		if err != nil {
			log.Printf("⚠️  Bizzio: image %s for product %d skipped: %v", img.URI, productID, err)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}

	if err := e.catalog.SetProductImages(ctx, productID, ids[0], ids[1:]); err != nil {
		log.Printf("⚠️  Bizzio: %v", err)
	}
}

// externalImages turns SiteProps URLs into image descriptors keyed by URL
func externalImages(urls []string) []bizzio.Image {
	var out []bizzio.Image
	for _, u := range urls {
		img := bizzio.Image{ID: u, URI: u}
		if img.Allowed() {
			out = append(out, img)
		}
	}
	return out
}

func (e *Engine) processCategories(ctx context.Context, categories []bizzio.Category) Delta {
	var d Delta
	for _, c := range categories {
		d.Cursor++
		created, err := e.importCategory(ctx, c)
		if err != nil {
			log.Printf("❌ Bizzio: %v", err)
			d.Failed++
			continue
		}
		d.Imported++
		if created {
			d.Created++
		} else {
			d.Updated++
		}
	}
	return d
}

// importCategory upserts one category by slug. The parent must already be
// in the catalog; otherwise the category stays top-level.
func (e *Engine) importCategory(ctx context.Context, c bizzio.Category) (bool, error) {
	slug := catalog.Slugify(c.ID)
	if slug == "" {
		return false, &PersistenceError{Kind: "category", Key: c.ID, Err: fmt.Errorf("empty slug")}
	}

	var parentID uint
	if c.ParentID != "" {
		parent, err := e.catalog.FindCategoryBySlug(ctx, catalog.Slugify(c.ParentID))
		if err != nil {
			return false, &PersistenceError{Kind: "category", Key: c.ID, Err: err}
		}
		if parent != nil {
			parentID = parent.ID
		}
	}

	existing, err := e.catalog.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return false, &PersistenceError{Kind: "category", Key: c.ID, Err: err}
	}

	cat := existing
	created := cat == nil
	if created {
		cat = &models.CatalogCategory{Slug: slug}
	}
	if parentID == cat.ID {
		parentID = 0
	}
	cat.Name = c.Name
	cat.Description = c.Note
	cat.ParentID = parentID

	if err := e.catalog.SaveCategory(ctx, cat); err != nil {
		return false, &PersistenceError{Kind: "category", Key: c.ID, Err: err}
	}

	if c.Image != nil && c.Image.URI != "" {
		if err := e.images.SetCategoryThumbnail(ctx, cat.ID, *c.Image); err != nil {
			log.Printf("⚠️  Bizzio: thumbnail for category %s skipped: %v", c.ID, err)
		}
	}

	return created, nil
}
