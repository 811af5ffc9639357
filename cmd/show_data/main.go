package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"github.com/xelth-com/bizziosync/internal/services/importer"
	"github.com/xelth-com/bizziosync/internal/settings"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	line := strings.Repeat("─", 60)

	fmt.Println("📊 Bizzio Sync Status Report")
	fmt.Println(line)

	// ERP configuration, stored settings win over env
	store, err := settings.NewStore(db, cfg.EncKey)
	if err != nil {
		log.Fatalf("Failed to open settings: %v", err)
	}
	erp, err := store.Resolve(ctx, cfg.Bizzio)
	if err != nil {
		log.Printf("⚠️  Could not read stored settings: %v", err)
		erp = cfg.Bizzio
	}
	erp = erp.Masked()

	fmt.Println("🔧 ERP Configuration:")
	fmt.Printf("   Endpoint: %s\n", erp.Endpoint)
	if erp.Configured() {
		fmt.Printf("   Database: %s\n", erp.Database)
		fmt.Printf("   Username: %s\n", erp.Username)
		fmt.Printf("   Password: %s\n", erp.Password)
		fmt.Printf("   Site ID:  %s\n", erp.SiteID)
	} else {
		fmt.Println("   ⚠️  Credentials NOT configured")
		fmt.Println("   Set BIZZIO_DATABASE, BIZZIO_USERNAME, BIZZIO_PASSWORD and BIZZIO_SITE_ID")
		fmt.Println("   or save them through PUT /api/bizzio/settings")
	}
	fmt.Println()

	// Snapshots
	snapshots := importer.NewSnapshotStore(db)
	fmt.Println("🔄 Import Snapshots:")
	for _, kind := range []bizzio.Kind{bizzio.KindCategories, bizzio.KindProducts} {
		snap, err := snapshots.Status(ctx, kind)
		if err != nil {
			fmt.Printf("   %-11s ❌ %v\n", kind, err)
			continue
		}
		p := importer.ProgressOf(snap)
		fmt.Printf("   %-11s %-12s %d/%d (%d%%)  created %d, updated %d, failed %d\n",
			kind, p.Status, p.Cursor, p.Total, p.Percent, p.Created, p.Updated, p.Failed)
	}
	fmt.Println()

	// Catalog
	var productCount, categoryCount, attachmentCount int64
	db.Model(&models.CatalogProduct{}).Count(&productCount)
	db.Model(&models.CatalogCategory{}).Count(&categoryCount)
	db.Model(&models.Attachment{}).Count(&attachmentCount)

	fmt.Println("📈 CATALOG")
	fmt.Println(line)
	fmt.Printf("  Products:     %5d\n", productCount)
	fmt.Printf("  Categories:   %5d\n", categoryCount)
	fmt.Printf("  Attachments:  %5d\n", attachmentCount)
	fmt.Println()

	// Recent runs
	entries, err := importer.NewHistory(db).List(ctx, 10)
	if err != nil {
		log.Printf("⚠️  Could not read history: %v", err)
		return
	}
	fmt.Println("🕑 RECENT RUNS")
	fmt.Println(line)
	if len(entries) == 0 {
		fmt.Println("  (none)")
	}
	for _, e := range entries {
		fmt.Printf("  [%d] %-18s %-8s total %d, created %d, updated %d, failed %d, %dms\n",
			e.ID, e.Provider, e.Status, e.Total, e.Created, e.Updated, e.Errors, e.Duration)
	}
}
