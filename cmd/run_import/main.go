package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xelth-com/bizziosync/internal/catalog"
	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/media"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
	"github.com/xelth-com/bizziosync/internal/services/importer"
	"github.com/xelth-com/bizziosync/internal/settings"
)

// errInterrupted means the run stopped on a signal; the snapshot keeps its cursor
var errInterrupted = errors.New("interrupted")

// Runs a complete import from the command line: fetch, then batches until
// the snapshot is completed. With -resume the fetch is skipped.
func main() {
	kindFlag := flag.String("kind", "all", "products, categories or all")
	resume := flag.Bool("resume", false, "continue the stored snapshot instead of fetching")
	flag.Parse()

	if err := run(*kindFlag, *resume); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func run(kindFlag string, resume bool) error {
	kinds, err := parseKinds(kindFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	store, err := settings.NewStore(db, cfg.EncKey)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	svc := newService(db, cfg, importer.NewClientFactory(store, cfg.Bizzio))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = importKinds(ctx, svc, kinds, resume)
	if errors.Is(err, errInterrupted) {
		log.Println("🛑 Interrupted, progress is saved; rerun with -resume")
		return nil
	}
	if err != nil {
		return err
	}
	log.Println("✅ Import finished")
	return nil
}

func parseKinds(flagValue string) ([]bizzio.Kind, error) {
	if flagValue == "all" {
		return []bizzio.Kind{bizzio.KindCategories, bizzio.KindProducts}, nil
	}
	kind, err := bizzio.ParseKind(flagValue)
	if err != nil || !kind.Importable() {
		return nil, fmt.Errorf("invalid -kind %q", flagValue)
	}
	return []bizzio.Kind{kind}, nil
}

func newService(db *database.DB, cfg *config.Config, clients importer.ClientFactory) *importer.Service {
	catalogStore := catalog.NewGormStore(db)
	snapshots := importer.NewSnapshotStore(db)
	history := importer.NewHistory(db)
	return importer.NewService(importer.ServiceDeps{
		Snapshots: snapshots,
		Engine:    importer.NewEngine(snapshots, catalogStore, media.NewResolver(catalogStore, cfg.Media), history, cfg.Import.BatchSize),
		History:   history,
		Clients:   clients,
	}, cfg.Import)
}

// importKinds fetches (unless resuming) and drains each kind in order.
// A cancelled ctx yields errInterrupted.
func importKinds(ctx context.Context, svc *importer.Service, kinds []bizzio.Kind, resume bool) error {
	interrupted := func(err error) bool {
		return ctx.Err() != nil || errors.Is(err, context.Canceled)
	}

	for _, kind := range kinds {
		if !resume {
			if _, err := svc.StartImport(ctx, kind); err != nil {
				if interrupted(err) {
					return errInterrupted
				}
				return fmt.Errorf("%s import failed: %w", kind, err)
			}
		}
		for {
			if ctx.Err() != nil {
				return errInterrupted
			}
			res, err := svc.ProcessBatch(ctx, kind)
			if err != nil {
				if interrupted(err) {
					return errInterrupted
				}
				return fmt.Errorf("%s batch failed: %w", kind, err)
			}
			if res.Processed > 0 {
				log.Println(res.Message())
			}
			if res.Status == models.StatusCompleted {
				break
			}
		}
	}
	return nil
}
