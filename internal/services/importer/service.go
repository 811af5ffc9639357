package importer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

// ERPClient is the subset of the Bizzio client used by the importer
type ERPClient interface {
	FetchArticles(ctx context.Context, opts bizzio.ArticleOptions) ([]bizzio.Article, error)
	FetchCategories(ctx context.Context, includeImages bool) ([]bizzio.Category, error)
	TestConnection(ctx context.Context) error
}

// ClientFactory builds an ERP client from the current settings
type ClientFactory func(ctx context.Context) (ERPClient, error)

// SettingsResolver overlays stored settings on the environment config
type SettingsResolver interface {
	Resolve(ctx context.Context, base config.BizzioConfig) (config.BizzioConfig, error)
}

// NewClientFactory resolves credentials on every call, so settings saved at
// runtime apply to the next operation.
func NewClientFactory(settings SettingsResolver, base config.BizzioConfig) ClientFactory {
	return func(ctx context.Context) (ERPClient, error) {
		cfg := base
		if settings != nil {
			resolved, err := settings.Resolve(ctx, base)
			if err != nil {
				return nil, err
			}
			cfg = resolved
		}
		if !cfg.Configured() {
			return nil, ErrNotConfigured
		}
		return bizzio.NewClient(cfg), nil
	}
}

// Notifier receives progress payloads, typically the websocket hub
type Notifier interface {
	Broadcast(message interface{})
}

// ProgressMessage is pushed to listeners after every start and batch
type ProgressMessage struct {
	Type     string    `json:"type"`
	Kind     string    `json:"kind"`
	Progress *Progress `json:"progress"`
}

// Cleaner removes durable state on uninstall
type Cleaner interface {
	DeleteAll(ctx context.Context) error
}

// MediaCleaner removes the downloaded asset directory
type MediaCleaner interface {
	RemoveAll() error
}

// StartResult is returned by StartImport
type StartResult struct {
	FetchedCount int       `json:"fetched_count"`
	Progress     *Progress `json:"progress"`
}

// Service exposes the trigger operations on top of the snapshot store and
// the reconciliation engine.
type Service struct {
	snapshots *SnapshotStore
	engine    *Engine
	history   *History
	clients   ClientFactory
	settings  Cleaner
	media     MediaCleaner
	notifier  Notifier
	cfg       config.ImportConfig

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// ServiceDeps groups the collaborators of a Service
type ServiceDeps struct {
	Snapshots *SnapshotStore
	Engine    *Engine
	History   *History
	Clients   ClientFactory
	Settings  Cleaner
	Media     MediaCleaner
	Notifier  Notifier
}

// NewService creates the importer service
func NewService(deps ServiceDeps, cfg config.ImportConfig) *Service {
	return &Service{
		snapshots: deps.Snapshots,
		engine:    deps.Engine,
		history:   deps.History,
		clients:   deps.Clients,
		settings:  deps.Settings,
		media:     deps.Media,
		notifier:  deps.Notifier,
		cfg:       cfg,
		stop:      make(chan struct{}),
	}
}

// SetNotifier attaches a progress listener
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// StartImport fetches a full snapshot of kind from the ERP and stores it,
// replacing the previous one. A failed fetch leaves the old snapshot intact.
func (s *Service) StartImport(ctx context.Context, kind bizzio.Kind) (*StartResult, error) {
	if !kind.Importable() {
		return nil, ErrUnknownKind
	}

	client, err := s.clients(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.snapshots.Lock(kind)
	defer unlock()

	log.Printf("📦 Bizzio: fetching %s...", kind)

	var snap *models.SyncSnapshot
	switch kind {
	case bizzio.KindProducts:
		articles, err := client.FetchArticles(ctx, bizzio.DefaultArticleOptions())
		if err != nil {
			return nil, err
		}
		snap, err = s.snapshots.SaveArticles(ctx, articles)
		if err != nil {
			return nil, err
		}
	case bizzio.KindCategories:
		categories, err := client.FetchCategories(ctx, true)
		if err != nil {
			return nil, err
		}
		snap, err = s.snapshots.SaveCategories(ctx, categories)
		if err != nil {
			return nil, err
		}
	}

	observeFetch(kind, snap.Total)
	log.Printf("✅ Bizzio: fetched %d %s", snap.Total, kind)

	progress := ProgressOf(snap)
	s.notify(progress)
	return &StartResult{FetchedCount: snap.Total, Progress: progress}, nil
}

// ProcessBatch advances the reconciliation of kind by one batch
func (s *Service) ProcessBatch(ctx context.Context, kind bizzio.Kind) (*BatchResult, error) {
	result, err := s.engine.ProcessBatch(ctx, kind)
	if err != nil {
		return nil, err
	}
	if result.Processed > 0 {
		snap, err := s.snapshots.Status(ctx, kind)
		if err == nil {
			s.notify(ProgressOf(snap))
		}
	}
	return result, nil
}

// Progress reads the current snapshot counters
func (s *Service) Progress(ctx context.Context, kind bizzio.Kind) (*Progress, error) {
	if !kind.Importable() {
		return nil, ErrUnknownKind
	}
	snap, err := s.snapshots.Status(ctx, kind)
	if err != nil {
		return nil, err
	}
	return ProgressOf(snap), nil
}

// TestConnection performs the lightweight category call
func (s *Service) TestConnection(ctx context.Context) error {
	client, err := s.clients(ctx)
	if err != nil {
		return err
	}
	return client.TestConnection(ctx)
}

// History lists completed runs
func (s *Service) History(ctx context.Context, limit int) ([]models.SyncHistory, error) {
	return s.history.List(ctx, limit)
}

// Uninstall drops both snapshots, every stored option and the downloaded
// asset directory. Catalog entities are kept.
func (s *Service) Uninstall(ctx context.Context) error {
	unlockCategories := s.snapshots.Lock(bizzio.KindCategories)
	defer unlockCategories()
	unlockProducts := s.snapshots.Lock(bizzio.KindProducts)
	defer unlockProducts()

	if err := s.snapshots.Reset(ctx); err != nil {
		return err
	}
	if s.settings != nil {
		if err := s.settings.DeleteAll(ctx); err != nil {
			return err
		}
	}
	if s.media != nil {
		if err := s.media.RemoveAll(); err != nil {
			return fmt.Errorf("failed to remove media directory: %w", err)
		}
	}

	log.Println("🧹 Bizzio: snapshots, settings and downloaded images removed")
	return nil
}

func (s *Service) notify(p *Progress) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(ProgressMessage{Type: "PROGRESS", Kind: p.Kind, Progress: p})
}
