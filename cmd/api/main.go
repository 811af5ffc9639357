package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/bizziosync/internal/catalog"
	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/handlers"
	"github.com/xelth-com/bizziosync/internal/media"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/importer"
	"github.com/xelth-com/bizziosync/internal/settings"
	"github.com/xelth-com/bizziosync/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Build the import pipeline
	settingsStore, err := settings.NewStore(db, cfg.EncKey)
	if err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}

	catalogStore := catalog.NewGormStore(db)
	resolver := media.NewResolver(catalogStore, cfg.Media)
	snapshots := importer.NewSnapshotStore(db)
	history := importer.NewHistory(db)
	engine := importer.NewEngine(snapshots, catalogStore, resolver, history, cfg.Import.BatchSize)

	hub := websocket.NewHub()
	go hub.Run()

	importService := importer.NewService(importer.ServiceDeps{
		Snapshots: snapshots,
		Engine:    engine,
		History:   history,
		Clients:   importer.NewClientFactory(settingsStore, cfg.Bizzio),
		Settings:  settingsStore,
		Media:     resolver,
		Notifier:  hub,
	}, cfg.Import)

	// 5. Start the auto-advance scheduler (Background)
	importService.Start()

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, importService, settingsStore, hub)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Bizzio sync server starting on port %s (ERP: %s)\n", cfg.Port, cfg.Bizzio.Endpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the scheduler, then listeners
	importService.Stop()
	hub.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
