package importer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

// Categories go first so products can link to them.
var scheduleOrder = []bizzio.Kind{bizzio.KindCategories, bizzio.KindProducts}

// Start runs the auto-advance loop when enabled. It takes the same per-kind
// locks as the HTTP triggers.
func (s *Service) Start() {
	if !s.cfg.AutoAdvance {
		log.Println("Bizzio scheduler disabled: IMPORT_AUTO_ADVANCE not set")
		return
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	// Stop aborts a running fetch or download instead of waiting for it
	go func() {
		<-s.stop
		cancel()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Printf("📡 Bizzio scheduler started (every %s)", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastRefresh time.Time
		for {
			select {
			case <-ticker.C:
				lastRefresh = s.tick(ctx, lastRefresh, time.Now())
			case <-s.stop:
				log.Println("🛑 Bizzio scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the scheduler, cancelling the running tick, and waits for it to return
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// tick advances the first in-progress kind by one batch, so products wait
// for a running category import. When nothing is running and the refresh
// period elapsed, it starts new imports instead.
func (s *Service) tick(ctx context.Context, lastRefresh, now time.Time) time.Time {
	busy := false
	for _, kind := range scheduleOrder {
		snap, err := s.snapshots.Status(ctx, kind)
		if err != nil {
			log.Printf("⚠️  Bizzio scheduler: %v", err)
			continue
		}
		if snap.Status != models.StatusInProgress {
			continue
		}
		busy = true
		if _, err := s.ProcessBatch(ctx, kind); err != nil && !errors.Is(err, ErrConcurrentUpdate) {
			log.Printf("❌ Bizzio scheduler: %s batch failed: %v", kind, err)
		}
		break
	}

	if busy || s.cfg.RefreshMinutes <= 0 {
		return lastRefresh
	}
	if !lastRefresh.IsZero() && now.Sub(lastRefresh) < time.Duration(s.cfg.RefreshMinutes)*time.Minute {
		return lastRefresh
	}

	log.Println("🔄 Bizzio scheduler: starting periodic refresh")
	for _, kind := range scheduleOrder {
		if _, err := s.StartImport(ctx, kind); err != nil {
			log.Printf("❌ Bizzio scheduler: %s refresh failed: %v", kind, err)
			break
		}
	}
	return now
}
