package settings

import (
	"context"
	"strings"
	"testing"

	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f"

func newTestStore(t *testing.T, encKey string) *Store {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", Silent: true})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	s, err := NewStore(db, encKey)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func TestResolveOverlaysStoredValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testKeyHex)

	base := config.BizzioConfig{Endpoint: "https://erp", Database: "env_db", Username: "env_user", Password: "env_pass", SiteID: "1"}

	cfg, err := s.Resolve(ctx, base)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg != base {
		t.Errorf("Expected env values without stored options, got %+v", cfg)
	}

	debug := true
	err = s.Apply(ctx, Update{Username: strPtr(" shop "), Password: strPtr("stored_pass"), SiteID: strPtr("9"), Debug: &debug})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	cfg, err = s.Resolve(ctx, base)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Database != "env_db" || cfg.Username != "shop" || cfg.Password != "stored_pass" || cfg.SiteID != "9" || !cfg.Debug {
		t.Errorf("Unexpected resolved config %+v", cfg)
	}
}

func TestPasswordEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testKeyHex)

	if err := s.Apply(ctx, Update{Password: strPtr("hunter2")}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	raw, ok, err := s.Get(ctx, KeyPassword)
	if err != nil || !ok {
		t.Fatalf("Expected stored password, got %v", err)
	}
	if !strings.HasPrefix(raw, encryptedPrefix) || strings.Contains(raw, "hunter2") {
		t.Errorf("Password should be encrypted, got %q", raw)
	}

	// empty and masked passwords keep the stored value
	for _, p := range []string{"", config.PasswordMask} {
		if err := s.Apply(ctx, Update{Password: strPtr(p)}); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	cfg, _ := s.Resolve(ctx, config.BizzioConfig{})
	if cfg.Password != "hunter2" {
		t.Errorf("Expected hunter2, got %q", cfg.Password)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Set(ctx, KeyDatabase, "db"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyDatabase); ok {
		t.Error("Expected options to be deleted")
	}
}
