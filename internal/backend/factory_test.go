package backend

import (
	"context"
	"path/filepath"
	"testing"

	"libfine/internal/config"
	"libfine/internal/ledger/memory"
	"libfine/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDSN: "x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDSN != "x.db" {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDSN: ":memory:"}, false},
		{"sqlite without dsn", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := res.Store.(*memory.Store); !ok {
			t.Errorf("expected memory store, got %T", res.Store)
		}
		if res.Cleanup != nil {
			t.Errorf("memory backend should not need cleanup")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "ledger.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDSN: dsn})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
			t.Errorf("expected sqlite repository, got %T", res.Store)
		}
		if _, err := res.Store.OpenSession(ctx, "c"); err != nil {
			t.Errorf("OpenSession() error = %v", err)
		}
		if err := res.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: "postgres"}); err == nil {
			t.Errorf("expected error")
		}
	})
}
