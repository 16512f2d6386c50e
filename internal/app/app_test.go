package app_test

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/storeadmin/internal/app"
)

func TestDefaultConfig(t *testing.T) {
	cfg := app.DefaultConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want %q", cfg.MetricsAddr, ":9090")
	}
	if cfg.PostgresDSN != "" {
		t.Errorf("PostgresDSN = %q, want empty", cfg.PostgresDSN)
	}
}

func TestReadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STOREADMIN_HTTP_ADDR", ":18080")
	t.Setenv("STOREADMIN_METRICS_ADDR", ":19090")
	t.Setenv("STOREADMIN_POSTGRES_DSN", "postgres://localhost/storeadmin")

	cfg := app.ReadConfig()
	if cfg.HTTPAddr != ":18080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":18080")
	}
	if cfg.MetricsAddr != ":19090" {
		t.Errorf("MetricsAddr = %q, want %q", cfg.MetricsAddr, ":19090")
	}
	if cfg.PostgresDSN != "postgres://localhost/storeadmin" {
		t.Errorf("PostgresDSN = %q", cfg.PostgresDSN)
	}
}

func TestNewDependenciesMemoryByDefault(t *testing.T) {
	deps := app.NewDependencies(context.Background(), app.DefaultConfig(), nil)
	if deps.Store != nil {
		t.Error("Store should be nil without a DSN")
	}
	if deps.Products == nil || deps.Orders == nil {
		t.Fatal("repositories should be initialized")
	}

	// Close на in-memory зависимостях безопасен.
	deps.Close(nil)
}
