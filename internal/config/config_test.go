package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Style.Theme != ThemeLight {
		t.Errorf("expected default theme %q, got %q", ThemeLight, cfg.Style.Theme)
	}
	if cfg.Style.Radius != RadiusMedium {
		t.Errorf("expected default radius %q, got %q", RadiusMedium, cfg.Style.Radius)
	}
	if cfg.Style.Spacing != SpacingNormal {
		t.Errorf("expected default spacing %q, got %q", SpacingNormal, cfg.Style.Spacing)
	}
	if !cfg.Features.PageContext {
		t.Error("expected page context enabled by default")
	}
	if cfg.Features.MaxAttachmentBytes != DefaultMaxAttachmentBytes {
		t.Errorf("expected default attachment cap %d, got %d", DefaultMaxAttachmentBytes, cfg.Features.MaxAttachmentBytes)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.embedchat.yml")

	original := DefaultConfig()
	original.Branding.Title = "Support"
	original.Style.Theme = ThemeDark
	original.Style.Grayscale = &Grayscale{Hue: 220, Tint: 10, Shade: 0}
	original.Style.Accent = &Accent{Color: "#4f46e5", Level: 2}
	original.Connection.WebhookURL = "https://relay.example.com/hook"
	original.Connection.WidgetID = "wgt_123"
	original.Connection.LicenseKey = "lic_abc"
	original.Features.FileUpload = true

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Branding.Title != original.Branding.Title {
		t.Errorf("title: got %q, want %q", loaded.Branding.Title, original.Branding.Title)
	}
	if loaded.Style.Theme != original.Style.Theme {
		t.Errorf("theme: got %q, want %q", loaded.Style.Theme, original.Style.Theme)
	}
	if loaded.Style.Grayscale == nil || loaded.Style.Grayscale.Hue != 220 {
		t.Errorf("grayscale did not round-trip: %+v", loaded.Style.Grayscale)
	}
	if loaded.Style.Accent == nil || loaded.Style.Accent.Level != 2 {
		t.Errorf("accent did not round-trip: %+v", loaded.Style.Accent)
	}
	if loaded.Connection.WebhookURL != original.Connection.WebhookURL {
		t.Errorf("webhook_url: got %q, want %q", loaded.Connection.WebhookURL, original.Connection.WebhookURL)
	}
	if !loaded.Features.FileUpload {
		t.Error("file_upload: expected true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Style.Theme != ThemeLight {
		t.Errorf("expected defaults, got theme %q", cfg.Style.Theme)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	t.Setenv("EMBEDCHAT_CONNECTION_WEBHOOK_URL", "https://env.example.com/hook")
	t.Setenv("EMBEDCHAT_STYLE_THEME", "dark")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Connection.WebhookURL != "https://env.example.com/hook" {
		t.Errorf("env override missed: got %q", cfg.Connection.WebhookURL)
	}
	if cfg.Style.Theme != ThemeDark {
		t.Errorf("env override missed: got theme %q", cfg.Style.Theme)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing webhook_url")
	}

	cfg.Connection.WebhookURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed webhook_url")
	}

	cfg.Connection.WebhookURL = "https://relay.example.com/hook"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing widget_id")
	}

	cfg.Connection.WidgetID = "wgt_123"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Style.Radius = "circular"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid radius preset")
	}
}

func TestFetch(t *testing.T) {
	remote := DefaultConfig()
	remote.Branding.Title = "Remote"
	remote.Connection.WebhookURL = "https://relay.example.com/hook"
	remote.Connection.WidgetID = "wgt_remote"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/widgets/wgt_remote/config" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(remote)
	}))
	defer srv.Close()

	cfg, err := Fetch(context.Background(), srv.Client(), srv.URL, "wgt_remote")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if cfg.Branding.Title != "Remote" {
		t.Errorf("title: got %q, want %q", cfg.Branding.Title, "Remote")
	}
	// Fields absent from the response keep their defaults.
	if cfg.Style.Radius != RadiusMedium {
		t.Errorf("expected default radius, got %q", cfg.Style.Radius)
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL, "missing"); err == nil {
		t.Error("expected error for unknown widget id")
	}
}
