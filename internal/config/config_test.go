package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProbeTimeoutMs != 8000 {
		t.Errorf("ProbeTimeoutMs: got %d, want 8000", cfg.ProbeTimeoutMs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoad_AppliesDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"skipDomains":["internal.example.com"]}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProbeTimeoutMs != 8000 {
		t.Errorf("ProbeTimeoutMs: got %d, want default 8000", cfg.ProbeTimeoutMs)
	}
	if len(cfg.SkipDomains) != 1 || cfg.SkipDomains[0] != "internal.example.com" {
		t.Errorf("SkipDomains: got %v", cfg.SkipDomains)
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	want := Config{
		ProbeTimeoutMs:       12000,
		SkipDomains:          []string{"localhost"},
		DismissedSuggestions: []string{"f1<-f2"},
	}
	if err := Save(path, &want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ProbeTimeoutMs != want.ProbeTimeoutMs {
		t.Errorf("ProbeTimeoutMs: got %d, want %d", got.ProbeTimeoutMs, want.ProbeTimeoutMs)
	}
	if len(got.SkipDomains) != 1 || got.SkipDomains[0] != "localhost" {
		t.Errorf("SkipDomains: got %v", got.SkipDomains)
	}
	if len(got.DismissedSuggestions) != 1 || got.DismissedSuggestions[0] != "f1<-f2" {
		t.Errorf("DismissedSuggestions: got %v", got.DismissedSuggestions)
	}
}
