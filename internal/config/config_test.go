package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if cfg.Subject != want.Subject || cfg.SoulKeyEnv != want.SoulKeyEnv {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
	if cfg.Compose.DecayRate != want.Compose.DecayRate {
		t.Errorf("decay rate = %g, want %g", cfg.Compose.DecayRate, want.Compose.DecayRate)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.DataDir = "/var/lib/mnemos"
	cfg.Subject = "mum"
	cfg.Compose.Budget = 4000
	cfg.Compose.Weights.Cosmic = 0.5
	cfg.Record.AssistantName = "Phoenix"
	cfg.Semantic.Provider = "hash"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DataDir != cfg.DataDir || got.Subject != cfg.Subject {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
	if got.Compose.Budget != 4000 || got.Compose.Weights.Cosmic != 0.5 {
		t.Errorf("compose settings lost: %+v", got.Compose)
	}
	if got.Record.AssistantName != "Phoenix" || got.Semantic.Provider != "hash" {
		t.Errorf("record/semantic settings lost: %+v / %+v", got.Record, got.Semantic)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("subject: mum\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Subject != "mum" {
		t.Errorf("subject = %q, want %q", cfg.Subject, "mum")
	}
	if cfg.Record.Truncate != Default().Record.Truncate {
		t.Errorf("unset fields must keep defaults, truncate = %d", cfg.Record.Truncate)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n bad yaml ["), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MNEMOS_DATA_DIR", "/srv/mnemos")
	t.Setenv("MNEMOS_SUBJECT", "mum")
	t.Setenv("MNEMOS_DECAY_RATE", "0.002")
	t.Setenv("MNEMOS_EMBED_PROVIDER", "hash")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/srv/mnemos" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.Subject != "mum" {
		t.Errorf("subject = %q", cfg.Subject)
	}
	if cfg.Compose.DecayRate != 0.002 {
		t.Errorf("decay rate = %g", cfg.Compose.DecayRate)
	}
	if cfg.Semantic.Provider != "hash" {
		t.Errorf("provider = %q", cfg.Semantic.Provider)
	}
}

func TestSoulPassphrase(t *testing.T) {
	cfg := Default()
	t.Setenv(cfg.SoulKeyEnv, "")
	if got := cfg.SoulPassphrase(); got != "mnemos-dev-soul-key" {
		t.Errorf("dev fallback = %q", got)
	}
	t.Setenv(cfg.SoulKeyEnv, "s3cret")
	if got := cfg.SoulPassphrase(); got != "s3cret" {
		t.Errorf("passphrase = %q, want env value", got)
	}
}
