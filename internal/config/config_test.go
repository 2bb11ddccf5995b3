package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "sqlite backend",
			config: Config{
				Credential: CredentialConfig{Backend: "sqlite"},
			},
			wantErr: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Credential: CredentialConfig{Backend: "keychain"},
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			config: Config{
				Capture: CaptureConfig{Duration: -time.Second},
			},
			wantErr: true,
		},
		{
			name: "relevance out of range",
			config: Config{
				Analysis: AnalysisConfig{MinRelevance: 101},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Capture.Duration != 60*time.Second {
		t.Errorf("Capture.Duration = %v, want %v", cfg.Capture.Duration, 60*time.Second)
	}
	if cfg.Capture.ReadyPollInterval != time.Second {
		t.Errorf("Capture.ReadyPollInterval = %v, want %v", cfg.Capture.ReadyPollInterval, time.Second)
	}
	if cfg.Capture.ReinitDelay != 1500*time.Millisecond {
		t.Errorf("Capture.ReinitDelay = %v, want %v", cfg.Capture.ReinitDelay, 1500*time.Millisecond)
	}
	if cfg.Analysis.ClassModel != "IPTC_en" {
		t.Errorf("Analysis.ClassModel = %v, want %v", cfg.Analysis.ClassModel, "IPTC_en")
	}
	if cfg.Analysis.TopicsMode != "ec" {
		t.Errorf("Analysis.TopicsMode = %v, want %v", cfg.Analysis.TopicsMode, "ec")
	}
	if cfg.Analysis.MinRelevance != 10 {
		t.Errorf("Analysis.MinRelevance = %v, want %v", cfg.Analysis.MinRelevance, 10)
	}
	if cfg.Credential.Path != "data/credentials.yaml" {
		t.Errorf("Credential.Path = %v, want %v", cfg.Credential.Path, "data/credentials.yaml")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("Performance.MaxConcurrent = %v, want %v", cfg.Performance.MaxConcurrent, 2)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
server:
  addr: "127.0.0.1:9000"

capture:
  duration: 30s
  caption_enable_wait: 500ms
  dedupe_repeats: true

analysis:
  base_url: "http://localhost:8080"

credential:
  backend: sqlite
  path: "data/keys.db"

logging:
  level: "debug"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test loading
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %v, want %v", cfg.Server.Addr, "127.0.0.1:9000")
	}
	if cfg.Capture.Duration != 30*time.Second {
		t.Errorf("Capture.Duration = %v, want %v", cfg.Capture.Duration, 30*time.Second)
	}
	if cfg.Capture.CaptionEnableWait != 500*time.Millisecond {
		t.Errorf("Capture.CaptionEnableWait = %v, want %v", cfg.Capture.CaptionEnableWait, 500*time.Millisecond)
	}
	if !cfg.Capture.DedupeRepeats {
		t.Error("Capture.DedupeRepeats = false, want true")
	}
	if cfg.Credential.Backend != "sqlite" || cfg.Credential.Path != "data/keys.db" {
		t.Errorf("Credential = %+v, want sqlite at data/keys.db", cfg.Credential)
	}
	// Untouched fields still get defaults
	if cfg.Analysis.TopicsMode != "ec" {
		t.Errorf("Analysis.TopicsMode = %v, want %v", cfg.Analysis.TopicsMode, "ec")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
