package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Capture     CaptureConfig     `yaml:"capture"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Credential  CredentialConfig  `yaml:"credential"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CaptureConfig struct {
	Duration          time.Duration `yaml:"duration"`
	ReadyPollInterval time.Duration `yaml:"ready_poll_interval"`
	ReadyMaxPolls     int           `yaml:"ready_max_polls"`
	CaptionEnableWait time.Duration `yaml:"caption_enable_wait"`
	ReinitDelay       time.Duration `yaml:"reinit_delay"`
	DedupeRepeats     bool          `yaml:"dedupe_repeats"`
	PreviewMaxChars   int           `yaml:"preview_max_chars"`
}

type AnalysisConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ClassModel   string        `yaml:"class_model"`
	TopicsMode   string        `yaml:"topics_mode"`
	Language     string        `yaml:"language"`
	MinRelevance int           `yaml:"min_relevance"`
	Timeout      time.Duration `yaml:"timeout"`
}

type CredentialConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a YAML config file and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns a validated config with every default applied
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

func (c *Config) Validate() error {
	if c.Credential.Backend == "" {
		c.Credential.Backend = "file"
	}
	if c.Credential.Backend != "file" && c.Credential.Backend != "sqlite" {
		return fmt.Errorf("credential.backend must be file or sqlite, got %q", c.Credential.Backend)
	}
	if c.Capture.Duration < 0 {
		return fmt.Errorf("capture.duration must not be negative")
	}
	if c.Capture.ReadyMaxPolls < 0 {
		return fmt.Errorf("capture.ready_max_polls must not be negative")
	}
	if c.Analysis.MinRelevance < 0 || c.Analysis.MinRelevance > 100 {
		return fmt.Errorf("analysis.min_relevance must be within 0-100")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:7531"
	}
	if c.Capture.Duration == 0 {
		c.Capture.Duration = 60 * time.Second
	}
	if c.Capture.ReadyPollInterval == 0 {
		c.Capture.ReadyPollInterval = time.Second
	}
	if c.Capture.CaptionEnableWait == 0 {
		c.Capture.CaptionEnableWait = time.Second
	}
	if c.Capture.ReinitDelay == 0 {
		c.Capture.ReinitDelay = 1500 * time.Millisecond
	}
	if c.Capture.PreviewMaxChars == 0 {
		c.Capture.PreviewMaxChars = 2000
	}
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = "https://api.meaningcloud.com"
	}
	if c.Analysis.ClassModel == "" {
		c.Analysis.ClassModel = "IPTC_en"
	}
	if c.Analysis.TopicsMode == "" {
		c.Analysis.TopicsMode = "ec"
	}
	if c.Analysis.Language == "" {
		c.Analysis.Language = "en"
	}
	if c.Analysis.MinRelevance == 0 {
		c.Analysis.MinRelevance = 10
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = 30 * time.Second
	}
	if c.Credential.Path == "" {
		if c.Credential.Backend == "sqlite" {
			c.Credential.Path = "data/credentials.db"
		} else {
			c.Credential.Path = "data/credentials.yaml"
		}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
