package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "http://localhost:8000"
	defaultTimeout        = 60 * time.Second
	defaultMaxUploadBytes = 50 << 20
	defaultLogLevel       = "info"
)

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Log     LogConfig     `yaml:"log"`
	Upload  UploadConfig  `yaml:"upload"`
	Chat    ChatConfig    `yaml:"chat"`
}

type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" validate:"required,url"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
	HealthCheck    bool          `yaml:"health_check"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

type UploadConfig struct {
	InspectPDF *bool `yaml:"inspect_pdf"`
}

type ChatConfig struct {
	Color *bool `yaml:"color"`
}

// InspectPDFEnabled defaults to true when the key is absent.
func (u UploadConfig) InspectPDFEnabled() bool {
	return u.InspectPDF == nil || *u.InspectPDF
}

func (c ChatConfig) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// LoadConfig reads the YAML file at path, then applies defaults and RAGCHAT_* environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBaseURL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaultTimeout
	}
	if c.Backend.MaxUploadBytes == 0 {
		c.Backend.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RAGCHAT_API_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RAGCHAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RAGCHAT_TIMEOUT %q: %w", v, err)
		}
		c.Backend.Timeout = d
	}
	if v := os.Getenv("RAGCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("RAGCHAT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
