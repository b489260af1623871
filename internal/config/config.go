package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "desk.yaml"

// Config represents the top-level desk.yaml configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	UI        UIConfig        `yaml:"ui"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audit     AuditConfig     `yaml:"audit"`
}

// APIConfig locates the admin backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig says where credentials are persisted.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// UIConfig holds interaction timings and presentation settings.
type UIConfig struct {
	TitleSuffix  string        `yaml:"title_suffix"`
	Debounce     time.Duration `yaml:"debounce"`
	SuccessDelay time.Duration `yaml:"success_delay"`
	PageSize     int           `yaml:"page_size"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig controls OTLP trace export. Empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	ServiceName  string `yaml:"service_name"`
	Insecure     bool   `yaml:"insecure"`
}

// AuditConfig says where the local audit log lives.
type AuditConfig struct {
	Dir string `yaml:"dir"`
}

// Dir returns the default config directory ($XDG_CONFIG_HOME/desk or the OS equivalent).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "desk"), nil
}

// Load reads a desk.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, or returns defaults if it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(filepath.Dir(path)), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config whose state files live under dir.
func Default(dir string) *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.investdesk.in/api/v1",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Path: filepath.Join(dir, "session.json"),
		},
		UI: UIConfig{
			TitleSuffix:  "InvestDesk Admin",
			Debounce:     300 * time.Millisecond,
			SuccessDelay: 1500 * time.Millisecond,
			PageSize:     10,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "desk",
		},
		Audit: AuditConfig{
			Dir: dir,
		},
	}
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("DESK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := getenv("DESK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	if v := getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
}

// Validate rejects settings the console cannot run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Session.Path == "" {
		return errors.New("session.path is required")
	}
	if c.UI.PageSize <= 0 {
		return errors.New("ui.page_size must be positive")
	}
	return nil
}
