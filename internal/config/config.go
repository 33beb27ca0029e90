package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the bruni configuration.
type Config struct {
	Provider        string          `json:"provider"`
	Model           string          `json:"model"`
	Format          string          `json:"format"`
	ImagesDir       string          `json:"imagesDir"`
	Pages           []string        `json:"pages,omitempty"`
	RateLimit       int             `json:"rateLimit"`
	MaxRetries      int             `json:"maxRetries"`
	MaxTokens       int             `json:"maxTokens"`
	AllowFreeText   bool            `json:"allowFreeText"`
	ContinueOnError bool            `json:"continueOnError"`
	Comment         bool            `json:"comment"`
	Reporting       ReportingConfig `json:"reporting"`
	Cache           CacheConfig     `json:"cache"`
}

// ReportingConfig controls the reporting-backend integration.
type ReportingConfig struct {
	APIURL string `json:"apiUrl,omitempty"`
	Token  string `json:"token,omitempty"`
}

// CacheConfig controls oracle response caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:      "openai",
		Model:         "gpt-4o",
		Format:        "text",
		ImagesDir:     "images",
		RateLimit:     10,
		MaxRetries:    3,
		MaxTokens:     4096,
		AllowFreeText: true,
		Comment:       true,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for bruni.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bruni"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "bruni"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "bruni"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "bruni"), nil
	default:
		return filepath.Join(home, ".config", "bruni"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.ImagesDir != "" {
		dst.ImagesDir = src.ImagesDir
	}
	if len(src.Pages) > 0 {
		dst.Pages = src.Pages
	}
	if src.RateLimit > 0 {
		dst.RateLimit = src.RateLimit
	}
	if src.MaxRetries > 0 {
		dst.MaxRetries = src.MaxRetries
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Reporting.APIURL != "" {
		dst.Reporting.APIURL = src.Reporting.APIURL
	}
	if src.Reporting.Token != "" {
		dst.Reporting.Token = src.Reporting.Token
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// Bool fields from file: JSON zero value for bool is false, so a simple
	// merge cannot distinguish unset from false. Take the union for toggles
	// that default on, the file value otherwise.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.ContinueOnError = src.ContinueOnError || dst.ContinueOnError
	dst.AllowFreeText = src.AllowFreeText || dst.AllowFreeText
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("BRUNI_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("BRUNI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("BRUNI_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("BRUNI_IMAGES_DIR"); v != "" {
		cfg.ImagesDir = v
	}
	if v := os.Getenv("BRUNI_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit = n
		}
	}
	if v := os.Getenv("BRUNI_API_URL"); v != "" {
		cfg.Reporting.APIURL = v
	}
	if v := os.Getenv("BRUNI_API_TOKEN"); v != "" {
		cfg.Reporting.Token = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["imagesDir"]; ok && v != "" {
		cfg.ImagesDir = v
	}
	if v, ok := overrides["rateLimit"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit = n
		}
	}
	if v, ok := overrides["maxRetries"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v, ok := overrides["apiUrl"]; ok && v != "" {
		cfg.Reporting.APIURL = v
	}
	if v, ok := overrides["apiToken"]; ok && v != "" {
		cfg.Reporting.Token = v
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "imagesDir":
		cfg.ImagesDir = value
	case "rateLimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("rateLimit must be an integer: %w", err)
		}
		cfg.RateLimit = n
	case "maxRetries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxRetries must be an integer: %w", err)
		}
		cfg.MaxRetries = n
	case "maxTokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxTokens must be an integer: %w", err)
		}
		cfg.MaxTokens = n
	case "apiUrl":
		cfg.Reporting.APIURL = value
	case "apiToken":
		cfg.Reporting.Token = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
