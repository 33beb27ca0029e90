package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateConfig points the config dir at a temp directory so tests never
// touch the real user config.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		"BRUNI_PROVIDER", "BRUNI_MODEL", "BRUNI_FORMAT", "BRUNI_IMAGES_DIR",
		"BRUNI_RATE_LIMIT", "BRUNI_API_URL", "BRUNI_API_TOKEN",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.RateLimit != 10 || cfg.MaxRetries != 3 {
		t.Errorf("RateLimit = %d, MaxRetries = %d", cfg.RateLimit, cfg.MaxRetries)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 86400 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if !cfg.Comment {
		t.Error("Comment should default on")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.ImagesDir != "images" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_FileLayer(t *testing.T) {
	dir := isolateConfig(t)

	path := filepath.Join(dir, "bruni", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"provider": "anthropic", "rateLimit": 30, "reporting": {"apiUrl": "https://api.example.com/reports"}}`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "anthropic" || cfg.RateLimit != 30 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Reporting.APIURL != "https://api.example.com/reports" {
		t.Errorf("Reporting = %+v", cfg.Reporting)
	}
	// Unset fields keep defaults.
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolateConfig(t)

	path := filepath.Join(dir, "bruni", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"provider": "anthropic"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BRUNI_PROVIDER", "openai")
	t.Setenv("BRUNI_API_TOKEN", "env-token")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, env should override file", cfg.Provider)
	}
	if cfg.Reporting.Token != "env-token" {
		t.Errorf("Token = %q", cfg.Reporting.Token)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("BRUNI_MODEL", "env-model")

	cfg, err := Load(map[string]string{"model": "flag-model", "rateLimit": "5"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model != "flag-model" {
		t.Errorf("Model = %q, flag should override env", cfg.Model)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolateConfig(t)

	cfg := Default()
	cfg.Provider = "anthropic"
	cfg.Pages = []string{"/", "/pricing"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Provider != "anthropic" {
		t.Errorf("Provider = %q", loaded.Provider)
	}
	if len(loaded.Pages) != 2 || loaded.Pages[1] != "/pricing" {
		t.Errorf("Pages = %v", loaded.Pages)
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	if err := SetField(&cfg, "provider", "anthropic"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q", cfg.Provider)
	}

	if err := SetField(&cfg, "rateLimit", "20"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if cfg.RateLimit != 20 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}

	if err := SetField(&cfg, "rateLimit", "abc"); err == nil {
		t.Error("Expected error for non-integer rateLimit")
	}
	if err := SetField(&cfg, "bogus", "x"); err == nil {
		t.Error("Expected error for unknown key")
	}
}
