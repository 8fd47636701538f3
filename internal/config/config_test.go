package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv clears every variable Load reads so the host environment cannot leak in
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SPLASH_API_ACCESS_KEY", "UNSPLASH_ACCESS_KEY", "REACT_APP_UNSPLASH_ACCESS_KEY",
		"SPLASH_API_PAGE_SIZE", "SPLASH_API_TIMEOUT", "SPLASH_GALLERY_DEBOUNCE",
		"SPLASH_GALLERY_PREFETCH_ROWS", "SPLASH_CACHE_DIR", "SPLASH_LOGGING_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), []string{}...); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "logging:\n  level: DEBUG\n")

	cfg, err := Load(path, []string{}...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}
	if cfg.API.PageSize != 15 {
		t.Errorf("PageSize = %d, want 15", cfg.API.PageSize)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.API.Timeout)
	}
	if cfg.Gallery.Debounce != 20*time.Millisecond {
		t.Errorf("Debounce = %v, want 20ms", cfg.Gallery.Debounce)
	}
	if cfg.Gallery.PrefetchRows != 10 {
		t.Errorf("PrefetchRows = %d, want 10", cfg.Gallery.PrefetchRows)
	}
	if cfg.Cache.MaxAge != 24*time.Hour {
		t.Errorf("MaxAge = %v, want 24h", cfg.Cache.MaxAge)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Level = %q, want DEBUG", cfg.Logging.Level)
	}
	if cfg.IsConfigured() {
		t.Error("expected no access key")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"api:",
		"  access_key: from-file",
		"  page_size: 20",
		"  timeout: 10s",
		"gallery:",
		"  debounce: 50ms",
	}, "\n"))

	t.Setenv("SPLASH_API_PAGE_SIZE", "25")

	cfg, err := Load(path, []string{}...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.AccessKey != "from-file" {
		t.Errorf("AccessKey = %q, want from-file", cfg.API.AccessKey)
	}
	if cfg.API.PageSize != 25 {
		t.Errorf("PageSize = %d, want env override 25", cfg.API.PageSize)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Gallery.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce = %v, want 50ms", cfg.Gallery.Debounce)
	}
}

func TestLoad_AccessKeyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"prefixed", map[string]string{"SPLASH_API_ACCESS_KEY": "a"}, "a"},
		{"plain", map[string]string{"UNSPLASH_ACCESS_KEY": "b"}, "b"},
		{"web client name", map[string]string{"REACT_APP_UNSPLASH_ACCESS_KEY": "c"}, "c"},
		{"prefixed wins", map[string]string{"SPLASH_API_ACCESS_KEY": "a", "REACT_APP_UNSPLASH_ACCESS_KEY": "c"}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, "api:\n  page_size: 15\n")

			cfg, err := Load(path, []string{}...)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.API.AccessKey != tt.expected {
				t.Errorf("AccessKey = %q, want %q", cfg.API.AccessKey, tt.expected)
			}
			if !cfg.IsConfigured() {
				t.Error("expected IsConfigured")
			}
		})
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	isolateEnv(t)
	const name = "REACT_APP_UNSPLASH_ACCESS_KEY"
	os.Unsetenv(name)
	t.Cleanup(func() { os.Unsetenv(name) })

	dir := t.TempDir()
	envFile := filepath.Join(dir, "env", ".env")
	writeFile(t, envFile, name+"=from-dotenv\n")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "api:\n  page_size: 15\n")

	cfg, err := Load(path, envFile, filepath.Join(dir, "does-not-exist.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.AccessKey != "from-dotenv" {
		t.Errorf("AccessKey = %q, want from-dotenv", cfg.API.AccessKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"page size zero", func(c *Config) { c.API.PageSize = 0 }, "api.page_size"},
		{"page size too large", func(c *Config) { c.API.PageSize = 31 }, "api.page_size"},
		{"page size max", func(c *Config) { c.API.PageSize = 30 }, ""},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"negative interval", func(c *Config) { c.API.MinInterval = -1 }, "api.min_interval"},
		{"zero burst", func(c *Config) { c.API.Burst = 0 }, "api.burst"},
		{"negative prefetch", func(c *Config) { c.Gallery.PrefetchRows = -1 }, "gallery.prefetch_rows"},
		{"zero prefetch", func(c *Config) { c.Gallery.PrefetchRows = 0 }, "gallery.prefetch_rows must be at least 1"},
		{"negative debounce", func(c *Config) { c.Gallery.Debounce = -1 }, "gallery.debounce"},
		{"negative max age", func(c *Config) { c.Cache.MaxAge = -1 }, "cache.max_age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.API.AccessKey = "saved-key"
	cfg.API.Timeout = 5 * time.Second
	cfg.Gallery.PrefetchRows = 4

	file, err := Save(cfg, dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	loaded, err := Load(file, []string{}...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.API.AccessKey != "saved-key" {
		t.Errorf("AccessKey = %q", loaded.API.AccessKey)
	}
	if loaded.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", loaded.API.Timeout)
	}
	if loaded.Gallery.PrefetchRows != 4 {
		t.Errorf("PrefetchRows = %d", loaded.Gallery.PrefetchRows)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	writeFile(t, filepath.Join(dir, "abc", "splash.db"), "x")

	if err := ClearCache(dir); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache dir still exists: %v", err)
	}
	if err := ClearCache(dir); err != nil {
		t.Errorf("clearing a missing cache: %v", err)
	}
}
