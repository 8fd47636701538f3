package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName    = "splash"
	configName = "config"
	configType = "yaml"
	envPrefix  = "SPLASH"

	// MaxPageSize is the largest per_page the API honours
	MaxPageSize = 30
)

// DefaultEnvFiles are dotenv files read before the environment, first match wins
var DefaultEnvFiles = []string{filepath.Join("env", ".env"), ".env"}

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Gallery GalleryConfig `mapstructure:"gallery"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Browser BrowserConfig `mapstructure:"browser"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// APIConfig holds photo API configuration
type APIConfig struct {
	AccessKey   string        `mapstructure:"access_key"`
	BaseURL     string        `mapstructure:"base_url"`
	PageSize    int           `mapstructure:"page_size"`
	Timeout     time.Duration `mapstructure:"timeout"`      // 0 disables the timeout
	MinInterval time.Duration `mapstructure:"min_interval"` // Spacing between requests
	Burst       int           `mapstructure:"burst"`
}

// GalleryConfig holds infinite-scroll tuning
type GalleryConfig struct {
	PrefetchRows int           `mapstructure:"prefetch_rows"` // Load when fewer rows than this remain below the viewport
	Debounce     time.Duration `mapstructure:"debounce"`
}

// CacheConfig holds photo cache configuration
type CacheConfig struct {
	Dir    string        `mapstructure:"dir"` // Empty keeps the cache in memory
	MaxAge time.Duration `mapstructure:"max_age"`
}

// BrowserConfig holds the command used to open links
type BrowserConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "https://api.unsplash.com",
			PageSize:    15,
			Timeout:     0,
			MinInterval: 250 * time.Millisecond,
			Burst:       4,
		},
		Gallery: GalleryConfig{
			PrefetchRows: 10,
			Debounce:     20 * time.Millisecond,
		},
		Cache: CacheConfig{
			Dir:    DefaultCacheDir(),
			MaxAge: 24 * time.Hour,
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  DefaultLogPath(),
			Level: "INFO",
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.access_key", cfg.API.AccessKey)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.min_interval", cfg.API.MinInterval)
	v.SetDefault("api.burst", cfg.API.Burst)
	v.SetDefault("gallery.prefetch_rows", cfg.Gallery.PrefetchRows)
	v.SetDefault("gallery.debounce", cfg.Gallery.Debounce)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.max_age", cfg.Cache.MaxAge)
	v.SetDefault("browser.command", cfg.Browser.Command)
	v.SetDefault("browser.args", cfg.Browser.Args)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultCacheDir returns the default cache directory for the current OS
func DefaultCacheDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// DefaultLogPath returns the default log file path for the current OS
func DefaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// Load reads configuration from dotenv files, the config file and the environment.
// configPath overrides the config file search; envFiles overrides DefaultEnvFiles.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if envFiles == nil {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		// Missing files are fine; variables already set are never overwritten
		_ = godotenv.Load(f)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// The access key is also accepted under the names the web client used
	v.BindEnv("api.access_key", envPrefix+"_API_ACCESS_KEY", "UNSPLASH_ACCESS_KEY", "REACT_APP_UNSPLASH_ACCESS_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

// Validate checks that values are in range
func (c *Config) Validate() error {
	var errs []error

	if c.API.PageSize < 1 || c.API.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("api.page_size must be between 1 and %d, got %d", MaxPageSize, c.API.PageSize))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout))
	}
	if c.API.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("api.min_interval must not be negative, got %s", c.API.MinInterval))
	}
	if c.API.Burst < 1 {
		errs = append(errs, fmt.Errorf("api.burst must be at least 1, got %d", c.API.Burst))
	}
	if c.Gallery.PrefetchRows < 1 {
		errs = append(errs, fmt.Errorf("gallery.prefetch_rows must be at least 1, got %d", c.Gallery.PrefetchRows))
	}
	if c.Gallery.Debounce < 0 {
		errs = append(errs, fmt.Errorf("gallery.debounce must not be negative, got %s", c.Gallery.Debounce))
	}
	if c.Cache.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("cache.max_age must not be negative, got %s", c.Cache.MaxAge))
	}

	return errors.Join(errs...)
}

// IsConfigured returns true if an access key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.API.AccessKey) != ""
}

// Save writes the configuration to config.yaml in dir (DefaultConfigDir when empty)
// and returns the file written.
func Save(cfg *Config, dir string) (string, error) {
	if dir == "" {
		dir = DefaultConfigDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.access_key", cfg.API.AccessKey)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.page_size", cfg.API.PageSize)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.min_interval", cfg.API.MinInterval.String())
	v.Set("api.burst", cfg.API.Burst)
	v.Set("gallery.prefetch_rows", cfg.Gallery.PrefetchRows)
	v.Set("gallery.debounce", cfg.Gallery.Debounce.String())
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.max_age", cfg.Cache.MaxAge.String())
	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	file := filepath.Join(dir, configName+"."+configType)
	if err := v.WriteConfigAs(file); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	// The file holds the access key
	if err := os.Chmod(file, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict config file: %w", err)
	}

	return file, nil
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
