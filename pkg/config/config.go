package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the archive harvester
type Config struct {
	// Archive site serving the paginated index and the gallery pages
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Asset host serving the photo bytes
	Assets AssetConfig `yaml:"assets" json:"assets"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ArchiveConfig locates the archive index
type ArchiveConfig struct {
	Scheme    string `yaml:"scheme" json:"scheme"`
	Host      string `yaml:"host" json:"host"`
	EntryPath string `yaml:"entry_path" json:"entry_path"`
}

// AssetConfig locates the photo asset host
type AssetConfig struct {
	Scheme string `yaml:"scheme" json:"scheme"`
	Host   string `yaml:"host" json:"host"`
}

// DownloadConfig holds per-request and per-photo settings
type DownloadConfig struct {
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	MinPhotoSize      int           `yaml:"min_photo_size" json:"min_photo_size"`
	MaxRedirects      int           `yaml:"max_redirects" json:"max_redirects"`
	RedirectDelay     time.Duration `yaml:"redirect_delay" json:"redirect_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	FileExtension     string        `yaml:"file_extension" json:"file_extension"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config pointing at the Croquis Cafe photo archive
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Scheme:    "http",
			Host:      "www.onairvideo.com",
			EntryPath: "/croquis-cafe-photos.html",
		},
		Assets: AssetConfig{
			Scheme: "https",
			Host:   "nebula.wsimg.com",
		},
		Download: DownloadConfig{
			Timeout:           30 * time.Second,
			MinPhotoSize:      20,
			MaxRedirects:      10,
			RedirectDelay:     250 * time.Millisecond,
			RequestsPerMinute: 0, // 0 means no pacing
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			FileExtension:     ".jpg",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// ArchiveBaseURL returns scheme://host for the archive site
func (c *Config) ArchiveBaseURL() string {
	return c.Archive.Scheme + "://" + c.Archive.Host
}

// AssetBaseURL returns scheme://host for the asset host
func (c *Config) AssetBaseURL() string {
	return c.Assets.Scheme + "://" + c.Assets.Host
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("CCSCRAPER_ARCHIVE_HOST"); host != "" {
		c.Archive.Host = host
	}
	if scheme := os.Getenv("CCSCRAPER_ARCHIVE_SCHEME"); scheme != "" {
		c.Archive.Scheme = scheme
	}
	if entry := os.Getenv("CCSCRAPER_ENTRY_PATH"); entry != "" {
		c.Archive.EntryPath = entry
	}
	if host := os.Getenv("CCSCRAPER_ASSET_HOST"); host != "" {
		c.Assets.Host = host
	}
	if scheme := os.Getenv("CCSCRAPER_ASSET_SCHEME"); scheme != "" {
		c.Assets.Scheme = scheme
	}

	if timeout := os.Getenv("CCSCRAPER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid CCSCRAPER_TIMEOUT: %w", err)
		}
		c.Download.Timeout = d
	}
	if rpm := os.Getenv("CCSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			return fmt.Errorf("invalid CCSCRAPER_REQUESTS_PER_MINUTE: %w", err)
		}
		c.Download.RequestsPerMinute = val
	}
	if redirects := os.Getenv("CCSCRAPER_MAX_REDIRECTS"); redirects != "" {
		val, err := strconv.Atoi(redirects)
		if err != nil {
			return fmt.Errorf("invalid CCSCRAPER_MAX_REDIRECTS: %w", err)
		}
		c.Download.MaxRedirects = val
	}
	if delay := os.Getenv("CCSCRAPER_REDIRECT_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid CCSCRAPER_REDIRECT_DELAY: %w", err)
		}
		c.Download.RedirectDelay = d
	}
	if ua := os.Getenv("CCSCRAPER_USER_AGENT"); ua != "" {
		c.Download.UserAgent = ua
	}

	if logLevel := os.Getenv("CCSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("CCSCRAPER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".ccscraper.yaml",
		".ccscraper.yml",
		filepath.Join(home, ".config", "ccscraper", "config.yaml"),
		filepath.Join(home, ".config", "ccscraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	validSchemes := map[string]bool{"http": true, "https": true}
	if !validSchemes[c.Archive.Scheme] {
		errs = append(errs, fmt.Errorf("archive scheme must be http or https, got %q", c.Archive.Scheme))
	}
	if c.Archive.Host == "" {
		errs = append(errs, errors.New("archive host is required"))
	}
	if !strings.HasPrefix(c.Archive.EntryPath, "/") {
		errs = append(errs, errors.New("archive entry path must start with /"))
	}
	if !validSchemes[c.Assets.Scheme] {
		errs = append(errs, fmt.Errorf("asset scheme must be http or https, got %q", c.Assets.Scheme))
	}
	if c.Assets.Host == "" {
		errs = append(errs, errors.New("asset host is required"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MinPhotoSize < 0 {
		errs = append(errs, errors.New("minimum photo size cannot be negative"))
	}
	if c.Download.MaxRedirects <= 0 {
		errs = append(errs, errors.New("max redirects must be positive"))
	}
	if c.Download.RedirectDelay < 0 {
		errs = append(errs, errors.New("redirect delay cannot be negative"))
	}
	if c.Download.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if !strings.HasPrefix(c.Download.FileExtension, ".") {
		errs = append(errs, errors.New("file extension must start with a dot"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm >= 0 {
		c.Download.RequestsPerMinute = rpm
	}
	if redirects, ok := flags["max-redirects"].(int); ok && redirects > 0 {
		c.Download.MaxRedirects = redirects
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ccscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
