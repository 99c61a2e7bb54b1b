package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Library  LibraryConfig  `mapstructure:"library"`
	Home     HomeConfig     `mapstructure:"home"`
	Episodes EpisodesConfig `mapstructure:"episodes"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds media server configuration
type ServerConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	UserID   string `mapstructure:"user_id"`
	Username string `mapstructure:"username"` // display only
}

// LibraryConfig controls library grid pagination
type LibraryConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	OffsetPolicy string `mapstructure:"offset_policy"` // "running-total" or "page-multiple"
}

// HomeConfig controls the home feed
type HomeConfig struct {
	HiddenLibraries []string        `mapstructure:"hidden_libraries"`
	SectionLimit    int             `mapstructure:"section_limit"`
	SectionTTL      time.Duration   `mapstructure:"section_ttl"`
	Sections        []SectionConfig `mapstructure:"sections"`
}

// SectionConfig is one user-authored home section as written in the config file.
// Exactly one of Items, NextUp or Latest should be set.
type SectionConfig struct {
	Name        string         `mapstructure:"name"`
	Title       string         `mapstructure:"title"`
	Orientation string         `mapstructure:"orientation"`
	Items       *ItemsSection  `mapstructure:"items"`
	NextUp      *NextUpSection `mapstructure:"next_up"`
	Latest      *LatestSection `mapstructure:"latest"`
}

// ItemsSection parameters for an items query section
type ItemsSection struct {
	Limit            int      `mapstructure:"limit"`
	IncludeItemTypes []string `mapstructure:"include_item_types"`
	SortBy           []string `mapstructure:"sort_by"`
	SortOrder        []string `mapstructure:"sort_order"`
	Filters          []string `mapstructure:"filters"`
	ParentID         string   `mapstructure:"parent_id"`
}

// NextUpSection parameters for a next-up section
type NextUpSection struct {
	Limit            int   `mapstructure:"limit"`
	EnableResumable  *bool `mapstructure:"enable_resumable"`
	EnableRewatching *bool `mapstructure:"enable_rewatching"`
}

// LatestSection parameters for a latest-media section
type LatestSection struct {
	Limit            int      `mapstructure:"limit"`
	IncludeItemTypes []string `mapstructure:"include_item_types"`
	IsPlayed         *bool    `mapstructure:"is_played"`
	GroupItems       *bool    `mapstructure:"group_items"`
}

// EpisodesConfig controls the season episode strip
type EpisodesConfig struct {
	Offline     bool          `mapstructure:"offline"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	PrefetchTTL time.Duration `mapstructure:"prefetch_ttl"`
}

// CacheConfig holds local storage configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps everything in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			PageSize:     36,
			OffsetPolicy: "running-total",
		},
		Home: HomeConfig{
			SectionLimit: 20,
			SectionTTL:   time.Minute,
		},
		Episodes: EpisodesConfig{
			SettleDelay: 400 * time.Millisecond,
			PrefetchTTL: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "cache")
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	return decode(v)
}

// LoadConfigFile loads configuration from an explicit file path
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.Library.PageSize <= 0 {
		cfg.Library.PageSize = 36
	}
	if cfg.Home.SectionLimit <= 0 {
		cfg.Home.SectionLimit = 20
	}
	return cfg, nil
}

// SaveConfig writes the server credentials and scalar settings to the default config file.
// Home sections are hand-authored and left alone.
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return saveConfigTo(cfg, filepath.Join(configPath, "config.yaml"))
}

func saveConfigTo(cfg *Config, configFile string) error {
	v := newViper()
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.token", cfg.Server.Token)
	v.Set("server.user_id", cfg.Server.UserID)
	v.Set("server.username", cfg.Server.Username)

	v.Set("library.page_size", cfg.Library.PageSize)
	v.Set("library.offset_policy", cfg.Library.OffsetPolicy)

	v.Set("home.hidden_libraries", cfg.Home.HiddenLibraries)
	v.Set("home.section_limit", cfg.Home.SectionLimit)

	v.Set("episodes.offline", cfg.Episodes.Offline)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL, token and user are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != "" && c.Server.UserID != ""
}
