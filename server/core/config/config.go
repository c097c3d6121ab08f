package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDirName     = "vidfolio"
	configFileName = "config.json"
	envPrefix      = "VIDFOLIO"

	StoreBackendSQLite = "sqlite"
	StoreBackendFile   = "file"

	// DefaultMaxEmbeddedVideoBytes is the size from which video files are no longer embedded as data URIs (5 MiB).
	DefaultMaxEmbeddedVideoBytes int64 = 5 * 1024 * 1024
)

// Config holds the configuration shared by the dashboard, the api server and the cli
type Config struct {
	WebAddr               string                  `json:"web_addr" mapstructure:"web_addr"`
	WebPort               int                     `json:"web_port" mapstructure:"web_port"`
	APIPort               int                     `json:"api_port" mapstructure:"api_port"`
	DatabasePath          string                  `json:"database_path" mapstructure:"database_path"`
	LogPath               string                  `json:"log_path" mapstructure:"log_path"`
	LogLevel              string                  `json:"log_level" mapstructure:"log_level"`
	DataDir               string                  `json:"data_dir" mapstructure:"data_dir"`
	PublicDir             string                  `json:"public_dir" mapstructure:"public_dir"`
	StoreBackend          string                  `json:"store_backend" mapstructure:"store_backend"`
	MaxEmbeddedVideoBytes int64                   `json:"max_embedded_video_bytes" mapstructure:"max_embedded_video_bytes"`
	FeaturedCount         int                     `json:"featured_count" mapstructure:"featured_count"`
	MediaCacheBytes       int64                   `json:"media_cache_bytes" mapstructure:"media_cache_bytes"`
	Auth                  AuthSettings            `json:"auth" mapstructure:"auth"`
	TrustedProxies        *TrustedProxiesSettings `json:"trusted_proxies,omitempty" mapstructure:"trusted_proxies"`
	SMTP                  *SMTPSettings           `json:"smtp,omitempty" mapstructure:"smtp"`
	ObjectStorage         *ObjectStorageSettings  `json:"object_storage,omitempty" mapstructure:"object_storage"`
}

// AuthSettings configures the dashboard login lockout
type AuthSettings struct {
	FailureThreshold     int    `json:"failure_threshold" mapstructure:"failure_threshold"`
	FailureWindowMinutes int    `json:"failure_window_minutes" mapstructure:"failure_window_minutes"`
	NotifyRecipient      string `json:"notify_recipient" mapstructure:"notify_recipient"`
}

type TrustedProxiesSettings struct {
	API       []string `json:"api" mapstructure:"api"`
	Dashboard []string `json:"dashboard" mapstructure:"dashboard"`
}

type SMTPSettings struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	From     string `json:"from" mapstructure:"from"`
}

// ObjectStorageSettings switches /api/upload from the local public directory to a MinIO/S3 bucket
type ObjectStorageSettings struct {
	Endpoint  string `json:"endpoint" mapstructure:"endpoint"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	AccessKey string `json:"access_key" mapstructure:"access_key"`
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `json:"use_ssl" mapstructure:"use_ssl"`
}

// AppDir returns ~/vidfolio, creating it if needed. Falls back to the working directory.
func AppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "."
	}

	dir := filepath.Join(homeDir, appDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "."
	}
	return dir
}

// DefaultConfigPath returns the path used when LoadConfig or SaveConfig get an empty path
func DefaultConfigPath() string {
	return filepath.Join(AppDir(), configFileName)
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	appDir := AppDir()

	return &Config{
		WebAddr:               "127.0.0.1",
		WebPort:               8080,
		APIPort:               8081,
		DatabasePath:          filepath.Join(appDir, "vidfolio.db"),
		LogPath:               "logs",
		LogLevel:              "info",
		DataDir:               filepath.Join(appDir, "data"),
		PublicDir:             filepath.Join(appDir, "public"),
		StoreBackend:          StoreBackendSQLite,
		MaxEmbeddedVideoBytes: DefaultMaxEmbeddedVideoBytes,
		FeaturedCount:         3,
		MediaCacheBytes:       64 * 1024 * 1024,
		Auth: AuthSettings{
			FailureThreshold:     5,
			FailureWindowMinutes: 15,
		},
	}
}

// LoadConfig loads the configuration from a JSON file and applies VIDFOLIO_* environment overrides.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("web_addr", c.WebAddr)
	v.SetDefault("web_port", c.WebPort)
	v.SetDefault("api_port", c.APIPort)
	v.SetDefault("database_path", c.DatabasePath)
	v.SetDefault("log_path", c.LogPath)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("data_dir", c.DataDir)
	v.SetDefault("public_dir", c.PublicDir)
	v.SetDefault("store_backend", c.StoreBackend)
	v.SetDefault("max_embedded_video_bytes", c.MaxEmbeddedVideoBytes)
	v.SetDefault("featured_count", c.FeaturedCount)
	v.SetDefault("media_cache_bytes", c.MediaCacheBytes)
	v.SetDefault("auth.failure_threshold", c.Auth.FailureThreshold)
	v.SetDefault("auth.failure_window_minutes", c.Auth.FailureWindowMinutes)
	v.SetDefault("auth.notify_recipient", c.Auth.NotifyRecipient)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port: %d", c.WebPort)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid api port: %d", c.APIPort)
	}
	if c.StoreBackend != StoreBackendSQLite && c.StoreBackend != StoreBackendFile {
		return fmt.Errorf("invalid store backend: %q (expected %q or %q)", c.StoreBackend, StoreBackendSQLite, StoreBackendFile)
	}
	if c.MaxEmbeddedVideoBytes <= 0 {
		return fmt.Errorf("invalid max embedded video size: %d", c.MaxEmbeddedVideoBytes)
	}
	if c.FeaturedCount <= 0 {
		return fmt.Errorf("invalid featured count: %d", c.FeaturedCount)
	}
	if c.Auth.FailureThreshold < 0 || c.Auth.FailureWindowMinutes < 0 {
		return errors.New("auth failure threshold and window must not be negative")
	}
	if c.ObjectStorage != nil && (c.ObjectStorage.Endpoint == "" || c.ObjectStorage.Bucket == "") {
		return errors.New("object storage requires an endpoint and a bucket")
	}
	return nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}

	return nil
}
