package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AuthConfig struct {
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// StorageConfig controls the local file backend.
type StorageConfig struct {
	Dir       string          `yaml:"dir"`
	Backups   BackupConfig    `yaml:"backups"`
	Integrity IntegrityConfig `yaml:"integrity"`
}

type BackupConfig struct {
	Retain           int `yaml:"retain"`
	MinIntervalHours int `yaml:"min_interval_hours"`
}

func (b BackupConfig) MinInterval() time.Duration {
	return time.Duration(b.MinIntervalHours) * time.Hour
}

type IntegrityConfig struct {
	// MaxInvalidFraction is the fraction of invalid records above which a
	// collection is treated as corrupted rather than partially loadable.
	MaxInvalidFraction float64 `yaml:"max_invalid_fraction"`
}

// RemoteConfig selects the remote relational backend. Both DSN and
// AccessKey must be set; a half-configured remote is ignored.
type RemoteConfig struct {
	DSN            string `yaml:"dsn"`        // host:port/dbname
	AccessKey      string `yaml:"access_key"` // user:password
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (r RemoteConfig) Enabled() bool {
	return r.DSN != "" && r.AccessKey != ""
}

func (r RemoteConfig) PartiallyConfigured() bool {
	return (r.DSN != "") != (r.AccessKey != "")
}

func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Split returns addr, dbname, user and password from DSN and AccessKey.
func (r RemoteConfig) Split() (addr, dbname, user, pass string, err error) {
	host, name, ok := strings.Cut(r.DSN, "/")
	if !ok || host == "" || name == "" {
		return "", "", "", "", fmt.Errorf("remote dsn %q: want host:port/dbname", r.DSN)
	}
	u, p, ok := strings.Cut(r.AccessKey, ":")
	if !ok || u == "" {
		return "", "", "", "", fmt.Errorf("remote access key: want user:password")
	}
	return host, name, u, p, nil
}

func Load(configFile string) *Config {
	c := &Config{
		Server: ServerConfig{Port: 9820},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth:   AuthConfig{Secret: "care-daily-secret", TokenTTLHours: 7 * 24},
		Storage: StorageConfig{
			Dir:       "data",
			Backups:   BackupConfig{Retain: 30, MinIntervalHours: 24},
			Integrity: IntegrityConfig{MaxInvalidFraction: 0.5},
		},
		Remote: RemoteConfig{TimeoutSeconds: 10},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/care-daily/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Storage.Dir, "DATA_DIR")
	envOverride(&c.Remote.DSN, "REMOTE_DB_DSN")
	envOverride(&c.Remote.AccessKey, "REMOTE_DB_KEY")
	envOverride(&c.Auth.Secret, "AUTH_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Remote.TimeoutSeconds, "REMOTE_DB_TIMEOUT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
