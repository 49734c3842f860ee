package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Storage       StorageConfig       `yaml:"storage"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Queue         QueueConfig         `yaml:"queue"`
	Versioning    VersioningConfig    `yaml:"versioning"`
	CORS          CORSConfig          `yaml:"cors"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	BaseURL  string `yaml:"base_url"`
}

// DatabaseConfig MySQL settings. URL takes precedence over the discrete fields.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	LogLevel        string `yaml:"log_level"`
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig token settings (lifetimes in seconds)
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// ElasticsearchConfig search engine settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// StorageConfig S3-compatible object storage
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
	ThumbnailWidth  int    `yaml:"thumbnail_width"`
}

// SMTPConfig outgoing mail
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// QueueConfig background job settings
type QueueConfig struct {
	Concurrency  int `yaml:"concurrency"`
	Attempts     int `yaml:"attempts"`
	BackoffMs    int `yaml:"backoff_ms"`
	SweepSeconds int `yaml:"sweep_seconds"`
}

// Backoff returns the base retry delay
func (q QueueConfig) Backoff() time.Duration {
	return time.Duration(q.BackoffMs) * time.Millisecond
}

// VersioningConfig content version retention
type VersioningConfig struct {
	AutosaveKeep int `yaml:"autosave_keep"`
	KeepCount    int `yaml:"keep_count"` // 주기적 정리 시 콘텐츠당 유지할 버전 수
}

// CORSConfig allowed origins (comma separated)
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// Load reads the YAML file (optional) then applies env overrides and defaults
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		pkglogger.Warn("config file %s not found, using env and defaults", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("jwt.secret is required")
		}
		c.JWT.Secret = "dev-only-secret"
	}
	if c.JWT.ExpiresIn <= 0 || c.JWT.RefreshIn <= c.JWT.ExpiresIn {
		return fmt.Errorf("invalid jwt lifetimes: access=%d refresh=%d", c.JWT.ExpiresIn, c.JWT.RefreshIn)
	}
	if c.Queue.Attempts < 1 {
		return fmt.Errorf("queue.attempts must be >= 1, got %d", c.Queue.Attempts)
	}
	return nil
}

// IsDevelopment reports whether the server runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development", "test":
		return true
	}
	return false
}

// GetDSN returns the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return strings.TrimPrefix(d.URL, "mysql://")
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.LogLevel, "LOG_LEVEL")
	setString(&cfg.Server.BaseURL, "BASE_URL")

	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")
	setInt(&cfg.JWT.RefreshIn, "JWT_REFRESH_IN")

	if v := os.Getenv("ELASTICSEARCH_URL"); v != "" {
		cfg.Elasticsearch.Addresses = splitAndTrim(v)
		cfg.Elasticsearch.Enabled = true
	}
	setString(&cfg.Elasticsearch.Username, "ELASTICSEARCH_USERNAME")
	setString(&cfg.Elasticsearch.Password, "ELASTICSEARCH_PASSWORD")

	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
		cfg.Storage.Enabled = true
	}
	setString(&cfg.Storage.CDNURL, "S3_CDN_URL")

	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setInt(&cfg.SMTP.Port, "SMTP_PORT")
	setString(&cfg.SMTP.Username, "SMTP_USERNAME")
	setString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "SMTP_FROM")

	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.JWT.ExpiresIn == 0 {
		cfg.JWT.ExpiresIn = 900
	}
	if cfg.JWT.RefreshIn == 0 {
		cfg.JWT.RefreshIn = 7 * 24 * 3600
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "portal_content"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "auto"
	}
	if cfg.Storage.MaxUploadMB == 0 {
		cfg.Storage.MaxUploadMB = 20
	}
	if cfg.Storage.ThumbnailWidth == 0 {
		cfg.Storage.ThumbnailWidth = 400
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Queue.Concurrency == 0 {
		cfg.Queue.Concurrency = 10
	}
	if cfg.Queue.Attempts == 0 {
		cfg.Queue.Attempts = 3
	}
	if cfg.Queue.BackoffMs == 0 {
		cfg.Queue.BackoffMs = 2000
	}
	if cfg.Queue.SweepSeconds == 0 {
		cfg.Queue.SweepSeconds = 60
	}
	if cfg.Versioning.AutosaveKeep == 0 {
		cfg.Versioning.AutosaveKeep = 20
	}
	if cfg.Versioning.KeepCount == 0 {
		cfg.Versioning.KeepCount = 50
	}
	if cfg.CORS.AllowOrigins == "" {
		cfg.CORS.AllowOrigins = "http://localhost:3000"
	}
}

// LogResolved prints the effective (non-secret) settings
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("redis", cfg.Redis.Addr()).
		Bool("elasticsearch", cfg.Elasticsearch.Enabled).
		Bool("storage", cfg.Storage.Enabled).
		Int("queue_attempts", cfg.Queue.Attempts).
		Msg("config resolved")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
