package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yaml"

// Config holds the whole service configuration as read from YAML.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Site struct {
		Name    string `yaml:"name"`
		Lang    string `yaml:"lang"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"site"`

	Links struct {
		RepositoryURL string `yaml:"repository_url"`
		AuthorName    string `yaml:"author_name"`
		AuthorURL     string `yaml:"author_url"`
		SourceSiteURL string `yaml:"source_site_url"`
	} `yaml:"links"`

	Cache struct {
		RedisHost       string        `yaml:"redis_host"`
		RateLimitDB     int           `yaml:"redis_rate_db"`
		PDFCacheDB      int           `yaml:"redis_pdf_db"`
		PDFCacheEnabled bool          `yaml:"pdf_cache_enabled"`
		PDFCacheTTL     time.Duration `yaml:"pdf_cache_ttl"`
	} `yaml:"cache"`

	RateLimiter struct {
		Interval          time.Duration `yaml:"interval"`
		UserLimit         int           `yaml:"user_limit"`
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
	} `yaml:"rate_limiter"`

	Auth struct {
		Enabled        bool           `yaml:"enabled"`
		ReloadInterval time.Duration  `yaml:"reload_interval"`
		Postgres       PostgresConfig `yaml:"postgres"`
	} `yaml:"auth"`

	PDF struct {
		Enabled         bool      `yaml:"enabled"`
		ChromePath      string    `yaml:"chrome_path"`
		ChromeNoSandbox bool      `yaml:"chrome_no_sandbox"`
		TimeoutSecs     int       `yaml:"timeout_secs"`
		Paper           PaperSize `yaml:"paper"`
		Margin          float64   `yaml:"margin"`
		MaxPDFBytes     int       `yaml:"max_pdf_bytes"`
	} `yaml:"pdf"`
}

// PostgresConfig describes where the API token table lives.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// PaperSize is expressed in inches, as chromedp expects.
type PaperSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Load reads the config file pointed to by CONFIG_PATH, falling back to DefaultPath.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config at path. Invalid configuration is a
// programming/deployment error and panics.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: cannot read %s: %v", path, err))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("config: cannot parse %s: %v", path, err))
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// Default returns a configuration usable without any file, e.g. for export.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	cfg.PDF.Margin = 0.4
	return cfg
}

// applyDefaults fills settings where zero is never meaningful. Settings where
// zero is valid (pdf.margin) get their default in Default only.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = "Фудграм"
	}
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = "ru"
	}
	if cfg.Links.RepositoryURL == "" {
		cfg.Links.RepositoryURL = "https://github.com/MrFR0D0/foodgram"
	}
	if cfg.Links.AuthorName == "" {
		cfg.Links.AuthorName = "Николаев Дмитрий"
	}
	if cfg.Links.AuthorURL == "" {
		cfg.Links.AuthorURL = "#"
	}
	if cfg.Links.SourceSiteURL == "" {
		cfg.Links.SourceSiteURL = "https://1000.menu"
	}
	if cfg.Cache.PDFCacheTTL == 0 {
		cfg.Cache.PDFCacheTTL = 24 * time.Hour
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = time.Minute
	}
	if cfg.Auth.ReloadInterval == 0 {
		cfg.Auth.ReloadInterval = time.Minute
	}
	if cfg.PDF.TimeoutSecs == 0 {
		cfg.PDF.TimeoutSecs = 30
	}
	if cfg.PDF.Paper.Width == 0 && cfg.PDF.Paper.Height == 0 {
		cfg.PDF.Paper = PaperSize{Width: 8.27, Height: 11.69}
	}
	if cfg.PDF.MaxPDFBytes == 0 {
		cfg.PDF.MaxPDFBytes = 10 * 1024 * 1024
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.RateLimiter.Interval <= 0 {
		return fmt.Errorf("rate_limiter.interval must be positive")
	}
	if c.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter.user_limit must not be negative")
	}
	if c.Auth.Enabled {
		if c.Auth.ReloadInterval <= 0 {
			return fmt.Errorf("auth.reload_interval must be positive")
		}
		pg := c.Auth.Postgres
		if pg.Host == "" {
			return fmt.Errorf("auth.postgres.host is required when auth is enabled")
		}
		if pg.Database == "" && !isURL(pg.Host) {
			return fmt.Errorf("auth.postgres.database is required when auth is enabled")
		}
		if pg.User == "" && !isURL(pg.Host) {
			return fmt.Errorf("auth.postgres.user is required when auth is enabled")
		}
	}
	if c.PDF.TimeoutSecs < 0 {
		return fmt.Errorf("pdf.timeout_secs must not be negative")
	}
	if c.PDF.Paper.Width <= 0 || c.PDF.Paper.Height <= 0 {
		return fmt.Errorf("pdf.paper dimensions must be positive")
	}
	if c.PDF.Margin < 0 || c.PDF.Margin > 2 {
		return fmt.Errorf("pdf.margin must be between 0 and 2")
	}
	if c.PDF.MaxPDFBytes <= 0 {
		return fmt.Errorf("pdf.max_pdf_bytes must be positive")
	}
	return nil
}

func isURL(host string) bool {
	return strings.HasPrefix(host, "postgres://") || strings.HasPrefix(host, "postgresql://")
}
