package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Brands     BrandsConfig     `mapstructure:"brands"`
	Trends     TrendsConfig     `mapstructure:"trends"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns a postgres:// connection URL. Credentials are escaped, so
// empty passwords and passwords with spaces survive parsing.
func (c DatabaseConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// RedisConfig holds Redis connection details. Redis only stores run summaries.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BrowserConfig holds headless browser settings
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	Proxies           []string      `mapstructure:"proxies"`
	ProxyTestTimeout  time.Duration `mapstructure:"proxy_test_timeout"`
}

// HarvestConfig is shared by both pipelines
type HarvestConfig struct {
	URL        string        `mapstructure:"url"`
	MaxScrolls int           `mapstructure:"max_scrolls"`
	Pause      time.Duration `mapstructure:"pause"`
}

// BrandsConfig holds the brand directory URL and selectors
type BrandsConfig struct {
	HarvestConfig    `mapstructure:",squash"`
	TitleSelector    string `mapstructure:"title_selector"`
	CategorySelector string `mapstructure:"category_selector"`
	ImageSelector    string `mapstructure:"image_selector"`
	ChipSelector     string `mapstructure:"chip_selector"`
	ChipLabel        string `mapstructure:"chip_label_selector"`
}

// TrendsConfig holds the headline feed URL and selector
type TrendsConfig struct {
	HarvestConfig    `mapstructure:",squash"`
	HeadlineSelector string `mapstructure:"headline_selector"`
}

// NormalizerConfig tunes fuzzy category matching
type NormalizerConfig struct {
	MinScore float64 `mapstructure:"min_score"`
}

// ServerConfig holds the read API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads .env, an optional YAML file and environment variable overrides.
// An empty path searches for config.yaml in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config.yaml found, using defaults and environment")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the pipelines cannot run with.
func (c *Config) Validate() error {
	if c.Brands.MaxScrolls < 0 || c.Trends.MaxScrolls < 0 {
		return fmt.Errorf("max_scrolls must not be negative")
	}
	if c.Brands.Pause < 0 || c.Trends.Pause < 0 {
		return fmt.Errorf("pause must not be negative")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database host and name are required (DB_HOST, DB_DATABASE)")
	}
	return nil
}

// bindEnv maps the DB_* variables the deployment provides onto config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"database.user":     "DB_USER",
		"database.host":     "DB_HOST",
		"database.name":     "DB_DATABASE",
		"database.password": "DB_PASSWORD",
		"database.port":     "DB_PORT",
		"server.addr":       "SERVER_ADDR",
		"log.level":         "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fashion")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key_prefix", "harvester:run:")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", time.Minute)
	v.SetDefault("browser.proxies", []string{})
	v.SetDefault("browser.proxy_test_timeout", 5*time.Second)

	v.SetDefault("brands.url", "https://fashionunited.com/brands")
	v.SetDefault("brands.max_scrolls", 100000)
	v.SetDefault("brands.pause", 2*time.Second)
	v.SetDefault("brands.title_selector", "h2.MuiTypography-root.MuiTypography-h5.css-mz2blv")
	v.SetDefault("brands.category_selector", "div.MuiTypography-root.MuiTypography-body2.e9tjgce0.css-19hla7v")
	v.SetDefault("brands.image_selector", "progressive-img")
	v.SetDefault("brands.chip_selector", "div.MuiButtonBase-root.MuiChip-root.MuiChip-clickable")
	v.SetDefault("brands.chip_label_selector", "span.MuiChip-label")

	v.SetDefault("trends.url", "https://fashionunited.com/just-in")
	v.SetDefault("trends.max_scrolls", 250)
	v.SetDefault("trends.pause", 2*time.Second)
	v.SetDefault("trends.headline_selector", "h2.MuiTypography-root.MuiTypography-h5.e1g8p6mc5.css-1h7uhg5")

	v.SetDefault("normalizer.min_score", 0)

	v.SetDefault("server.addr", ":3000")

	v.SetDefault("log.level", "info")
}
