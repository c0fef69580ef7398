// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// StatbankConfig describes where the statistics table lives and how its
// variables are named.
type StatbankConfig struct {
	BaseURL           string `yaml:"base_url"`
	Table             string `yaml:"table"`
	Lang              string `yaml:"lang"`
	ValuePresentation string `yaml:"value_presentation"`
	ScalingVariable   string `yaml:"scaling_variable"`
	RegionVariable    string `yaml:"region_variable"`
	TimeVariable      string `yaml:"time_variable"`
	TimeoutStr        string `yaml:"timeout"`
	Timeout           time.Duration `yaml:"-"` // Parsed duration
}

type DashboardConfig struct {
	Title          string   `yaml:"title"`
	DefaultRegions []string `yaml:"default_regions"`
	DefaultStart   string   `yaml:"default_start"` // YYYY-MM-DD
	DefaultScaling string   `yaml:"default_scaling"`
	DefaultMode    string   `yaml:"default_mode"`
	HistoryLimit   int      `yaml:"history_limit"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Statbank  StatbankConfig  `yaml:"statbank"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8050"},
		Statbank: StatbankConfig{
			BaseURL:           "https://api.statbank.dk/v1",
			Table:             "SMIT4",
			Lang:              "en",
			ValuePresentation: "Code",
			ScalingVariable:   "AKTP",
			RegionVariable:    "KOMK",
			TimeVariable:      "Tid",
			TimeoutStr:        "30s",
			Timeout:           30 * time.Second,
		},
		Dashboard: DashboardConfig{
			Title:          "Yet another Covid Dashboard (Denmark)",
			DefaultRegions: []string{"000"},
			DefaultStart:   "2021-03-01",
			DefaultScaling: "50",
			DefaultMode:    "total",
			HistoryLimit:   50,
		},
		Database: DatabaseConfig{
			Host:   "127.0.0.1",
			Port:   "3306",
			DBName: "covidash",
		},
	}
}

// LoadConfig reads configuration from a .env file, the YAML file at
// configPath and COVIDASH_* environment variables, in that order of
// increasing precedence. An empty configPath or a missing file leaves the
// defaults in place.
func LoadConfig(configPath string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env file: %w", err)
	}

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("WARN Config: %s not found, using defaults\n", configPath)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	// Parse durations
	if cfg.Statbank.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Statbank.TimeoutStr)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse statbank timeout: %w", err)
		}
		cfg.Statbank.Timeout = d
	} else {
		cfg.Statbank.Timeout = 30 * time.Second // Default
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("COVIDASH_PORT", &cfg.Server.Port)
	setString("COVIDASH_STATBANK_URL", &cfg.Statbank.BaseURL)
	setString("COVIDASH_STATBANK_TIMEOUT", &cfg.Statbank.TimeoutStr)
	setString("COVIDASH_DB_HOST", &cfg.Database.Host)
	setString("COVIDASH_DB_PORT", &cfg.Database.Port)
	setString("COVIDASH_DB_USER", &cfg.Database.User)
	setString("COVIDASH_DB_PASSWORD", &cfg.Database.Password)
	setString("COVIDASH_DB_NAME", &cfg.Database.DBName)
	if v, ok := os.LookupEnv("COVIDASH_DB_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.Enabled = b
		} else {
			log.Printf("WARN Config: ignoring COVIDASH_DB_ENABLED=%q: %v\n", v, err)
		}
	}
}

func (c Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is not configured")
	}
	if c.Statbank.BaseURL == "" {
		return fmt.Errorf("statbank base_url is not configured")
	}
	if c.Statbank.Table == "" {
		return fmt.Errorf("statbank table is not configured")
	}
	if c.Statbank.ScalingVariable == "" || c.Statbank.RegionVariable == "" || c.Statbank.TimeVariable == "" {
		return fmt.Errorf("statbank variable codes must all be set")
	}
	if c.Statbank.Timeout <= 0 {
		return fmt.Errorf("statbank timeout must be positive, got %s", c.Statbank.Timeout)
	}
	if c.Dashboard.DefaultStart != "" {
		if _, err := time.Parse("2006-01-02", c.Dashboard.DefaultStart); err != nil {
			return fmt.Errorf("dashboard default_start must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}
