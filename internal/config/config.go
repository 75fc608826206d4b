package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/portalhomehub/portal-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// LoadDotEnv loads local env files before the YAML config is read and
// returns the names of the files that were found. godotenv never overwrites
// a variable that is already set, so real deployment env always wins over
// .env.local, which wins over .env.
func LoadDotEnv() []string {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		if godotenv.Load(name) == nil {
			loaded = append(loaded, name)
		}
	}
	return loaded
}

// Config is the resolved service configuration: YAML file first, then
// environment variable overrides.
type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	JWT struct {
		Secret      string `yaml:"secret"`
		ExpiryHours int    `yaml:"expiry_hours"`
	} `yaml:"jwt"`

	Drafts struct {
		TTLDays             int      `yaml:"ttl_days"`
		DedupWindowMinutes  int      `yaml:"dedup_window_minutes"`
		DedupMaxCandidates  int      `yaml:"dedup_max_candidates"`
		GenericTitleMarkers []string `yaml:"generic_title_markers"`
	} `yaml:"drafts"`
}

// Load reads the YAML config file and applies env overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overrideInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	overrideInt("SERVER_PORT", &cfg.Server.Port)
	overrideString("DB_HOST", &cfg.Database.Host)
	overrideInt("DB_PORT", &cfg.Database.Port)
	overrideString("DB_USER", &cfg.Database.User)
	overrideString("DB_PASSWORD", &cfg.Database.Password)
	overrideString("DB_NAME", &cfg.Database.Name)
	overrideString("REDIS_HOST", &cfg.Redis.Host)
	overrideInt("REDIS_PORT", &cfg.Redis.Port)
	overrideString("REDIS_PASSWORD", &cfg.Redis.Password)
	overrideString("JWT_SECRET", &cfg.JWT.Secret)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 3306
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.JWT.ExpiryHours == 0 {
		cfg.JWT.ExpiryHours = 24
	}
	if cfg.Drafts.TTLDays == 0 {
		cfg.Drafts.TTLDays = 30
	}
	if cfg.Drafts.DedupWindowMinutes == 0 {
		cfg.Drafts.DedupWindowMinutes = 10
	}
	if cfg.Drafts.DedupMaxCandidates == 0 {
		cfg.Drafts.DedupMaxCandidates = 5
	}
	if len(cfg.Drafts.GenericTitleMarkers) == 0 {
		cfg.Drafts.GenericTitleMarkers = []string{"Untitled", "Property -"}
	}
}

// LogResolved logs the effective configuration with secrets masked.
func LogResolved(cfg *Config) {
	logger.Info("config: server.port=%d", cfg.Server.Port)
	logger.Info("config: database=%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	logger.Info("config: redis=%s:%d db=%d", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	logger.Info("config: drafts ttl=%dd dedup window=%dm candidates=%d",
		cfg.Drafts.TTLDays, cfg.Drafts.DedupWindowMinutes, cfg.Drafts.DedupMaxCandidates)
}
