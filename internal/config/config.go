package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the application configuration, loaded from defaults, an
// optional paracosm.toml and PARACOSM_-prefixed environment variables,
// in that order of precedence.
type Config struct {
	Server struct {
		Port string `koanf:"port"`
	} `koanf:"server"`

	Database Database `koanf:"database"`

	Auth struct {
		JWTSecret     string `koanf:"jwt_secret"`
		TokenTTLHours int    `koanf:"token_ttl_hours"`
	} `koanf:"auth"`

	Twilio struct {
		AccountSID string `koanf:"account_sid"`
		AuthToken  string `koanf:"auth_token"`
		FromNumber string `koanf:"from_number"`
	} `koanf:"twilio"`

	Log struct {
		Pretty bool `koanf:"pretty"`
	} `koanf:"log"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN builds the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load reads the configuration. configPath may be empty, in which case
// ./paracosm.toml is tried if present.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":          "8080",
		"database.host":        envOr("DB_HOST", "localhost"),
		"database.port":        envOr("DB_PORT", "5432"),
		"database.user":        envOr("DB_USER", "paracosm"),
		"database.password":    os.Getenv("DB_PASSWORD"),
		"database.name":        envOr("DB_NAME", "paracosm"),
		"database.sslmode":     envOr("DB_SSLMODE", "disable"),
		"auth.jwt_secret":      os.Getenv("JWT_SECRET"),
		"auth.token_ttl_hours": 72,
		"log.pretty":           false,
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else if _, err := os.Stat("./paracosm.toml"); err == nil {
		if err := k.Load(file.Provider("./paracosm.toml"), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	k.Load(env.Provider("PARACOSM_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PARACOSM_")), "_", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func Validate(cfg *Config) error {
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
