// apps/go-server/internal/config/config.go
//
// Process configuration.
// Sources, lowest to highest precedence:
//   - built-in defaults,
//   - an optional YAML file (--config),
//   - a .env file in the working directory, if present,
//   - process environment,
//   - command-line flags bound by cmd/.
//
// Keys use kebab-case in files and flags; each has one upper-case env name.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DevSecret is the JWT secret used when none is configured outside production.
const DevSecret = "dev_secret_change_me"

// ErrInsecureSecret is returned when production runs with the dev secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production")

// Config is the resolved configuration.
type Config struct {
	Port           int           `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log-level"`
	DatabaseURL    string        `mapstructure:"database-url"`
	JWTSecret      string        `mapstructure:"jwt-secret"`
	JWTExpiresDays int           `mapstructure:"jwt-expires-days"`
	CookieName     string        `mapstructure:"cookie-name"`
	ClientOrigin   string        `mapstructure:"client-origin"`
	Env            string        `mapstructure:"node-env"`
	QuizBankFile   string        `mapstructure:"quiz-bank-file"`
	SeedSalt       string        `mapstructure:"seed-salt"`
	MatchDelay     time.Duration `mapstructure:"match-delay"`
	MismatchDelay  time.Duration `mapstructure:"mismatch-delay"`
	SessionTTL     time.Duration `mapstructure:"session-ttl"`
	RecordTimeout  time.Duration `mapstructure:"record-timeout"`
}

// Production reports whether cookies and secrets get production treatment.
func (c *Config) Production() bool { return c.Env == "production" }

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

var defaults = map[string]any{
	"port":             5175,
	"log-level":        "info",
	"database-url":     "data/softskill.db",
	"jwt-secret":       DevSecret,
	"jwt-expires-days": 14,
	"cookie-name":      "softskill_token",
	"client-origin":    "http://localhost:4200",
	"node-env":         "development",
	"quiz-bank-file":   "",
	"seed-salt":        "",
	"match-delay":      time.Second,
	"mismatch-delay":   1500 * time.Millisecond,
	"session-ttl":      2 * time.Hour,
	"record-timeout":   15 * time.Second,
}

// EnvName maps a key to its environment variable: "jwt-secret" → "JWT_SECRET".
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Bind registers defaults and env names on v. Callers may bind flags after.
func Bind(v *viper.Viper) error {
	for k, d := range defaults {
		v.SetDefault(k, d)
		if err := v.BindEnv(k, EnvName(k)); err != nil {
			return fmt.Errorf("bind %s: %w", EnvName(k), err)
		}
	}
	return nil
}

// Load reads .env and the optional file, then resolves v into a Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("jwt-expires-days must be positive")
	}
	if c.Production() && (c.JWTSecret == "" || c.JWTSecret == DevSecret) {
		return ErrInsecureSecret
	}
	if c.JWTSecret == "" {
		c.JWTSecret = DevSecret
	}
	if c.MatchDelay <= 0 || c.MismatchDelay <= 0 {
		return fmt.Errorf("card delays must be positive")
	}
	if c.RecordTimeout <= 0 {
		return fmt.Errorf("record-timeout must be positive")
	}
	return nil
}
