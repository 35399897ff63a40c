// Package config loads runtime settings from a YAML file, an optional .env
// file and REMINDRAI_* environment variables, in increasing precedence.
// Secrets missing from all three are looked up in the OS keyring.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/constants"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/keyring"
	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
)

const EnvPrefix = "REMINDRAI_"

type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database string       `yaml:"database"`
	Engine   EngineConfig `yaml:"engine"`
	AI       AIConfig     `yaml:"ai"`
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`

	// dbFromEnv marks Database as coming from REMINDRAI_DB_CONNECTION.
	dbFromEnv bool
}

type EngineConfig struct {
	BatchSize      int    `yaml:"batch_size" validate:"min=1"`
	UserDailyCap   int    `yaml:"user_daily_cap" validate:"min=0"`
	GlobalDailyCap int    `yaml:"global_daily_cap" validate:"min=0"`
	SweepSchedule  string `yaml:"sweep_schedule" validate:"required"`
}

type AIConfig struct {
	Provider  string        `yaml:"provider" validate:"oneof=anthropic openai"`
	Model     string        `yaml:"model,omitempty"`
	BaseURL   string        `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxTokens int           `yaml:"max_tokens" validate:"min=1"`
	// APIKey is never written to the config file.
	APIKey string `yaml:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	// TriggerSecret is never written to the config file.
	TriggerSecret string `yaml:"-"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: constants.DefaultDBPath,
		Engine: EngineConfig{
			BatchSize:      constants.DefaultBatchSize,
			UserDailyCap:   constants.DefaultUserDailyCap,
			GlobalDailyCap: constants.DefaultGlobalDailyCap,
			SweepSchedule:  constants.DefaultSweepSchedule,
		},
		AI: AIConfig{
			Provider:  "anthropic",
			Timeout:   constants.DefaultAITimeout,
			MaxTokens: constants.DefaultAIMaxTokens,
		},
		Server: ServerConfig{Addr: constants.DefaultServerAddr},
	}
}

// DefaultPath is the config file location under the default config directory.
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, "config.yaml")
}

// Load reads path (a missing file is not an error), then envFile if given
// (a missing file is not an error), then the environment. Values already set
// in the environment win over the .env file.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(ExpandHome(envFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(ExpandHome(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("No config file, using defaults", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Database = ExpandHome(cfg.Database)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}
	boolean := func(name string, dst *bool) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
		return nil
	}

	str("DATABASE", &c.Database)
	if v, ok := lookup(EnvPrefix + "DB_CONNECTION"); ok && v != "" {
		c.Database = v
		c.dbFromEnv = true
	}
	str("SWEEP_SCHEDULE", &c.Engine.SweepSchedule)
	str("AI_PROVIDER", &c.AI.Provider)
	str("AI_MODEL", &c.AI.Model)
	str("AI_BASE_URL", &c.AI.BaseURL)
	str("AI_API_KEY", &c.AI.APIKey)
	str("SERVER_ADDR", &c.Server.Addr)
	str("TRIGGER_SECRET", &c.Server.TriggerSecret)

	for name, dst := range map[string]*int{
		"BATCH_SIZE":       &c.Engine.BatchSize,
		"USER_DAILY_CAP":   &c.Engine.UserDailyCap,
		"GLOBAL_DAILY_CAP": &c.Engine.GlobalDailyCap,
		"AI_MAX_TOKENS":    &c.AI.MaxTokens,
	} {
		if err := integer(name, dst); err != nil {
			return err
		}
	}
	for name, dst := range map[string]*bool{
		"DEBUG":    &c.Log.Debug,
		"LOG_JSON": &c.Log.JSON,
	} {
		if err := boolean(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "AI_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sAI_TIMEOUT: %w", EnvPrefix, err)
		}
		c.AI.Timeout = d
	}

	// Provider SDK conventions as a last resort.
	if c.AI.APIKey == "" {
		var name string
		switch c.AI.Provider {
		case "anthropic":
			name = "ANTHROPIC_API_KEY"
		case "openai":
			name = "OPENAI_API_KEY"
		}
		if v, ok := lookup(name); ok && name != "" {
			c.AI.APIKey = v
		}
	}
	return nil
}

// ResolveAPIKey returns the configured AI API key, falling back to the OS
// keyring. An empty result with a nil error means no key is configured.
func (c Config) ResolveAPIKey() (string, error) {
	if c.AI.APIKey != "" {
		return c.AI.APIKey, nil
	}
	key, err := keyring.Get(keyring.APIKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return key, err
}

// ResolveDatabase returns the database location. When the configured value
// is the default SQLite path and the OS keyring holds a connection string,
// that wins. fromSecret reports whether the location came from the
// environment or the keyring, the two places allowed to carry a password.
func (c Config) ResolveDatabase() (location string, fromSecret bool) {
	if c.dbFromEnv {
		return c.Database, true
	}
	if c.Database != ExpandHome(constants.DefaultDBPath) {
		return c.Database, false
	}
	connStr, err := keyring.Get(keyring.ConnectionString)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring unavailable, using SQLite", "error", err)
		}
		return c.Database, false
	}
	return connStr, true
}

// IsPostgres reports whether db is a PostgreSQL connection string.
func IsPostgres(db string) bool {
	return strings.HasPrefix(db, "postgres://") || strings.HasPrefix(db, "postgresql://")
}

// Save writes c to path as YAML. Secrets are never written.
func (c Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
