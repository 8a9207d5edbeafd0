package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env     string        `yaml:"env"`     // Env is the current environment: local, development, production.
	HTTP    HTTPConfig    `yaml:"http"`    // HTTP holds the API and monitoring listeners.
	Source  SourceConfig  `yaml:"source"`  // Source holds the remote user listing configuration.
	Storage StorageConfig `yaml:"storage"` // Storage selects the key/value backend for bookmarks and the session.
	GenAI   GenAIConfig   `yaml:"genai"`   // GenAI holds the biography drafting model configuration.
	Auth    AuthConfig    `yaml:"auth"`    // Auth holds the single accepted credential pair.
}

type HTTPConfig struct {
	Address        string `yaml:"address"`         // Address is the listen address of the API, e.g. `:8000`.
	MonitoringPort int    `yaml:"monitoring_port"` // MonitoringPort serves /metrics and /healthz.
}

// SourceConfig struct holds the configuration of the remote listing endpoint.
type SourceConfig struct {
	BaseURL         string        `yaml:"base_url"`         // BaseURL is the listing host, `https://dummyjson.com` by default.
	Limit           int           `yaml:"limit"`            // Limit is the page size requested.
	Skip            int           `yaml:"skip"`             // Skip is the page offset requested.
	Timeout         time.Duration `yaml:"timeout"`          // Timeout bounds one listing request.
	RefreshInterval time.Duration `yaml:"refresh_interval"` // RefreshInterval reloads the directory periodically, 0 disables.
}

type StorageConfig struct {
	Driver     string         `yaml:"driver"`      // Driver is one of memory, sqlite, postgres.
	SQLitePath string         `yaml:"sqlite_path"` // SQLitePath is the database file used by the sqlite driver.
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

type GenAIConfig struct {
	APIKey  string        `yaml:"api_key"` // APIKey enables drafting; without it the draft endpoint reports a failure.
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH and panics on any error.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		panic("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads path, applies GLIMPSE_* environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("GLIMPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("genai.api_key", "GLIMPSE_GENAI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind genai key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var errs []error
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to parse %s from configuration: %w", key, err))
		}
		return d
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Address:        v.GetString("http.address"),
			MonitoringPort: v.GetInt("http.monitoring_port"),
		},
		Source: SourceConfig{
			BaseURL:         strings.TrimRight(v.GetString("source.base_url"), "/"),
			Limit:           v.GetInt("source.limit"),
			Skip:            v.GetInt("source.skip"),
			Timeout:         duration("source.timeout"),
			RefreshInterval: duration("source.refresh_interval"),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("storage.driver")),
			SQLitePath: v.GetString("storage.sqlite_path"),
			Postgres: PostgresConfig{
				Host:     v.GetString("storage.postgres.host"),
				Port:     v.GetString("storage.postgres.port"),
				User:     v.GetString("storage.postgres.user"),
				Password: v.GetString("storage.postgres.password"),
				Dbname:   v.GetString("storage.postgres.db_name"),
			},
		},
		GenAI: GenAIConfig{
			APIKey:  v.GetString("genai.api_key"),
			Model:   v.GetString("genai.model"),
			Timeout: duration("genai.timeout"),
		},
		Auth: AuthConfig{
			Username: v.GetString("auth.username"),
			Password: v.GetString("auth.password"),
		},
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.address", ":8000")
	v.SetDefault("http.monitoring_port", 8080)
	v.SetDefault("source.base_url", "https://dummyjson.com")
	v.SetDefault("source.limit", 50)
	v.SetDefault("source.skip", 0)
	v.SetDefault("source.timeout", "10s")
	v.SetDefault("source.refresh_interval", "0s")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.sqlite_path", "glimpse.db")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", "5432")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.db_name", "glimpse")
	v.SetDefault("genai.model", "gemini-2.0-flash")
	v.SetDefault("genai.timeout", "30s")
	v.SetDefault("auth.username", "hr@example.com")
	v.SetDefault("auth.password", "password")
}

func (c *Config) validate() []error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
	}
	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("source.base_url is required"))
	}
	if c.Source.Limit <= 0 {
		errs = append(errs, fmt.Errorf("source.limit must be positive, got %d", c.Source.Limit))
	}
	if c.Source.Skip < 0 {
		errs = append(errs, fmt.Errorf("source.skip must not be negative, got %d", c.Source.Skip))
	}
	if c.Source.RefreshInterval < 0 {
		errs = append(errs, errors.New("source.refresh_interval must not be negative"))
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		errs = append(errs, errors.New("auth.username and auth.password are required"))
	}

	return errs
}
