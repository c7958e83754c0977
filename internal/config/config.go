// Package config loads the report configuration from built-in defaults, an
// optional YAML file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"taxi-report/internal/model"
)

// Database dialects.
const (
	DialectPostgres = "postgres"
	DialectRedshift = "redshift"
	DialectSQLite   = "sqlite"
	DialectDuckDB   = "duckdb"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"report.yaml", "report.yml"}

// Config is built once at startup and passed to the pipeline.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Results  ResultsConfig  `koanf:"results"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig is the connection descriptor.
type DatabaseConfig struct {
	Dialect        string        `koanf:"dialect" validate:"oneof=postgres redshift sqlite duckdb"`
	Host           string        `koanf:"host"`
	Port           string        `koanf:"port"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	Path           string        `koanf:"path"` // database file for sqlite and duckdb; empty means in-memory
	SSLMode        string        `koanf:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
}

// ResultsConfig controls where artifacts are written.
type ResultsConfig struct {
	Dir       string `koanf:"dir" validate:"required"`
	CreateDir bool   `koanf:"create_dir"`
	Manifest  bool   `koanf:"manifest"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// Network reports whether the dialect connects over the network and therefore
// needs the full host/port/user/password/name descriptor.
func (d DatabaseConfig) Network() bool {
	return d.Dialect == DialectPostgres || d.Dialect == DialectRedshift
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dialect:        DialectRedshift,
			ConnectTimeout: 30 * time.Second,
		},
		Results: ResultsConfig{
			Dir:      "Results",
			Manifest: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// envMappings maps environment variables onto koanf paths. Variables not
// listed here are ignored.
var envMappings = map[string]string{
	"aws_user":                  "database.user",
	"aws_password":              "database.password",
	"aws_host":                  "database.host",
	"aws_port":                  "database.port",
	"aws_db":                    "database.name",
	"report_dialect":            "database.dialect",
	"report_db_path":            "database.path",
	"report_sslmode":            "database.sslmode",
	"report_connect_timeout":    "database.connect_timeout",
	"report_results_dir":        "results.dir",
	"report_create_results_dir": "results.create_dir",
	"report_manifest":           "results.manifest",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads defaults, the config file (if any) and environment variables,
// then validates the result. A missing or invalid connection descriptor is
// reported as model.ErrConnection.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks the whole configuration. Problems with the database
// descriptor wrap model.ErrConnection.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	var dbFields, other []string
	for _, fe := range verrs {
		name := strings.TrimPrefix(fe.Namespace(), "Config.")
		if strings.HasPrefix(name, "Database.") {
			dbFields = append(dbFields, describe(fe, name))
		} else {
			other = append(other, describe(fe, name))
		}
	}
	if len(dbFields) > 0 {
		return model.Fail("", "config", model.ErrConnection,
			fmt.Errorf("invalid connection descriptor: %s", strings.Join(dbFields, "; ")))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(other, "; "))
}

// validateDatabase requires the full descriptor for network dialects.
func validateDatabase(sl validator.StructLevel) {
	d := sl.Current().Interface().(DatabaseConfig)
	if !d.Network() {
		return
	}
	required := []struct {
		value, field string
	}{
		{d.Host, "Host"},
		{d.Port, "Port"},
		{d.User, "User"},
		{d.Password, "Password"},
		{d.Name, "Name"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			sl.ReportError(r.value, r.field, r.field, "required", d.Dialect)
		}
	}
}

func describe(fe validator.FieldError, name string) string {
	if fe.Tag() == "required" && fe.Param() != "" {
		return fmt.Sprintf("%s is required for dialect %s", name, fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}
