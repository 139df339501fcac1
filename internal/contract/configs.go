package contract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/albanecoiffe/health-data-coach/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultOutput    = schema.TextOut
	DefaultBackend   = schema.SQLiteBackend
	DefaultLogLevel  = "warn"
)

// DefaultUserID is the user owning sessions when no --user is given.
var DefaultUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("health-data-coach/default-user")).String()

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// dateOnlyFormat is accepted for the --now override.
const dateOnlyFormat = "2006-01-02"

// Config holds the runtime configuration for the coach.
// This struct remains the "final, validated" config.
type Config struct {
	UserID     string
	Now        time.Time // zero means the wall clock
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	ModelDir string

	LogLevel  slog.Level
	LogFormat schema.LogFormat
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	User           string `mapstructure:"user"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	ModelDir       string `mapstructure:"model-dir"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
	Now            string `mapstructure:"now"`
}

// Clock returns the function used as "today" by the signature builder and
// the recommendation engine.
func (c *Config) Clock() func() time.Time {
	if c.Now.IsZero() {
		return time.Now
	}
	now := c.Now
	return func() time.Time { return now }
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processUser(cfg, input); err != nil {
		return err
	}
	if err := processNow(cfg, input); err != nil {
		return err
	}
	if err := processLogging(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseUserID validates a user identifier and returns its canonical form.
func ParseUserID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultUserID, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid user id '%s': %w", s, err)
	}
	return id.String(), nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.StoreBackend))
	if backend == "" {
		backend = string(DefaultBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ModelDir = strings.TrimSpace(input.ModelDir)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}
	return nil
}

func processUser(cfg *Config, input *ConfigRawInput) error {
	id, err := ParseUserID(input.User)
	if err != nil {
		return err
	}
	cfg.UserID = id
	return nil
}

// processNow handles the optional "today" override.
func processNow(cfg *Config, input *ConfigRawInput) error {
	s := strings.TrimSpace(input.Now)
	if s == "" {
		cfg.Now = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		cfg.Now = t.UTC()
		return nil
	}
	if t, err := time.Parse(dateOnlyFormat, s); err == nil {
		cfg.Now = t.UTC()
		return nil
	}
	t, err := parseRelativeTime(s, time.Now())
	if err != nil {
		return fmt.Errorf("invalid now value '%s'. Expected RFC3339, YYYY-MM-DD or 'N weeks ago'", s)
	}
	cfg.Now = t.UTC()
	return nil
}

func processLogging(cfg *Config, input *ConfigRawInput) error {
	level := strings.TrimSpace(input.LogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = schema.LogFormat(strings.ToLower(strings.TrimSpace(input.LogFormat)))
	if cfg.LogFormat == "" {
		cfg.LogFormat = schema.TextLog
	}
	if _, ok := schema.ValidLogFormats[cfg.LogFormat]; !ok {
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}
	return nil
}
