package contract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/svnplot/schema"
)

// Default values for configuration.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultBatchSize  = 100
	DefaultDepth      = 2
	DefaultMaxAuthors = 10
	MaxBatchSize      = 10000
	LogFileName       = "svnlog2sqlite.log"
)

// DateFormat is the date representation used in reports and charts.
var DateFormat = time.DateOnly

// Config holds the runtime configuration for conversion and reporting.
// This struct remains the "final, validated" config.
type Config struct {
	RepoURL  string
	Username string
	Password string // Please use env var as this is plaintext

	DatabaseBackend schema.DatabaseBackend
	DatabaseConnect string // Please use env var as this is plaintext

	LineCount  bool
	Verbose    bool
	LogFile    string // Empty when file logging is off
	MaxRetries uint
	RetryDelay time.Duration
	BatchSize  int

	PathFilter string
	Author     *string
	Depth      int
	MaxAuthors int
	Location   *time.Location

	Output     schema.OutputMode
	OutputFile string
	OutputDir  string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoURLStr   string
	StorePathStr string
	OutputDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Verbose    bool   `mapstructure:"verbose"`
	Log        bool   `mapstructure:"log"`
	Filter     string `mapstructure:"filter"`
	Author     string `mapstructure:"author"`
	Depth      int    `mapstructure:"depth"`
	MaxAuthors int    `mapstructure:"max-authors"`
	Timezone   string `mapstructure:"timezone"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Fields from convertCmd.Flags() and backfillCmd.Flags() ---
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	LineCount  bool   `mapstructure:"linecount"`
	MaxRetries int    `mapstructure:"max-retries"`
	RetryDelay string `mapstructure:"retry-delay"`
	BatchSize  int    `mapstructure:"batch-size"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processConversionInputs(cfg, input); err != nil {
		return err
	}
	return processLogFile(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		if dsn.DBName == "" {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
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

// validateBackendConfig resolves the store backend and its connection string.
// A positional store path overrides the db-connect flag.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.DBBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.DatabaseBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DatabaseBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}

	cfg.DatabaseConnect = input.DBConnect
	if input.StorePathStr != "" {
		cfg.DatabaseConnect = input.StorePathStr
	}
	if cfg.DatabaseBackend == schema.SQLiteBackend && cfg.DatabaseConnect == "" {
		cfg.DatabaseConnect = GetStoreDBFilePath()
	}
	return ValidateDatabaseConnectionString(cfg.DatabaseBackend, cfg.DatabaseConnect)
}

// validateSimpleInputs processes and validates the reporting fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.RepoURL = strings.TrimRight(input.RepoURLStr, "/")
	cfg.OutputFile = input.OutputFile
	cfg.OutputDir = input.OutputDirStr
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.PathFilter = schema.NormalizePrefix(input.Filter)

	cfg.Author = nil
	if input.Author != "" {
		author := schema.AuthorName(input.Author)
		cfg.Author = &author
	}

	// Parse color flag
	if input.Color == "" {
		input.Color = "yes"
	}
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Depth and author limit ---
	if input.Depth < 0 {
		return fmt.Errorf("depth cannot be negative (received %d)", input.Depth)
	}
	cfg.Depth = input.Depth
	if input.MaxAuthors < 0 {
		return fmt.Errorf("max-authors cannot be negative (received %d)", input.MaxAuthors)
	}
	cfg.MaxAuthors = input.MaxAuthors

	// --- 2. Timezone ---
	cfg.Location = time.UTC
	if input.Timezone != "" {
		loc, err := time.LoadLocation(input.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
		}
		cfg.Location = loc
	}

	// --- 3. Output ---
	output := input.Output
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	return nil
}

// processConversionInputs validates the fields that only matter when talking to the log source.
func processConversionInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Username = input.Username
	cfg.Password = input.Password
	cfg.LineCount = input.LineCount

	if input.MaxRetries < 1 {
		return fmt.Errorf("max-retries must be at least 1 (received %d)", input.MaxRetries)
	}
	cfg.MaxRetries = uint(input.MaxRetries)

	cfg.RetryDelay = DefaultRetryDelay
	if input.RetryDelay != "" {
		d, err := time.ParseDuration(input.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid retry-delay '%s': %w", input.RetryDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("retry-delay cannot be negative (received %s)", input.RetryDelay)
		}
		cfg.RetryDelay = d
	}

	if input.BatchSize <= 0 || input.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch-size must be greater than 0 and cannot exceed %d (received %d)", MaxBatchSize, input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize
	return nil
}

// processLogFile places the log file next to a SQLite store, or in the home directory otherwise.
func processLogFile(cfg *Config, input *ConfigRawInput) error {
	cfg.LogFile = ""
	if !input.Log {
		return nil
	}
	dir := filepath.Dir(GetStoreDBFilePath())
	if cfg.DatabaseBackend == schema.SQLiteBackend && cfg.DatabaseConnect != ":memory:" {
		dir = filepath.Dir(cfg.DatabaseConnect)
	}
	cfg.LogFile = filepath.Join(dir, LogFileName)
	return nil
}
