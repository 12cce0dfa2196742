package contract

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/plugcheck/plugcheck/schema"
)

// Default values for configuration.
const (
	DefaultCommandTimeout = 2 * time.Minute
	MaxCommandTimeout     = 15 * time.Minute
	DefaultPrecision      = 1
)

// DefaultWorkers is the default number of concurrent check workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for one engine invocation.
// This struct is the "final, validated" config: immutable after
// ProcessAndValidate and never shared across concurrent runs mutably
// (MCP handlers clone it before overriding fields).
type Config struct {
	PluginPath string
	Checks     []schema.CheckName
	Functional bool
	Fix        bool
	Output     schema.OutputMode
	OutputFile string
	Workers    int
	Precision  int
	Timeout    time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PluginPathStr string

	Checks           string `mapstructure:"checks"`
	Functional       bool   `mapstructure:"functional"`
	Fix              bool   `mapstructure:"fix"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Timeout          string `mapstructure:"timeout"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Color            string `mapstructure:"color"`
}

// ProcessAndValidate converts the raw input into the final Config.
// Validation failures surface as RequestError since they describe a
// malformed request, not an engine fault.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// 1. Target path
	if input.PluginPathStr == "" {
		return NewRequestError("missing required plugin path")
	}
	absPath, err := filepath.Abs(input.PluginPathStr)
	if err != nil {
		return NewRequestError("invalid plugin path %q: %v", input.PluginPathStr, err)
	}
	cfg.PluginPath = absPath

	// 2. Requested checks
	checks, err := ParseCheckList(input.Checks)
	if err != nil {
		return err
	}
	cfg.Checks = checks

	// 3. Output mode
	output := schema.OutputMode(strings.ToLower(strings.TrimSpace(input.Output)))
	if output == "" {
		output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return NewRequestError("invalid output mode %q: must be text, json or markdown", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	// 4. Workers
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	// 5. Precision
	cfg.Precision = input.Precision
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}

	// 6. Command timeout
	timeout, err := parseTimeout(input.Timeout)
	if err != nil {
		return err
	}
	cfg.Timeout = timeout

	// 7. History backend
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return NewRequestError("invalid history backend %q: must be sqlite, mysql, postgresql or none", input.HistoryBackend)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(backend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// 8. Colors
	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return NewRequestError("invalid color value %q", input.Color)
	}
	cfg.UseColors = useColors

	cfg.Functional = input.Functional
	cfg.Fix = input.Fix

	return nil
}

// ParseCheckList parses a comma-separated check list. An empty string or
// "all" selects every registered check. Unknown names are rejected, not
// silently ignored, to avoid masking typos.
func ParseCheckList(raw string) ([]schema.CheckName, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		checks := make([]schema.CheckName, len(schema.AllChecks))
		copy(checks, schema.AllChecks)
		return checks, nil
	}

	seen := make(map[schema.CheckName]struct{})
	var checks []schema.CheckName
	for _, part := range strings.Split(raw, ",") {
		name := schema.CheckName(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if _, ok := schema.ValidChecks[name]; !ok {
			return nil, NewRequestError("unknown check name %q", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		checks = append(checks, name)
	}
	if len(checks) == 0 {
		return nil, NewRequestError("no checks requested")
	}
	return checks, nil
}

// parseTimeout parses the per-command timeout, clamping to the allowed range.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCommandTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, NewRequestError("invalid timeout %q: %v", raw, err)
	}
	if d <= 0 {
		return 0, NewRequestError("timeout must be positive, got %s", d)
	}
	if d > MaxCommandTimeout {
		return 0, NewRequestError("timeout %s exceeds maximum %s", d, MaxCommandTimeout)
	}
	return d, nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return NewRequestError("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return NewRequestError("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return NewRequestError("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return NewRequestError("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return NewRequestError("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return NewRequestError("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// Clone returns a copy of the config safe for per-request overrides.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Checks = make([]schema.CheckName, len(c.Checks))
	copy(clone.Checks, c.Checks)
	return &clone
}
