package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no config path is given.
var DefaultPaths = []string{"uptime.yaml", "uptime.yml", "appsettings.json"}

// Default returns baseline settings used before the config file is applied.
// Required fields are left unset.
func Default() Config {
	return Config{
		ReportScale: 40,
		AlertAfter:  1,
		AlertBell:   true,
		LogLevel:    "info",
		LogFormat:   LogFormatConsole,
		PingMethod:  "auto",
	}
}

// Load reads path (or the first existing DefaultPaths entry when path is
// empty), applies overrides and validates the result.
func Load(path string, overrides CLIOverrides) (*Config, error) {
	if path == "" {
		found, err := findDefault()
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, err
	}
	cfg, err := Parse(data, overrides)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes a YAML (or JSON) document, applies overrides and validates.
func Parse(data []byte, overrides CLIOverrides) (*Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	raw := rawRequired{}
	applyFile(&cfg, &raw, fc)
	applyCLIOverrides(&cfg, &raw, overrides)

	if err := raw.resolve(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// rawRequired keeps the required fields as given, so Validate can tell a
// missing value from a non-positive one. A file value that could not be
// converted is kept as an error until a flag replaces it.
type rawRequired struct {
	host       *string
	timeoutMs  *int
	intervalMs *int

	hostErr     error
	timeoutErr  error
	intervalErr error
}

func (r rawRequired) resolve(cfg *Config) error {
	switch {
	case r.hostErr != nil:
		return r.hostErr
	case r.host == nil:
		return &ValidationError{Field: "pingTargetHost", Reason: "is required"}
	case r.timeoutErr != nil:
		return r.timeoutErr
	case r.timeoutMs == nil:
		return &ValidationError{Field: "pingTimeoutMs", Reason: "is required"}
	case r.intervalErr != nil:
		return r.intervalErr
	case r.intervalMs == nil:
		return &ValidationError{Field: "pingFrequencyMs", Reason: "is required"}
	}
	cfg.TargetHost = strings.TrimSpace(*r.host)
	cfg.Timeout = time.Duration(*r.timeoutMs) * time.Millisecond
	cfg.Interval = time.Duration(*r.intervalMs) * time.Millisecond
	return nil
}

func (r *rawRequired) setHost(v *scalar) {
	if v != nil {
		r.host, r.hostErr = v.text("pingTargetHost")
	}
}

func (r *rawRequired) setTimeout(v *scalar) {
	if v != nil {
		r.timeoutMs, r.timeoutErr = v.integer("pingTimeoutMs")
	}
}

func (r *rawRequired) setInterval(v *scalar) {
	if v != nil {
		r.intervalMs, r.intervalErr = v.integer("pingFrequencyMs")
	}
}

// scalar holds a required value before conversion. Numbers may be written
// as strings, as in appsettings.json files.
type scalar struct {
	value string
	ok    bool
}

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	s.ok = node.Kind == yaml.ScalarNode
	s.value = strings.TrimSpace(node.Value)
	return nil
}

func (s *scalar) text(field string) (*string, error) {
	if !s.ok {
		return nil, &ValidationError{Field: field, Reason: "must be a string"}
	}
	v := s.value
	return &v, nil
}

func (s *scalar) integer(field string) (*int, error) {
	if !s.ok {
		return nil, &ValidationError{Field: field, Reason: "must be a positive integer"}
	}
	n, err := strconv.Atoi(s.value)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a positive integer"}
	}
	return &n, nil
}

func applyFile(cfg *Config, raw *rawRequired, fc fileConfig) {
	if s := fc.Settings; s != nil {
		raw.setHost(s.PingTargetHost)
		raw.setTimeout(s.PingTimeoutMs)
		raw.setInterval(s.PingFrequencyMs)
	}
	raw.setHost(fc.PingTargetHost)
	raw.setTimeout(fc.PingTimeoutMs)
	raw.setInterval(fc.PingFrequencyMs)

	if fc.Report.Scale != nil {
		cfg.ReportScale = *fc.Report.Scale
	}
	if fc.UI.Disable != nil {
		cfg.UIDisable = *fc.UI.Disable
	}
	if fc.Alert.After != nil {
		cfg.AlertAfter = *fc.Alert.After
	}
	if fc.Alert.Bell != nil {
		cfg.AlertBell = *fc.Alert.Bell
	}
	if fc.Alert.StartupBeep != nil {
		cfg.AlertStartupBeep = *fc.Alert.StartupBeep
	}
	if fc.Log.Level != "" {
		cfg.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.LogFormat = LogFormat(fc.Log.Format)
	}
	cfg.LogFile = fc.Log.File
	cfg.HTTPListen = normalizeListen(fc.HTTP.Listen)
	if fc.Ping.Method != "" {
		cfg.PingMethod = fc.Ping.Method
	}
	cfg.PingPrivileged = fc.Ping.Privileged
}

func applyCLIOverrides(cfg *Config, raw *rawRequired, overrides CLIOverrides) {
	if overrides.TargetHost != nil {
		raw.host, raw.hostErr = overrides.TargetHost, nil
	}
	if overrides.TimeoutMs != nil {
		raw.timeoutMs, raw.timeoutErr = overrides.TimeoutMs, nil
	}
	if overrides.IntervalMs != nil {
		raw.intervalMs, raw.intervalErr = overrides.IntervalMs, nil
	}
	if overrides.ReportScale != nil {
		cfg.ReportScale = *overrides.ReportScale
	}
	if overrides.UIDisable != nil {
		cfg.UIDisable = *overrides.UIDisable
	}
	if overrides.HTTPListen != nil {
		cfg.HTTPListen = normalizeListen(*overrides.HTTPListen)
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.AlertAfter != nil {
		cfg.AlertAfter = *overrides.AlertAfter
	}
	if overrides.PingMethod != nil {
		cfg.PingMethod = *overrides.PingMethod
	}
}

// Validate checks every field and reports the first invalid one.
func (c Config) Validate() error {
	switch {
	case c.TargetHost == "":
		return &ValidationError{Field: "pingTargetHost", Reason: "must not be empty"}
	case c.Timeout <= 0:
		return &ValidationError{Field: "pingTimeoutMs", Reason: "must be a positive integer"}
	case c.Interval <= 0:
		return &ValidationError{Field: "pingFrequencyMs", Reason: "must be a positive integer"}
	case c.ReportScale <= 0:
		return &ValidationError{Field: "report.scale", Reason: "must be a positive integer"}
	case c.AlertAfter < 1:
		return &ValidationError{Field: "alert.after", Reason: "must be at least 1"}
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return &ValidationError{Field: "log.format", Reason: fmt.Sprintf("unknown format %q", c.LogFormat)}
	}
	switch c.PingMethod {
	case "auto", "icmp", "external", "parallel":
	default:
		return &ValidationError{Field: "ping.method", Reason: fmt.Sprintf("unknown method %q", c.PingMethod)}
	}
	return nil
}

func findDefault() (string, error) {
	for _, candidate := range DefaultPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrMissingConfig, strings.Join(DefaultPaths, ", "))
}

func normalizeListen(value string) string {
	if isDigits(value) {
		return ":" + value
	}
	return value
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
