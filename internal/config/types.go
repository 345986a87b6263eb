package config

import "time"

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// Config is the validated runtime configuration.
type Config struct {
	// Path is the file the config was read from, empty when built from flags only.
	Path string

	TargetHost string
	Timeout    time.Duration
	Interval   time.Duration

	ReportScale int
	UIDisable   bool

	AlertAfter       int
	AlertBell        bool
	AlertStartupBeep bool

	LogLevel  string
	LogFormat LogFormat
	LogFile   string

	HTTPListen string

	PingMethod     string
	PingPrivileged *bool
}

// CLIOverrides holds optional CLI values that override config file values.
type CLIOverrides struct {
	TargetHost  *string
	TimeoutMs   *int
	IntervalMs  *int
	ReportScale *int
	UIDisable   *bool
	HTTPListen  *string
	LogLevel    *string
	AlertAfter  *int
	PingMethod  *string
}

// fileConfig mirrors the YAML document. Pointer fields distinguish "absent"
// from zero so required values can be reported by name.
type fileConfig struct {
	PingTargetHost  *scalar `yaml:"pingTargetHost"`
	PingTimeoutMs   *scalar `yaml:"pingTimeoutMs"`
	PingFrequencyMs *scalar `yaml:"pingFrequencyMs"`

	// Settings is the block used by appsettings.json files.
	Settings *legacySettings `yaml:"Settings"`

	Report struct {
		Scale *int `yaml:"scale"`
	} `yaml:"report"`
	UI struct {
		Disable *bool `yaml:"disable"`
	} `yaml:"ui"`
	Alert struct {
		After       *int  `yaml:"after"`
		Bell        *bool `yaml:"bell"`
		StartupBeep *bool `yaml:"startup_beep"`
	} `yaml:"alert"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	HTTP struct {
		Listen string `yaml:"listen"`
	} `yaml:"http"`
	Ping struct {
		Method     string `yaml:"method"`
		Privileged *bool  `yaml:"privileged"`
	} `yaml:"ping"`
}

type legacySettings struct {
	PingTargetHost  *scalar `yaml:"PingTargetHost"`
	PingTimeoutMs   *scalar `yaml:"PingTimeoutMs"`
	PingFrequencyMs *scalar `yaml:"PingFrequencyMs"`
}
