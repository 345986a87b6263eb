package cli

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/doridoridoriand/uptime-go/internal/config"
)

// Flags is the parsed command line.
type Flags struct {
	ConfigPath  string
	TargetHost  OptionalString
	TimeoutMs   OptionalInt
	IntervalMs  OptionalInt
	ReportScale OptionalInt
	NoUI        OptionalBool
	Listen      OptionalString
	LogLevel    OptionalChoice
	AlertAfter  OptionalInt
	PingMethod  OptionalChoice
	ShowVersion bool
	ShowHelp    bool
}

// NewFlagSet binds f to a pflag set named name.
func NewFlagSet(name string, f *Flags, output io.Writer) *pflag.FlagSet {
	f.LogLevel.Choices = []string{"trace", "debug", "info", "warn", "error"}
	f.PingMethod.Choices = []string{"auto", "icmp", "external", "parallel"}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.VarP(&f.TargetHost, "target", "H", "host to ping (overrides pingTargetHost)")
	fs.VarP(&f.TimeoutMs, "timeout", "t", "ping timeout in milliseconds (overrides pingTimeoutMs)")
	fs.VarP(&f.IntervalMs, "interval", "i", "delay between pings in milliseconds (overrides pingFrequencyMs)")
	fs.Var(&f.ReportScale, "scale", "width of the longest report bar")
	fs.Var(&f.NoUI, "no-ui", "disable the terminal UI; press Enter to print a report")
	fs.Lookup("no-ui").NoOptDefVal = "true"
	fs.Var(&f.Listen, "listen", "serve /report and /metrics on this address (e.g. :9100)")
	fs.Var(&f.LogLevel, "log-level", "log level")
	fs.Var(&f.AlertAfter, "alert-after", "failed pings before the offline alert sounds")
	fs.Var(&f.PingMethod, "ping-method", "ping implementation")
	fs.BoolVarP(&f.ShowVersion, "version", "v", false, "show version")
	fs.BoolVarP(&f.ShowHelp, "help", "h", false, "show this help")
	return fs
}

// Parse parses args (without the program name). The first positional
// argument, if any, is the config file path.
func Parse(name string, args []string, output io.Writer) (*Flags, *pflag.FlagSet, error) {
	f := &Flags{}
	fs := NewFlagSet(name, f, output)
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if fs.NArg() > 0 {
		f.ConfigPath = fs.Arg(0)
	}
	return f, fs, nil
}

// Overrides converts the set flags into config overrides.
func (f *Flags) Overrides() config.CLIOverrides {
	overrides := config.CLIOverrides{}

	if v, ok := f.TargetHost.Value(); ok {
		value := v
		overrides.TargetHost = &value
	}
	if v, ok := f.TimeoutMs.Value(); ok {
		value := v
		overrides.TimeoutMs = &value
	}
	if v, ok := f.IntervalMs.Value(); ok {
		value := v
		overrides.IntervalMs = &value
	}
	if v, ok := f.ReportScale.Value(); ok {
		value := v
		overrides.ReportScale = &value
	}
	if v, ok := f.NoUI.Value(); ok {
		value := v
		overrides.UIDisable = &value
	}
	if v, ok := f.Listen.Value(); ok {
		value := v
		overrides.HTTPListen = &value
	}
	if v, ok := f.LogLevel.Value(); ok {
		value := v
		overrides.LogLevel = &value
	}
	if v, ok := f.AlertAfter.Value(); ok {
		value := v
		overrides.AlertAfter = &value
	}
	if v, ok := f.PingMethod.Value(); ok {
		value := v
		overrides.PingMethod = &value
	}

	return overrides
}
