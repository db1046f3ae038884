package sgmlog

import (
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

// Flags holds the CLI flag names logging is registered under, so a host
// command can rename them without touching this package.
type Flags struct {
	Level  string
	Format string
}

// NewConfig builds a Config embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds CLI flag values for logging, filled in by RegisterFlags and
// consumed by NewHandler.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a Config with the package's default flag names
// ("log-level", "log-format").
func NewConfig() *Config {
	return Flags{Level: "log-level", Format: "log-format"}.NewConfig()
}

// RegisterFlags adds the logging flags to flags, defaulting to info/text.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "info", "log level: debug, info, warn, error")
	flags.StringVar(&c.Format, c.Flags.Format, "text", "log format: text, json")
}

// NewHandler builds a slog.Handler from c's configured level and format.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
