package logging

import (
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
)

// ServiceName is attached to every entry as the "service" field.
const ServiceName = "rankine"

// floatDigits is the number of significant digits kept for float fields.
// Property tables and the IF97 fits are good to about five.
const floatDigits = 6

// Logger is a slog.Logger carrying the service and version fields.
//
// Thread Safety: all methods are safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing to cfg.Output, which is "stdout" (the
// default) or "stderr".
func New(cfg config.LoggingConfig, version string) *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(w, cfg, version)
}

// NewWithWriter returns a Logger writing to w; cfg.Output is ignored.
//
// Format "text" selects slog's text handler and anything else JSON. Float
// fields are rounded to six significant digits and durations are written
// as strings such as "1.5ms".
func NewWithWriter(w io.Writer, cfg config.LoggingConfig, version string) *Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: compactAttr,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("version", version),
	)}
}

// parseLevel accepts slog level names in any case, with offsets such as
// "debug-2", plus "warning". Anything else is info.
func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// compactAttr trims float noise from solver output and renders durations
// readably. Non-finite floats are written as strings so JSON stays valid.
func compactAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindFloat64:
		f := a.Value.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return slog.String(a.Key, strconv.FormatFloat(f, 'g', -1, 64))
		}
		rounded, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'g', floatDigits, 64), 64) //nolint:errcheck // Formatted float always parses
		return slog.Float64(a.Key, rounded)
	case slog.KindDuration:
		return slog.String(a.Key, a.Value.Duration().String())
	}
	return a
}

// With returns a child Logger carrying args on every entry.
//
// Example:
//
//	mqttLogger := logger.With("component", "mqtt")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the logger used before configuration is loaded: JSON at info
// level on stdout.
func Default() *Logger {
	return NewWithWriter(os.Stdout, config.LoggingConfig{}, "dev")
}
