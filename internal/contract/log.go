package contract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnvVar overrides the configured log level when set.
const LogLevelEnvVar = "LOGLEVEL"

// ParseLogLevel accepts debug, info, warn/warning or error (case-insensitive); empty means warn.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// NewLogger returns a text logger writing to w. LOGLEVEL in the environment wins over level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if env := os.Getenv(LogLevelEnvVar); env != "" {
		if parsed, err := ParseLogLevel(env); err == nil {
			level = parsed
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(slog.LevelKey, levelTag(lvl))
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DiscardLogger drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DBUG"
	}
}
