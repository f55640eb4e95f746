package logging

import (
	"io"
	"log/slog"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Level maps the counted --verbose and --quiet flags to a log level.
func Level(verbose, quiet int) slog.Level {
	switch d := verbose - quiet; {
	case d <= -2:
		return slog.LevelError
	case d == -1:
		return slog.LevelWarn
	case d == 0:
		return slog.LevelInfo
	case d == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// New returns a text logger on w without timestamps.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
					return slog.String(slog.LevelKey, "TRACE")
				}
			}
			return a
		},
	}))
}
