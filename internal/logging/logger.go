package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Options tunes the application logger.
type Options struct {
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// NoColor disables coloured level names even on a terminal.
	NoColor bool
}

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout output such as --print or MCP JSON-RPC).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWithOptions(level, Options{NoColor: true})
}

// NewWithOptions creates a logger whose level names are coloured when the
// writer is a terminal and colour is not disabled.
func NewWithOptions(level slog.Level, opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var out *termenv.Output
	if !opts.NoColor && IsTerminal(w) {
		out = termenv.NewOutput(w)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case "error":
				a.Key = "err"
			case slog.LevelKey:
				if out != nil {
					if lvl, ok := a.Value.Any().(slog.Level); ok {
						a.Value = slog.StringValue(colorLevel(out, lvl))
					}
				}
			}
			return a
		},
	}))
}

func colorLevel(out *termenv.Output, level slog.Level) string {
	style := out.String(level.String())
	switch {
	case level >= slog.LevelError:
		return style.Foreground(out.Color("1")).Bold().String()
	case level >= slog.LevelWarn:
		return style.Foreground(out.Color("3")).Bold().String()
	case level >= slog.LevelInfo:
		return style.Foreground(out.Color("4")).String()
	default:
		return style.Faint().String()
	}
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// LevelFromFlags maps the CLI verbosity flags to a level.
// --debug wins over --verbose, which wins over --quiet. The default is warn.
func LevelFromFlags(verbose, debug, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
