// Package logging builds the zerolog logger used by the agrilingo command.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level. format is "json",
// "console" or "auto"; auto picks the console writer only when w is a terminal.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch format {
	case "console":
		w = ConsoleWriter(w)
	case "json":
	case "auto", "":
		if isTerminal(w) {
			w = ConsoleWriter(w)
		}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// ConsoleWriter returns a human readable writer, colored only on a terminal.
func ConsoleWriter(w io.Writer) io.Writer {
	noColor := !isTerminal(w)

	cw := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.DateTime}
	cw.FormatPrepare = func(m map[string]any) error {
		// pretty print access log entries, other http entries keep their message
		if _, ok := m["status"]; ok && m["sys"] == "http" {
			m["message"] = fmt.Sprintf("%v %-6v %v (%vms)", m["status"], m["method"], m["path"], m["latency_ms"])
			delete(m, "sys")
			delete(m, "method")
			delete(m, "status")
			delete(m, "path")
			delete(m, "latency_ms")
		}
		return nil
	}

	return cw
}
