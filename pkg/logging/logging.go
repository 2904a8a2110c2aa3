// Package logging configures the global zerolog logger used for diagnostics.
// User-facing progress goes to stdout through the report package; logs go to
// stderr so they never interleave with machine-readable plan output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ColorMode controls ANSI colour in console logs.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options configures Setup.
type Options struct {
	// Out receives console output. Defaults to os.Stderr.
	Out io.Writer
	// Color selects console colouring. Defaults to ColorAuto.
	Color ColorMode
	// LogFile, when set, additionally receives JSON log lines.
	LogFile string
}

// Setup configures the global logger for the given verbosity:
// 0 warn, 1 info, 2 debug, 3+ trace. It returns a closer for the
// optional log file sink.
func Setup(verbosity int, opts Options) (io.Closer, error) {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    !colorEnabled(opts.Color, out),
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if opts.LogFile != "" {
		f, err := openLogFile(opts.LogFile)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
		closer = f
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 3 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	log.Debug().Int("verbosity", verbosity).Str("logFile", opts.LogFile).Msg("logger initialized")

	return closer, nil
}

// LevelFor maps a -v count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Get returns the global logger tagged with a component name.
func Get(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Nop returns a disabled logger, handy as a default in libraries and tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// LogDuration logs how long an operation took at debug level.
func LogDuration(logger zerolog.Logger, start time.Time, operation string) {
	logger.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("operation completed")
}

func colorEnabled(mode ColorMode, out io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
