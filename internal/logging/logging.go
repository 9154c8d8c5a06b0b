// Package logging wires zerolog to the console and to the size-rotated operational log.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// BaseName prefixes the active log file and every rotated one.
	BaseName = "restic_backup"
	// MaxBackups is the number of rotated files kept next to the active one.
	MaxBackups = 3

	megabyte = 1024 * 1024
)

// ErrSetup is returned when the log directory or file cannot be prepared.
var ErrSetup = errors.New("log setup failed")

// Level maps the CLI verbosity flags to a zerolog level.
func Level(quiet, verbose bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.ErrorLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// ConsoleWriter returns the writer used for terminal output.
func ConsoleWriter(out io.Writer, jsonOutput bool) io.Writer {
	if jsonOutput {
		return out
	}
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	output.FormatLevel = func(i interface{}) string {
		if s, ok := i.(string); ok {
			return strings.ToUpper(s)
		}
		return ""
	}
	return output
}

// NewFileWriter creates the log directory and returns the rotating file writer.
// lumberjack rotates on whole megabytes, so the configured size is rounded up.
func NewFileWriter(cfg models.LoggingConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrSetup, cfg.Directory, err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, BaseName+".log"),
		MaxSize:    RotationSizeMB(cfg.MaxSizeBytes),
		MaxBackups: MaxBackups,
	}, nil
}

// RotationSizeMB is the size at which the log file actually rotates.
// Rotation works in whole MiB, so smaller or fractional sizes round up, with a floor of 1.
func RotationSizeMB(bytes uint64) int {
	mb := (bytes + megabyte - 1) / megabyte
	if mb < 1 {
		return 1
	}
	return int(mb)
}

// PlainText formats events as uncoloured, timestamped text lines for the log file.
func PlainText(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// Tee sends every event to the console and, as plain text, to file.
func Tee(console, file io.Writer) io.Writer {
	return zerolog.MultiLevelWriter(console, PlainText(file))
}
