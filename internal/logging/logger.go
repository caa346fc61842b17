package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string
	File   string
}

// New builds the root logger. Console output is human readable unless
// Format is "json"; when File is set, JSON lines are also written to a
// size-rotated file.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(opts, os.Stderr)
}

// NewWithWriter is New with an explicit console writer, for tests.
func NewWithWriter(opts Options, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var console io.Writer = out
	if opts.Format != "json" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	writer := console
	if opts.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Str("service", "task-analytics-api").Logger()
}
