// Package logging configures the context-attached zerolog logger.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 2
	maxLogAgeDays = 30
)

// Config controls logger construction. Leave Writer nil for rotated
// file logging at Path; tests pass an in-memory Writer instead.
type Config struct {
	Writer  io.Writer
	Path    string
	Level   zerolog.Level
	Console bool
}

// New attaches a configured logger to ctx. With Console set, log lines
// are mirrored human-readably to stderr in addition to the file.
func New(ctx context.Context, cfg Config) context.Context {
	var writer io.Writer

	switch {
	case cfg.Writer != nil:
		writer = cfg.Writer
	case cfg.Path != "":
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	default:
		writer = io.Discard
	}

	if cfg.Console {
		writer = zerolog.MultiLevelWriter(writer, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(cfg.Level)
	return logger.WithContext(ctx)
}

// Get returns the logger attached to ctx, or a disabled logger when
// none was attached.
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
