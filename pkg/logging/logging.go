// Package logging builds the cinta logger: human readable text on the
// terminal and, optionally, JSON records in a log file.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Manu343726/cinta/pkg/config"
	"github.com/Manu343726/cinta/pkg/utils"
	slogmulti "github.com/samber/slog-multi"
)

// ErrInvalidLevel is returned for unknown log level names
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel converts a level name (debug, info, warn, error) to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return slog.LevelInfo, utils.MakeError(ErrInvalidLevel, "%q", name)
	}
	return level, nil
}

// New creates a logger writing text records to terminal and JSON records to
// file. Either writer may be nil. Both handlers share level, so changing it
// affects the whole fanout.
func New(terminal io.Writer, file io.Writer, level *slog.LevelVar) *slog.Logger {
	var handlers []slog.Handler

	if terminal != nil {
		handlers = append(handlers, slog.NewTextHandler(terminal, &slog.HandlerOptions{
			Level: level,
		}))
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Open creates the logger described by cfg. The returned closer closes the
// log file, if any, and must be called once logging is done.
func Open(cfg config.LogConfig, terminal io.Writer) (*slog.Logger, io.Closer, error) {
	level := new(slog.LevelVar)
	l, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	level.Set(l)

	if cfg.File == "" {
		return New(terminal, nil, level), nopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(terminal, file, level), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
