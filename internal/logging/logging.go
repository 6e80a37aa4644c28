// Package logging builds the zerolog logger shared by the server.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/HaBsawy/creiden-task/internal/config"
)

const permission = 0664

type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger from cfg. When cfg.File is set, output is appended to
// that file instead of w.
func New(cfg config.LogConfig, w io.Writer) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := &Logger{}
	if w == nil {
		w = os.Stdout
	}
	if cfg.File != "" {
		logger.file, err = os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.SyncWriter(logger.file)
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: cfg.File != ""}
	}

	logger.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, nil
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
