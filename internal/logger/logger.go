package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fyne.io/fyne/v2/data/binding"
)

// Setup installs the global zerolog logger writing to the console and,
// when file is non-empty, to an append-only log file. The returned
// closer releases the file handle.
func Setup(level, file string) io.Closer {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	writers := []io.Writer{console}

	var closer io.Closer
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err == nil {
			f, ferr := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if ferr == nil {
				writers = append(writers, f)
				closer = f
			} else {
				fmt.Fprintf(os.Stderr, "log file unavailable: %v\n", ferr)
			}
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()

	if closer == nil {
		closer = io.NopCloser(nil)
	}
	return closer
}

// AppLogger handles application logging to the UI list and the global log
type AppLogger struct {
	dataBinding binding.StringList
}

// NewAppLogger creates a new logger instance bound to a panel's log list
func NewAppLogger(data binding.StringList) *AppLogger {
	return &AppLogger{
		dataBinding: data,
	}
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	l.append("INFO", format, args...)
	log.Info().Msg(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	l.append("ERROR", format, args...)
	log.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs a debug message to the global log only (to keep the UI clean)
func (l *AppLogger) Debug(format string, args ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

// append handles the formatting and the UI list cap
func (l *AppLogger) append(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")
	formattedMsg := fmt.Sprintf("[%s] %s: %s", timestamp, level, msg)

	l.dataBinding.Append(formattedMsg)

	// Keep log size manageable (last 100 lines)
	list, _ := l.dataBinding.Get()
	if len(list) > 100 {
		l.dataBinding.Set(list[1:])
	}
}
