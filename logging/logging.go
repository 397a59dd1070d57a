package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup routes the global logger to the given file and returns a close
// function for shutdown. The TUI owns the terminal, so nothing may log
// to stdout or stderr once it starts.
func Setup(logPath string, debug bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = file
		w.TimeFormat = time.DateTime
		w.NoColor = true
	})
	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()

	return func() { file.Close() }, nil
}
