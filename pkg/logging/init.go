package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Initialize installs the default slog logger writing to w.
func Initialize(w io.Writer, loggingType string, logLevelName string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(logLevelName))
	if err != nil {
		return fmt.Errorf("could not parse log level: %v", err)
	}

	handler, err := NewHandler(w, loggingType, logLevel)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	slog.Debug("logging initialized", "logLevel", logLevel, "loggingType", loggingType)
	return nil
}

// NewHandler builds a json, text or tint handler at the given level.
func NewHandler(w io.Writer, loggingType string, level slog.Leveler) (slog.Handler, error) {
	logHandlerOptions := slog.HandlerOptions{
		AddSource: level.Level() <= slog.LevelDebug,
		Level:     level,
	}

	switch loggingType {
	case JSON:
		return slog.NewJSONHandler(w, &logHandlerOptions), nil
	case Text:
		return slog.NewTextHandler(w, &logHandlerOptions), nil
	case Tint:
		return tint.NewHandler(w, &tint.Options{
			AddSource: logHandlerOptions.AddSource,
			Level:     logHandlerOptions.Level,
			NoColor:   !isTerminal(w),
		}), nil
	default:
		return nil, fmt.Errorf("unknown logging type: %s", loggingType)
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
