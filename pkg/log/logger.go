package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

var (
	defaultMu     sync.RWMutex
	defaultLevel  = LevelInfo
	defaultWriter = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	defaultLogger = newZerologLogger(zerolog.New(defaultWriter).With().Timestamp().Logger().
		Level(toZerologLevel(defaultLevel)))
)

// SetupLogger sets the minimum level of the package-level default logger.
// loglevel is one of "debug", "info", "warn", "error".
func SetupLogger(loglevel string) {
	SetLevel(ToLogLevel(loglevel))
}

// ToLogLevel parses one of "debug"/"info"/"warn"/"error" into a Level.
func ToLogLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
}

// GetLogger returns the package-level default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger scoped to a named component,
// e.g. GetLoggerWithName("boosting").
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLevel sets the minimum level the default logger emits.
func SetLevel(level Level) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLevel = level
	defaultLogger = newZerologLogger(zerolog.New(defaultWriter).With().Timestamp().Logger().
		Level(toZerologLevel(level)))
}

// ErrAttr pairs an error under ErrAttrKey for use with Logger field lists,
// e.g. logger.Error("training failed", log.ErrAttr(err)).
func ErrAttr(err error) []any {
	return []any{ErrAttrKey, err}
}
