package log

import (
	"context"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger over a zerolog.Logger. Fields are passed as
// alternating key/value pairs, the same convention log/slog uses.
type zerologLogger struct {
	z zerolog.Logger
}

func newZerologLogger(z zerolog.Logger) *zerologLogger {
	return &zerologLogger{z: z}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.log(zerolog.DebugLevel, msg, fields...) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.log(zerolog.InfoLevel, msg, fields...) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.log(zerolog.WarnLevel, msg, fields...) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.log(zerolog.ErrorLevel, msg, fields...) }

func (l *zerologLogger) log(level zerolog.Level, msg string, fields ...any) {
	event := l.z.WithLevel(level)
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		value := fields[i+1]
		if err, ok := value.(error); ok {
			event = event.Str(key, err.Error())
			if trace := extractStacktrace(err); trace != "" {
				event = event.Str(StacktraceAttrKey, trace)
			}
			continue
		}
		event = event.Interface(key, value)
	}
	event.Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{z: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.z.GetLevel() <= toZerologLevel(level)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
