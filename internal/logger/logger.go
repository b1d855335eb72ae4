package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	requestIDKey
)

var (
	mu      sync.RWMutex
	base    = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	logFile *os.File
)

// InitLogging writes logs to stdout and, when filePath is set, appends them
// to that file as JSON lines. A file that cannot be opened is reported and
// skipped.
func InitLogging(filePath string) {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	var out io.Writer = console
	var fileErr error
	var file *os.File
	if filePath != "" {
		file, fileErr = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if fileErr == nil {
			out = zerolog.MultiLevelWriter(console, file)
		}
	}

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	base = zerolog.New(out).With().Timestamp().Logger()
	mu.Unlock()

	if fileErr != nil {
		ErrorLog(context.Background(), "failed to open log file %s: %v", filePath, fileErr)
	}
}

// SetOutput replaces the log writer. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel sets the global minimum level ("debug", "info", ...). Unknown
// levels fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// WithSessionID tags ctx so every log line written with it carries the
// session.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithRequestID tags ctx with the HTTP request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// SessionID returns the session tagged on ctx, if any.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, zerolog.DebugLevel, format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, zerolog.InfoLevel, format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, zerolog.WarnLevel, format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	write(ctx, zerolog.ErrorLevel, format, args...)
}

func write(ctx context.Context, level zerolog.Level, format string, args ...interface{}) {
	mu.RLock()
	l := base
	mu.RUnlock()

	event := l.WithLevel(level)
	if ctx != nil {
		if id := SessionID(ctx); id != "" {
			event = event.Str("session_id", id)
		}
		if id, _ := ctx.Value(requestIDKey).(string); id != "" {
			event = event.Str("request_id", id)
		}
	}
	if len(args) == 0 {
		event.Msg(format)
		return
	}
	event.Msgf(format, args...)
}
