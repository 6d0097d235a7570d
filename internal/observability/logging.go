package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetGlobalLogger replaces the logger used by the helpers below.
func SetGlobalLogger(l *slog.Logger) {
	if l != nil {
		GlobalLogger = &Logger{Logger: l}
	}
}

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableInteractionLogging bool
	EnableWSLogging          bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableInteractionLogging: true,
	EnableWSLogging:          true,
}

// InteractionLogger logs engagement mutations for one service.
type InteractionLogger struct {
	service string
}

// NewInteractionLogger creates an InteractionLogger tagged with service.
func NewInteractionLogger(service string) *InteractionLogger {
	return &InteractionLogger{service: service}
}

// LogMutation logs the outcome of one mutation. Expected failures such as a missing
// prompt log at info, everything else at error.
func (l *InteractionLogger) LogMutation(ctx context.Context, action string, promptID, userID uint, took time.Duration, err error, fields ...any) {
	if !Config.EnableInteractionLogging {
		return
	}
	attrs := []any{
		slog.String("service", l.service),
		slog.String("action", action),
		slog.Uint64("prompt_id", uint64(promptID)),
		slog.Uint64("actor_id", uint64(userID)),
		slog.Duration("took", took),
	}
	attrs = append(attrs, fields...)

	switch {
	case err == nil:
		GlobalLogger.InfoContext(ctx, "interaction applied", attrs...)
	case isExpected(err):
		GlobalLogger.InfoContext(ctx, "interaction rejected", append(attrs, slog.String("error", err.Error()))...)
	default:
		GlobalLogger.ErrorContext(ctx, "interaction failed", append(attrs, slog.String("error", err.Error()))...)
	}
}

// expectedError is implemented by errors that carry a client-facing code.
type expectedError interface {
	Expected() bool
}

func isExpected(err error) bool {
	var e expectedError
	return errors.As(err, &e) && e.Expected()
}

// WSLogger provides structured logging for WebSocket operations.
type WSLogger struct {
	hubName string
}

// NewWSLogger creates a new WSLogger for the given hub.
func NewWSLogger(hubName string) *WSLogger {
	return &WSLogger{hubName: hubName}
}

// LogConnect logs a WebSocket connection event.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint) {
	if !Config.EnableWSLogging {
		return
	}
	GlobalLogger.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogDisconnect logs a WebSocket disconnection event.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	if !Config.EnableWSLogging {
		return
	}
	GlobalLogger.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason),
	)
}

// LogError logs a WebSocket error event.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	if !Config.EnableWSLogging {
		return
	}
	GlobalLogger.ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// LogAsyncOperationError logs an error in work that runs after the request returned.
func LogAsyncOperationError(ctx context.Context, operation string, err error, fields ...any) {
	attrs := []any{
		slog.String("operation", operation),
		slog.String("type", "async_error"),
		slog.String("error", err.Error()),
	}
	GlobalLogger.ErrorContext(ctx, "async operation failed", append(attrs, fields...)...)
}
