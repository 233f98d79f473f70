package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// TelemetryStatus is the outcome class of one command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to the telemetry callback once a command returns.
// Logger already carries Fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked after every command run, successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// statusOf classifies a finished run. A nil error from a command whose
// context expired still counts as a context error.
func statusOf(ctx context.Context, err error) (TelemetryStatus, error) {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return TelemetryStatusContextError, err
	case err != nil:
		return TelemetryStatusFailed, err
	case ctx.Err() != nil:
		return TelemetryStatusContextError, ctx.Err()
	}
	return TelemetryStatusSuccess, nil
}

// DefaultTelemetry logs posts.command.completed on success at debug level,
// posts.command.canceled on context errors at warn level, and
// posts.command.failed otherwise.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if entry == nil {
			entry = logging.WithFields(EnsureLogger(logger), info.Fields)
		}

		args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Debug("posts.command.completed", args...)
		case TelemetryStatusContextError:
			entry.Warn("posts.command.canceled", append(args, "error", info.Error)...)
		default:
			entry.Error("posts.command.failed", append(args, "error", info.Error)...)
		}
	}
}
