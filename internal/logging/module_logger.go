package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

const (
	rootModule     = "posts"
	serviceModule  = "posts.service"
	commandsModule = "posts.commands"
	cliModule      = "posts.cli"
)

const (
	fieldPostID     = "post_id"
	fieldPostAction = "action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostsLogger returns the logger namespace reserved for the posts service.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serviceModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// CLILogger returns the logger namespace reserved for the posts CLI.
func CLILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cliModule)
}

// WithPostContext enriches the provided logger with the post id and the
// action being performed. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, id, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldPostID] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldPostAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
