package commands

import (
	"strings"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// CommandLogger returns a logger scoped to a command module, carrying the
// component and command_module fields on every entry.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, "posts.commands."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
