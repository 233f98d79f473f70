package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	posts "github.com/goliatone/go-posts"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// EnvPrefix prefixes every environment override, e.g. POSTS_HIGHLIGHT_STYLE.
const EnvPrefix = "POSTS"

// flagBindings maps CLI flag names onto configuration keys.
var flagBindings = map[string]string{
	"posts-dir":    "posts_dir",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"log-provider": "logging.provider",
}

// Options captures configuration for posts CLI bootstraps.
type Options struct {
	// ConfigFile is an explicit config path. When empty, ./posts.yaml is
	// used if present.
	ConfigFile string
	// Flags supplies command line overrides for the keys in flagBindings.
	Flags          *pflag.FlagSet
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the posts module with the logger plumbing the CLI needs.
type Module struct {
	Module   *posts.Module
	Provider interfaces.LoggerProvider
	Logger   interfaces.Logger
	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// LoadConfig merges defaults, the config file, POSTS_* environment
// variables and flags, in increasing order of precedence.
func LoadConfig(opts Options) (posts.Config, string, error) {
	v := viper.New()
	setDefaults(v, posts.DefaultConfig())

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("posts")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if opts.Flags != nil {
		for name, key := range flagBindings {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return posts.Config{}, "", fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return posts.Config{}, "", fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg posts.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return posts.Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return posts.Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// BuildModule loads configuration and constructs the posts module together
// with a CLI logger sharing the module's provider.
func BuildModule(opts Options) (*Module, error) {
	cfg, used, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider, err = posts.NewLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("initialise logging: %w", err)
		}
	}

	moduleOpts := []posts.Option{}
	if provider != nil {
		moduleOpts = append(moduleOpts, posts.WithLoggerProvider(provider))
	}
	module, err := posts.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise posts module: %w", err)
	}

	logger := logging.CLILogger(provider)
	if used != "" {
		logger.Debug("posts.cli.config_loaded", "file", used)
	}

	return &Module{
		Module:     module,
		Provider:   provider,
		Logger:     logger,
		ConfigFile: used,
	}, nil
}

func setDefaults(v *viper.Viper, cfg posts.Config) {
	v.SetDefault("posts_dir", cfg.PostsDir)
	v.SetDefault("listing.include_all", cfg.Listing.IncludeAll)
	v.SetDefault("listing.extension", cfg.Listing.Extension)
	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)
	v.SetDefault("markdown.unsafe", cfg.Markdown.Unsafe)
	v.SetDefault("highlight.disabled", cfg.Highlight.Disabled)
	v.SetDefault("highlight.class_prefix", cfg.Highlight.ClassPrefix)
	v.SetDefault("highlight.style", cfg.Highlight.Style)
	v.SetDefault("highlight.detect", cfg.Highlight.Detect)
	v.SetDefault("summaries.workers", cfg.Summaries.Workers)
	v.SetDefault("deduplicate", cfg.Deduplicate)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
