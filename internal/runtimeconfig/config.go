package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

var (
	ErrPostsDirRequired        = errors.New("posts config: posts directory is required")
	ErrListingExtensionInvalid = errors.New("posts config: listing extension must start with a dot")
	ErrHighlightStyleUnknown   = errors.New("posts config: highlight style is unknown")
	ErrSummaryWorkersInvalid   = errors.New("posts config: summary workers must be zero or positive")
	ErrLoggingProviderUnknown  = errors.New("posts config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("posts config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("posts config: logging format is invalid")
)

// Config is the runtime configuration for the posts module.
type Config struct {
	// PostsDir is the flat directory holding the <id>.md files.
	PostsDir    string          `mapstructure:"posts_dir" yaml:"posts_dir"`
	Listing     ListingConfig   `mapstructure:"listing" yaml:"listing"`
	Markdown    MarkdownConfig  `mapstructure:"markdown" yaml:"markdown"`
	Highlight   HighlightConfig `mapstructure:"highlight" yaml:"highlight"`
	Summaries   SummaryConfig   `mapstructure:"summaries" yaml:"summaries"`
	Deduplicate bool            `mapstructure:"deduplicate" yaml:"deduplicate"`
	Logging     LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// ListingConfig controls how directory entries become post ids.
type ListingConfig struct {
	// IncludeAll lists every directory entry, passing names without the
	// extension through unchanged. By default only regular files carrying
	// Extension are listed.
	IncludeAll bool   `mapstructure:"include_all" yaml:"include_all"`
	Extension  string `mapstructure:"extension" yaml:"extension"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps" yaml:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode" yaml:"safe_mode"`
	// Unsafe passes raw HTML through without sanitizing it.
	Unsafe bool `mapstructure:"unsafe" yaml:"unsafe"`
}

// HighlightConfig controls the code block highlighting pass.
type HighlightConfig struct {
	Disabled    bool   `mapstructure:"disabled" yaml:"disabled"`
	ClassPrefix string `mapstructure:"class_prefix" yaml:"class_prefix"`
	Style       string `mapstructure:"style" yaml:"style"`
	Detect      bool   `mapstructure:"detect" yaml:"detect"`
}

// SummaryConfig controls the summary loader.
type SummaryConfig struct {
	// Workers bounds concurrent front-matter reads. Zero or one reads
	// sequentially.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfig returns the defaults used by the CLI and by hosts that only
// override the posts directory.
func DefaultConfig() Config {
	return Config{
		PostsDir: "posts",
		Listing: ListingConfig{
			Extension: ".md",
		},
		Highlight: HighlightConfig{
			ClassPrefix: "hljs-",
			Style:       "github",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.PostsDir) == "" {
		return ErrPostsDirRequired
	}
	if ext := strings.TrimSpace(cfg.Listing.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: %s", ErrListingExtensionInvalid, ext)
	}
	if style := strings.TrimSpace(cfg.Highlight.Style); style != "" {
		if _, ok := styles.Registry[style]; !ok {
			return fmt.Errorf("%w: %s", ErrHighlightStyleUnknown, style)
		}
	}
	if cfg.Summaries.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrSummaryWorkersInvalid, cfg.Summaries.Workers)
	}

	provider := NormalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizeProvider lowercases and trims a logging provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
