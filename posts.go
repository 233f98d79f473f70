package posts

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/internal/logging/console"
	"github.com/goliatone/go-posts/internal/logging/gologger"
	"github.com/goliatone/go-posts/internal/posts"
	"github.com/goliatone/go-posts/internal/runtimeconfig"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// PostID, PostRef, FullPost and SummaryPost export the record types produced
// by the module.
type (
	PostID      = interfaces.PostID
	PostRef     = interfaces.PostRef
	PostParams  = interfaces.PostParams
	FullPost    = interfaces.FullPost
	SummaryPost = interfaces.SummaryPost
	Metadata    = interfaces.Metadata
)

// Error classification helpers.
var (
	IsInvalidID       = posts.IsInvalidID
	IsNotFound        = posts.IsNotFound
	IsFilesystemError = posts.IsFilesystemError
	IsParseError      = posts.IsParseError
	IsRenderError     = posts.IsRenderError
)

// Module is the posts façade used by site generators. It is safe for
// concurrent use.
type Module struct {
	cfg     Config
	service *posts.Service
}

// Option customises module construction.
type Option func(*options)

type options struct {
	provider    interfaces.LoggerProvider
	fs          fs.FS
	parser      interfaces.MarkdownParser
	highlighter interfaces.Highlighter
}

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithFS reads posts from filesystem instead of Config.PostsDir. filesystem
// must be rooted at the posts directory.
func WithFS(filesystem fs.FS) Option {
	return func(o *options) {
		o.fs = filesystem
	}
}

// WithMarkdownParser replaces the goldmark renderer.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(o *options) {
		o.parser = parser
	}
}

// WithHighlighter replaces the chroma highlighter.
func WithHighlighter(highlighter interfaces.Highlighter) Option {
	return func(o *options) {
		o.highlighter = highlighter
	}
}

// New validates cfg and constructs a module bound to its posts directory.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.provider == nil {
		provider, err := NewLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		o.provider = provider
	}

	serviceOpts := []posts.Option{
		posts.WithLogger(logging.PostsLogger(o.provider)),
		posts.WithFS(o.fs),
		posts.WithParser(o.parser),
		posts.WithHighlighter(o.highlighter),
	}
	service, err := posts.NewService(serviceConfig(cfg), serviceOpts...)
	if err != nil {
		return nil, err
	}
	return &Module{cfg: cfg, service: service}, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Service exposes the module as an interfaces.PostService.
func (m *Module) Service() interfaces.PostService {
	return m.service
}

// ListPostRefs returns one static-path reference per post in directory order.
func (m *Module) ListPostRefs(ctx context.Context) ([]PostRef, error) {
	return m.service.ListPostRefs(ctx)
}

// IDs returns the plain post ids in directory order.
func (m *Module) IDs(ctx context.Context) ([]PostID, error) {
	return m.service.IDs(ctx)
}

// LoadPost reads, parses, renders and highlights a single post.
func (m *Module) LoadPost(ctx context.Context, id PostID) (*FullPost, error) {
	return m.service.LoadPost(ctx, id)
}

// ListPostSummaries returns id and metadata for every post without rendering.
func (m *Module) ListPostSummaries(ctx context.Context) ([]SummaryPost, error) {
	return m.service.ListPostSummaries(ctx)
}

// Render runs the Markdown and highlighting stages over a body without
// front-matter.
func (m *Module) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	return m.service.Render(ctx, markdown)
}

// WriteStylesheet writes the CSS for the configured highlight style.
func (m *Module) WriteStylesheet(w io.Writer) error {
	return m.service.WriteStylesheet(w)
}

// NewLoggerProvider builds the provider named by cfg.Provider. The "none"
// provider yields nil, which downstream loggers treat as no-op.
func NewLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch runtimeconfig.NormalizeProvider(cfg.Provider) {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			level = console.LevelInfo
		}
		return console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func serviceConfig(cfg Config) posts.Config {
	return posts.Config{
		BasePath:   cfg.PostsDir,
		Extension:  cfg.Listing.Extension,
		IncludeAll: cfg.Listing.IncludeAll,
		Parser: interfaces.ParseOptions{
			Extensions: append([]string(nil), cfg.Markdown.Extensions...),
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
			Unsafe:     cfg.Markdown.Unsafe,
		},
		Highlight: posts.HighlightOptions{
			Disabled:    cfg.Highlight.Disabled,
			ClassPrefix: cfg.Highlight.ClassPrefix,
			Style:       cfg.Highlight.Style,
			Detect:      cfg.Highlight.Detect,
		},
		SummaryWorkers: cfg.Summaries.Workers,
		Deduplicate:    cfg.Deduplicate,
	}
}
