package posts

import (
	"context"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// Config controls how the posts service discovers, parses and renders posts.
type Config struct {
	// BasePath is the posts directory. Ignored for reads when a filesystem is
	// injected with WithFS.
	BasePath   string
	Extension  string
	IncludeAll bool
	Parser     interfaces.ParseOptions
	Highlight  HighlightOptions
	// SummaryWorkers bounds concurrent summary reads; values below two read
	// sequentially.
	SummaryWorkers int
	// Deduplicate shares one in-flight load between concurrent callers
	// asking for the same id.
	Deduplicate bool
}

// Option customises a Service.
type Option func(*Service)

// WithFS replaces the directory filesystem. filesystem must be rooted at the
// posts directory.
func WithFS(filesystem fs.FS) Option {
	return func(s *Service) {
		if filesystem != nil {
			s.fs = filesystem
		}
	}
}

// WithParser replaces the goldmark parser used for the first render stage.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithHighlighter replaces the chroma highlighter used for the second stage.
func WithHighlighter(highlighter interfaces.Highlighter) Option {
	return func(s *Service) {
		if highlighter != nil {
			s.highlighter = highlighter
		}
	}
}

// WithLogger injects the service logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements interfaces.PostService for a filesystem-backed posts
// directory. Every call reads the directory afresh; nothing is cached.
type Service struct {
	cfg         Config
	fs          fs.FS
	parser      interfaces.MarkdownParser
	highlighter interfaces.Highlighter
	logger      interfaces.Logger
	loader      *Loader
	flights     *flightGroup
}

var _ interfaces.PostService = (*Service)(nil)

// NewService constructs a posts service. The posts directory does not need to
// exist yet; listing or reading it reports a filesystem error instead.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fs == nil {
		s.fs = prepareFilesystem(cfg.BasePath)
	}
	if s.parser == nil {
		s.parser = NewGoldmarkParser(cfg.Parser)
	}
	if s.highlighter == nil {
		s.highlighter = NewHighlighter(cfg.Highlight)
	}
	if cfg.Deduplicate {
		s.flights = &flightGroup{}
	}

	s.loader = NewLoader(s.fs, LoaderConfig{
		BasePath:   cfg.BasePath,
		Extension:  cfg.Extension,
		IncludeAll: cfg.IncludeAll,
	})
	return s, nil
}

// IDs lists the post ids in directory order.
func (s *Service) IDs(ctx context.Context) ([]interfaces.PostID, error) {
	return s.loader.List(ctx)
}

// ListPostRefs returns one reference per post, in directory order.
func (s *Service) ListPostRefs(ctx context.Context) ([]interfaces.PostRef, error) {
	ids, err := s.loader.List(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]interfaces.PostRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, interfaces.PostRef{Params: interfaces.PostParams{ID: id}})
	}

	s.logger.Debug("posts.list.completed", "count", len(refs))
	return refs, nil
}

// LoadPost reads, parses and renders the post identified by id.
func (s *Service) LoadPost(ctx context.Context, id interfaces.PostID) (*interfaces.FullPost, error) {
	if s.flights != nil {
		return s.flights.load(ctx, id, s.loadPost)
	}
	return s.loadPost(ctx, id)
}

func (s *Service) loadPost(ctx context.Context, id interfaces.PostID) (*interfaces.FullPost, error) {
	logger := logging.WithPostContext(s.logger, string(id), "load")

	src, err := s.loader.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	meta, body, err := ParseFrontMatter(src.Source)
	if err != nil {
		return nil, frontMatterError(src.Path, err)
	}

	html, err := s.render(ctx, string(id), body)
	if err != nil {
		return nil, err
	}

	post := &interfaces.FullPost{
		ID:          id,
		ContentHTML: string(html),
		Metadata:    meta,
	}
	if shadowed := post.ShadowedKeys(); len(shadowed) > 0 {
		logger.Warn("posts.metadata.shadowed", "keys", strings.Join(shadowed, ","))
	}

	logger.Debug("posts.load.completed", "bytes", len(src.Source), "html_bytes", len(html))
	return post, nil
}

// ListPostSummaries returns the id and metadata of every post in directory
// order. The first failing post aborts the whole call.
func (s *Service) ListPostSummaries(ctx context.Context) ([]interfaces.SummaryPost, error) {
	ids, err := s.loader.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]interfaces.SummaryPost, len(ids))
	if s.cfg.SummaryWorkers > 1 {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(s.cfg.SummaryWorkers)
		for i, id := range ids {
			group.Go(func() error {
				summary, err := s.loadSummary(groupCtx, id)
				if err != nil {
					return err
				}
				summaries[i] = *summary
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, id := range ids {
			summary, err := s.loadSummary(ctx, id)
			if err != nil {
				return nil, err
			}
			summaries[i] = *summary
		}
	}

	s.logger.Debug("posts.summaries.completed", "count", len(summaries))
	return summaries, nil
}

func (s *Service) loadSummary(ctx context.Context, id interfaces.PostID) (*interfaces.SummaryPost, error) {
	src, err := s.loader.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, _, err := ParseFrontMatter(src.Source)
	if err != nil {
		return nil, frontMatterError(src.Path, err)
	}

	summary := &interfaces.SummaryPost{ID: id, Metadata: meta}
	if shadowed := summary.ShadowedKeys(); len(shadowed) > 0 {
		logging.WithPostContext(s.logger, string(id), "summary").
			Warn("posts.metadata.shadowed", "keys", strings.Join(shadowed, ","))
	}
	return summary, nil
}

// Render runs both render stages over a Markdown body without front-matter.
func (s *Service) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	return s.render(ctx, "", markdown)
}

// WriteStylesheet writes the highlight CSS when the highlighter supports it.
func (s *Service) WriteStylesheet(w io.Writer) error {
	css, ok := s.highlighter.(interface{ WriteCSS(io.Writer) error })
	if !ok {
		return ErrStylesheetUnsupported
	}
	return css.WriteCSS(w)
}

func (s *Service) render(ctx context.Context, id string, markdown []byte) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	html, err := s.parser.Parse(markdown)
	if err != nil {
		return nil, renderError("markdown", id, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	highlighted, err := s.highlighter.Highlight(html)
	if err != nil {
		return nil, renderError("highlight", id, err)
	}
	return highlighted, nil
}

func prepareFilesystem(basePath string) fs.FS {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	return os.DirFS(basePath)
}
