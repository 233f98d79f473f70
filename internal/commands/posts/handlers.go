package postscmd

import (
	"context"
	"errors"
	"io"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-posts/internal/commands"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

const (
	listRefsOperation      = "posts.list_refs"
	showOperation          = "posts.show"
	listSummariesOperation = "posts.list_summaries"
	stylesheetOperation    = "posts.stylesheet"
)

// ErrStylesheetUnavailable is returned when the configured service cannot produce CSS.
var ErrStylesheetUnavailable = errors.New("posts command: stylesheet unavailable")

// StylesheetService is implemented by services able to emit highlight CSS.
type StylesheetService interface {
	WriteStylesheet(w io.Writer) error
}

var (
	_ command.Commander[ListPostRefsCommand]  = (*ListPostRefsHandler)(nil)
	_ command.Commander[ShowPostCommand]      = (*ShowPostHandler)(nil)
	_ command.Commander[ListSummariesCommand] = (*ListSummariesHandler)(nil)
	_ command.Commander[StylesheetCommand]    = (*StylesheetHandler)(nil)
)

// ListPostRefsHandler writes the post references to an output stream.
type ListPostRefsHandler struct {
	inner *commands.Handler[ListPostRefsCommand]
}

// NewListPostRefsHandler creates a handler bound to service that writes to out.
func NewListPostRefsHandler(service interfaces.PostService, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ListPostRefsCommand]) *ListPostRefsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ListPostRefsCommand) error {
		refs, err := service.ListPostRefs(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"count": len(refs),
		}).Debug("posts.command.list_refs.completed")
		return Encode(out, msg.Format, refs)
	}

	handlerOpts := []commands.HandlerOption[ListPostRefsCommand]{
		commands.WithLogger[ListPostRefsCommand](baseLogger),
		commands.WithOperation[ListPostRefsCommand](listRefsOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListPostRefsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ListPostRefsCommand].
func (h *ListPostRefsHandler) Execute(ctx context.Context, msg ListPostRefsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ShowPostHandler writes a single rendered post to an output stream.
type ShowPostHandler struct {
	inner *commands.Handler[ShowPostCommand]
}

// NewShowPostHandler creates a handler bound to service that writes to out.
func NewShowPostHandler(service interfaces.PostService, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ShowPostCommand]) *ShowPostHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ShowPostCommand) error {
		post, err := service.LoadPost(ctx, interfaces.PostID(msg.ID))
		if err != nil {
			return err
		}
		if msg.HTMLOnly {
			_, err := io.WriteString(out, post.ContentHTML)
			return err
		}
		return Encode(out, msg.Format, post)
	}

	handlerOpts := []commands.HandlerOption[ShowPostCommand]{
		commands.WithLogger[ShowPostCommand](baseLogger),
		commands.WithOperation[ShowPostCommand](showOperation),
		commands.WithMessageFields[ShowPostCommand](func(msg ShowPostCommand) map[string]any {
			return map[string]any{"post_id": msg.ID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShowPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ShowPostCommand].
func (h *ShowPostHandler) Execute(ctx context.Context, msg ShowPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListSummariesHandler writes every post summary to an output stream.
type ListSummariesHandler struct {
	inner *commands.Handler[ListSummariesCommand]
}

// NewListSummariesHandler creates a handler bound to service that writes to out.
func NewListSummariesHandler(service interfaces.PostService, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ListSummariesCommand]) *ListSummariesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ListSummariesCommand) error {
		summaries, err := service.ListPostSummaries(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"count": len(summaries),
		}).Debug("posts.command.list_summaries.completed")
		return Encode(out, msg.Format, summaries)
	}

	handlerOpts := []commands.HandlerOption[ListSummariesCommand]{
		commands.WithLogger[ListSummariesCommand](baseLogger),
		commands.WithOperation[ListSummariesCommand](listSummariesOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListSummariesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ListSummariesCommand].
func (h *ListSummariesHandler) Execute(ctx context.Context, msg ListSummariesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// StylesheetHandler writes the highlight stylesheet to an output stream.
type StylesheetHandler struct {
	inner *commands.Handler[StylesheetCommand]
}

// NewStylesheetHandler creates a handler bound to service that writes to out.
func NewStylesheetHandler(service StylesheetService, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[StylesheetCommand]) *StylesheetHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ StylesheetCommand) error {
		if service == nil {
			return ErrStylesheetUnavailable
		}
		return service.WriteStylesheet(out)
	}

	handlerOpts := []commands.HandlerOption[StylesheetCommand]{
		commands.WithLogger[StylesheetCommand](baseLogger),
		commands.WithOperation[StylesheetCommand](stylesheetOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &StylesheetHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[StylesheetCommand].
func (h *StylesheetHandler) Execute(ctx context.Context, msg StylesheetCommand) error {
	return h.inner.Execute(ctx, msg)
}
