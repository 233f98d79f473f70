package postscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-posts/internal/posts"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

const (
	listRefsMessageType      = "posts.list_refs"
	showPostMessageType      = "posts.show"
	listSummariesMessageType = "posts.list_summaries"
	stylesheetMessageType    = "posts.stylesheet"
)

// Output formats accepted by the read commands. An empty format means JSON.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var formatRule = validation.By(func(value any) error {
	switch strings.ToLower(strings.TrimSpace(value.(string))) {
	case "", FormatJSON, FormatYAML:
		return nil
	default:
		return validation.NewError("posts.format_invalid", "format must be json or yaml")
	}
})

// ListPostRefsCommand lists one static-path reference per post.
type ListPostRefsCommand struct {
	Format string `json:"format,omitempty"`
}

// Type implements command.Message.
func (ListPostRefsCommand) Type() string { return listRefsMessageType }

// Validate ensures the requested output format is supported.
func (cmd ListPostRefsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Format, formatRule),
	)
}

// ShowPostCommand loads and renders a single post.
type ShowPostCommand struct {
	// ID is the post filename without its extension.
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	// HTMLOnly writes the rendered body instead of the encoded record.
	HTMLOnly bool `json:"html_only,omitempty"`
}

// Type implements command.Message.
func (ShowPostCommand) Type() string { return showPostMessageType }

// Validate ensures the id is present and cannot escape the posts directory.
func (cmd ShowPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, validation.Required, validation.By(func(value any) error {
			if err := posts.ValidateID(interfaces.PostID(value.(string))); err != nil {
				return validation.NewError("posts.show.id_invalid", "id must be a plain file name without extension")
			}
			return nil
		})),
		validation.Field(&cmd.Format, formatRule),
	)
}

// ListSummariesCommand lists the id and metadata of every post.
type ListSummariesCommand struct {
	Format string `json:"format,omitempty"`
}

// Type implements command.Message.
func (ListSummariesCommand) Type() string { return listSummariesMessageType }

// Validate ensures the requested output format is supported.
func (cmd ListSummariesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Format, formatRule),
	)
}

// StylesheetCommand writes the CSS matching the highlighted markup.
type StylesheetCommand struct{}

// Type implements command.Message.
func (StylesheetCommand) Type() string { return stylesheetMessageType }
