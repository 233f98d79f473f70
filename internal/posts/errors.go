package posts

import (
	"errors"
	"fmt"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidID    = "POST_ID_INVALID"
	textCodeNotFound     = "POST_NOT_FOUND"
	textCodeFilesystem   = "POSTS_FILESYSTEM_ERROR"
	textCodeFrontMatter  = "POST_FRONTMATTER_INVALID"
	textCodeRenderFailed = "POST_RENDER_FAILED"
)

var (
	ErrInvalidID             = errors.New("posts: invalid post id")
	ErrPostNotFound          = errors.New("posts: post not found")
	ErrFrontMatter           = errors.New("posts: malformed front-matter")
	ErrRenderFailed          = errors.New("posts: render failed")
	ErrStylesheetUnsupported = errors.New("posts: highlighter does not provide a stylesheet")
)

func invalidIDError(id, reason string) error {
	return goerrors.Wrap(fmt.Errorf("%w %q: %s", ErrInvalidID, id, reason), goerrors.CategoryValidation, "invalid post id").
		WithTextCode(textCodeInvalidID)
}

// readError classifies a filesystem failure while reading a single post.
// Missing files become not-found errors; everything else is a filesystem error.
func readError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return goerrors.Wrap(fmt.Errorf("%w: %s: %w", ErrPostNotFound, path, err), goerrors.CategoryNotFound, "post not found").
			WithTextCode(textCodeNotFound)
	}
	return filesystemError("read "+path, err)
}

func filesystemError(op string, err error) error {
	return goerrors.Wrap(fmt.Errorf("posts filesystem %s: %w", op, err), goerrors.CategoryOperation, "posts filesystem error").
		WithTextCode(textCodeFilesystem)
}

func frontMatterError(path string, err error) error {
	return goerrors.Wrap(fmt.Errorf("%w in %s: %w", ErrFrontMatter, path, err), goerrors.CategoryBadInput, "malformed front-matter").
		WithTextCode(textCodeFrontMatter)
}

func renderError(stage, id string, err error) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s stage for %q: %w", ErrRenderFailed, stage, id, err), goerrors.CategoryInternal, "post render failed").
		WithTextCode(textCodeRenderFailed)
}

// IsInvalidID reports whether err was caused by a malformed post id.
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

// IsNotFound reports whether err signals a missing post file.
func IsNotFound(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsFilesystemError reports whether err came from listing or reading the
// posts directory for a reason other than a missing post.
func IsFilesystemError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryOperation)
}

// IsParseError reports whether err was caused by malformed front-matter.
func IsParseError(err error) bool {
	return errors.Is(err, ErrFrontMatter)
}

// IsRenderError reports whether err came from either rendering stage.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}
