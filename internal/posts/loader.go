package posts

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

const defaultExtension = ".md"

// LoaderConfig configures how posts are discovered within the posts directory.
type LoaderConfig struct {
	// BasePath is the posts directory, used in error messages.
	BasePath string
	// Extension is the filename suffix stripped to derive ids (defaults to ".md").
	Extension string
	// IncludeAll lists every directory entry instead of only files ending in
	// Extension. Names without the extension pass through unchanged.
	IncludeAll bool
}

// Loader maps post ids to files inside a flat posts directory.
type Loader struct {
	fs         fs.FS
	basePath   string
	extension  string
	includeAll bool
}

// PostSource is the raw content of a single post file.
type PostSource struct {
	ID     interfaces.PostID
	Path   string
	Source []byte
}

// NewLoader constructs a Loader over filesystem, which must be rooted at the
// posts directory.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	ext := strings.TrimSpace(cfg.Extension)
	if ext == "" {
		ext = defaultExtension
	}
	base := cfg.BasePath
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	return &Loader{
		fs:         filesystem,
		basePath:   base,
		extension:  ext,
		includeAll: cfg.IncludeAll,
	}
}

// List returns the ids of the posts directory in directory listing order.
// The directory is read once and never recursed.
func (l *Loader) List(ctx context.Context) ([]interfaces.PostID, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	entries, err := fs.ReadDir(l.fs, ".")
	if err != nil {
		return nil, filesystemError("list "+l.basePath, err)
	}

	ids := make([]interfaces.PostID, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !l.includeAll && (entry.IsDir() || !strings.HasSuffix(name, l.extension)) {
			continue
		}
		ids = append(ids, interfaces.PostID(strings.TrimSuffix(name, l.extension)))
	}
	return ids, nil
}

// Read loads the raw bytes of the post identified by id.
func (l *Loader) Read(ctx context.Context, id interfaces.PostID) (*PostSource, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := ValidateID(id); err != nil {
		return nil, err
	}

	name := l.FileName(id)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, readError(path.Join(l.basePath, name), err)
	}

	return &PostSource{
		ID:     id,
		Path:   path.Join(l.basePath, name),
		Source: data,
	}, nil
}

// FileName returns the file name backing id, relative to the posts directory.
func (l *Loader) FileName(id interfaces.PostID) string {
	return string(id) + l.extension
}

// ValidateID rejects ids that could escape the flat posts directory.
func ValidateID(id interfaces.PostID) error {
	value := string(id)
	switch {
	case strings.TrimSpace(value) == "":
		return invalidIDError(value, "id is empty")
	case value == "." || value == "..":
		return invalidIDError(value, "id is a relative path")
	case strings.ContainsAny(value, `/\`):
		return invalidIDError(value, "id contains a path separator")
	case !fs.ValidPath(value):
		return invalidIDError(value, "id is not a valid file name")
	}
	return nil
}
