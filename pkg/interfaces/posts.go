package interfaces

import (
	"context"
	"encoding/json"
	"sort"
)

// Reserved field names in the flattened post views. Computed values stored
// under these keys always take precedence over front-matter metadata.
const (
	FieldID          = "id"
	FieldContentHTML = "contentHtml"
)

// PostID identifies a post. It is derived from the post filename with the
// Markdown extension stripped.
type PostID string

func (id PostID) String() string { return string(id) }

// Metadata is the open mapping decoded from a post's front-matter block.
// Values are scalars, time.Time, []any or nested map[string]any.
type Metadata map[string]any

// Clone returns a deep copy of the metadata so callers can mutate the result
// without affecting other holders of the original map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case Metadata:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}

// PostParams carries the route parameters for a single generated page.
type PostParams struct {
	ID PostID `json:"id" yaml:"id"`
}

// PostRef is the static-path descriptor produced by the lister. Each ref maps
// to one generated page keyed by its id.
type PostRef struct {
	Params PostParams `json:"params" yaml:"params"`
}

// FullPost is a post with its rendered and highlighted HTML body.
type FullPost struct {
	ID          PostID
	ContentHTML string
	Metadata    Metadata
}

// Fields returns the flattened view of the post: every metadata key plus the
// reserved id and contentHtml fields. Reserved fields win on collision.
func (p *FullPost) Fields() map[string]any {
	out := make(map[string]any, len(p.Metadata)+2)
	for key, value := range p.Metadata {
		out[key] = cloneValue(value)
	}
	out[FieldID] = string(p.ID)
	out[FieldContentHTML] = p.ContentHTML
	return out
}

// Field reads a single key from the flattened view.
func (p *FullPost) Field(key string) (any, bool) {
	switch key {
	case FieldID:
		return string(p.ID), true
	case FieldContentHTML:
		return p.ContentHTML, true
	}
	value, ok := p.Metadata[key]
	return value, ok
}

// ShadowedKeys lists metadata keys hidden by reserved fields.
func (p *FullPost) ShadowedKeys() []string {
	return shadowed(p.Metadata, FieldID, FieldContentHTML)
}

// Clone returns a deep copy of the post.
func (p *FullPost) Clone() *FullPost {
	if p == nil {
		return nil
	}
	return &FullPost{
		ID:          p.ID,
		ContentHTML: p.ContentHTML,
		Metadata:    p.Metadata.Clone(),
	}
}

// MarshalJSON encodes the flattened view.
func (p FullPost) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields())
}

// MarshalYAML encodes the flattened view.
func (p FullPost) MarshalYAML() (any, error) {
	return p.Fields(), nil
}

// SummaryPost is a post's id and metadata without any rendered HTML.
type SummaryPost struct {
	ID       PostID
	Metadata Metadata
}

// Fields returns the flattened view of the summary. Only id is reserved.
func (s *SummaryPost) Fields() map[string]any {
	out := make(map[string]any, len(s.Metadata)+1)
	for key, value := range s.Metadata {
		out[key] = cloneValue(value)
	}
	out[FieldID] = string(s.ID)
	return out
}

// Field reads a single key from the flattened view.
func (s *SummaryPost) Field(key string) (any, bool) {
	if key == FieldID {
		return string(s.ID), true
	}
	value, ok := s.Metadata[key]
	return value, ok
}

// ShadowedKeys lists metadata keys hidden by the reserved id field.
func (s *SummaryPost) ShadowedKeys() []string {
	return shadowed(s.Metadata, FieldID)
}

// MarshalJSON encodes the flattened view.
func (s SummaryPost) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

// MarshalYAML encodes the flattened view.
func (s SummaryPost) MarshalYAML() (any, error) {
	return s.Fields(), nil
}

func shadowed(meta Metadata, reserved ...string) []string {
	var keys []string
	for _, key := range reserved {
		if _, ok := meta[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags. Raw HTML in the
// source is sanitized unless Unsafe is set; SafeMode omits it entirely.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
	Unsafe     bool
}

// Highlighter annotates code blocks inside an HTML fragment.
type Highlighter interface {
	Highlight(fragment []byte) ([]byte, error)
}

// PostService exposes the three read workflows over a posts directory.
type PostService interface {
	ListPostRefs(ctx context.Context) ([]PostRef, error)
	LoadPost(ctx context.Context, id PostID) (*FullPost, error)
	ListPostSummaries(ctx context.Context) ([]SummaryPost, error)
}
