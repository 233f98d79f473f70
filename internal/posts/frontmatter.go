package posts

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

// ParseFrontMatter splits source into its front-matter metadata and the
// Markdown body that follows the closing delimiter. Sources without a
// front-matter block yield empty metadata and the whole input as body.
func ParseFrontMatter(source []byte) (interfaces.Metadata, []byte, error) {
	var raw map[string]any

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return normalizeMetadata(raw), body, nil
}

// normalizeMetadata converts the decoder specific map types into
// map[string]any so metadata encodes cleanly to JSON.
func normalizeMetadata(raw map[string]any) interfaces.Metadata {
	meta := make(interfaces.Metadata, len(raw))
	for key, value := range raw {
		meta[key] = normalizeValue(value)
	}
	return meta
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
