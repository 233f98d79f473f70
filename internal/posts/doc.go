// Package posts reads a flat directory of Markdown posts with front-matter
// and turns them into post references, fully rendered posts and metadata-only
// summaries. Rendering runs in two stages: goldmark converts Markdown to HTML,
// then the highlighter annotates fenced code blocks with chroma tokens.
package posts
