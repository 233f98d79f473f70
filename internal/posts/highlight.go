package posts

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	defaultClassPrefix = "hljs-"
	highlightedClass   = "hljs"
)

var languageClassPrefixes = []string{"language-", "lang-"}

// HighlightOptions configures the code block highlighting pass.
type HighlightOptions struct {
	Disabled bool
	// ClassPrefix is prepended to every token class (defaults to "hljs-").
	ClassPrefix string
	// Style names the chroma style used by WriteCSS.
	Style string
	// Detect guesses the language of unlabelled code blocks.
	Detect bool
}

// ChromaHighlighter implements interfaces.Highlighter. It parses an HTML
// fragment, tokenises the text of every <pre><code> block with chroma and
// replaces it with class-annotated <span> elements. The <code> element gains
// the "hljs" class and the prefixed chroma wrapper class the stylesheet
// selectors are scoped to.
type ChromaHighlighter struct {
	opts HighlightOptions
}

// NewHighlighter builds a highlighter from opts.
func NewHighlighter(opts HighlightOptions) *ChromaHighlighter {
	if strings.TrimSpace(opts.ClassPrefix) == "" {
		opts.ClassPrefix = defaultClassPrefix
	}
	return &ChromaHighlighter{opts: opts}
}

// Highlight annotates code blocks in fragment. Blocks without a resolvable
// language are left untouched, as is a fragment with no code at all.
func (h *ChromaHighlighter) Highlight(fragment []byte) ([]byte, error) {
	if h.opts.Disabled || !bytes.Contains(fragment, []byte("<code")) {
		return fragment, nil
	}

	nodes, err := parseFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("highlight parse fragment: %w", err)
	}

	changed := false
	for _, node := range nodes {
		walk(node, func(n *html.Node) {
			if h.highlightBlock(n) {
				changed = true
			}
		})
	}
	if !changed {
		return fragment, nil
	}

	out, err := renderFragment(nodes)
	if err != nil {
		return nil, fmt.Errorf("highlight render fragment: %w", err)
	}
	return out, nil
}

// WriteCSS writes the stylesheet for the configured style, using the same
// class prefix as the highlighted markup.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.ClassPrefix(h.opts.ClassPrefix),
	)
	style := styles.Get(h.opts.Style)
	if err := formatter.WriteCSS(w, style); err != nil {
		return fmt.Errorf("highlight write css: %w", err)
	}
	return nil
}

func (h *ChromaHighlighter) highlightBlock(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Code {
		return false
	}
	if n.Parent == nil || n.Parent.DataAtom != atom.Pre {
		return false
	}

	classes := strings.Fields(attr(n, "class"))
	for _, class := range classes {
		if class == highlightedClass || class == "no-highlight" || class == "nohighlight" {
			return false
		}
	}

	code := textContent(n)
	lexer := h.resolveLexer(languageOf(classes), code)
	if lexer == nil {
		return false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}

	for child := n.FirstChild; child != nil; child = n.FirstChild {
		n.RemoveChild(child)
	}
	for _, token := range iterator.Tokens() {
		n.AppendChild(h.tokenNode(token))
	}
	wrapper := h.opts.ClassPrefix + chroma.StandardTypes[chroma.PreWrapper]
	setAttr(n, "class", strings.Join(append(classes, highlightedClass, wrapper), " "))
	return true
}

func (h *ChromaHighlighter) resolveLexer(language, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
		return nil
	}
	if h.opts.Detect {
		return lexers.Analyse(code)
	}
	return nil
}

func (h *ChromaHighlighter) tokenNode(token chroma.Token) *html.Node {
	text := &html.Node{Type: html.TextNode, Data: token.Value}
	class := tokenClass(token.Type)
	if class == "" {
		return text
	}
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: h.opts.ClassPrefix + class}},
	}
	span.AppendChild(text)
	return span
}

// tokenClass resolves the short class name of a token type, falling back to
// its parent categories the way chroma's own HTML formatter does.
func tokenClass(t chroma.TokenType) string {
	for t != 0 {
		if class, ok := chroma.StandardTypes[t]; ok {
			return class
		}
		t = t.Parent()
	}
	return chroma.StandardTypes[t]
}

func languageOf(classes []string) string {
	for _, class := range classes {
		for _, prefix := range languageClassPrefixes {
			if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}
