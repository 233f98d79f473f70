package posts

import (
	"strings"
	"testing"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, `<h1 id="heading">Heading</h1>`) {
		t.Fatalf("expected rendered HTML to include heading with id, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_FencedCodeCarriesLanguageClass(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("```go\npackage main\n```\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), `<pre><code class="language-go">`) {
		t.Fatalf("expected language class on code element, got %q", string(html))
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeOmitsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML to be omitted, got %q", string(html))
	}
}

func TestGoldmarkParser_Typographer(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{Extensions: []string{"typographer"}})

	html, err := parser.Parse([]byte("wait... what"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := string(html); !strings.Contains(got, "&hellip;") && !strings.Contains(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestCollectExtensions(t *testing.T) {
	if got := collectExtensions(nil); len(got) != 3 {
		t.Fatalf("expected default extensions, got %d", len(got))
	}
	if got := collectExtensions([]string{"table", "Tables", "unknown", " "}); len(got) != 2 {
		t.Fatalf("expected only known extension names, got %d", len(got))
	}
}
