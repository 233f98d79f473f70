package posts

import (
	"bytes"
	"strings"
	"testing"
)

func TestHighlighter_AnnotatesKnownLanguage(t *testing.T) {
	h := NewHighlighter(HighlightOptions{})

	input := []byte("<h1>Title</h1>\n<pre><code class=\"language-go\">package main\n</code></pre>\n")
	out, err := h.Highlight(input)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	got := string(out)
	if !strings.Contains(got, `<span class="hljs-kn">package</span>`) {
		t.Fatalf("expected keyword span, got %q", got)
	}
	if !strings.Contains(got, `<code class="language-go hljs hljs-chroma">`) {
		t.Fatalf("expected highlighted code classes, got %q", got)
	}
	if !strings.Contains(got, "<h1>Title</h1>") {
		t.Fatalf("expected surrounding markup preserved, got %q", got)
	}
}

func TestHighlighter_KeepsEscaping(t *testing.T) {
	h := NewHighlighter(HighlightOptions{})

	out, err := h.Highlight([]byte(`<pre><code class="language-go">x := a &lt; b
</code></pre>`))
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if strings.Contains(string(out), "a < b") || !strings.Contains(string(out), "&lt;") {
		t.Fatalf("expected code text to stay escaped, got %q", string(out))
	}
}

func TestHighlighter_CustomPrefix(t *testing.T) {
	h := NewHighlighter(HighlightOptions{ClassPrefix: "tok-"})

	out, err := h.Highlight([]byte(`<pre><code class="lang-go">package main</code></pre>`))
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(string(out), `class="tok-kn"`) {
		t.Fatalf("expected custom prefix, got %q", string(out))
	}
}

func TestHighlighter_LeavesUnlabelledAndUnknownBlocks(t *testing.T) {
	h := NewHighlighter(HighlightOptions{})

	inputs := []string{
		"<pre><code>plain text\n</code></pre>\n",
		"<pre><code class=\"language-definitely-not-real\">x</code></pre>\n",
		"<pre><code class=\"language-go no-highlight\">package main</code></pre>\n",
		"<p>inline <code>code</code> only</p>\n",
		"<p>no code at all</p>\n",
	}
	for _, input := range inputs {
		out, err := h.Highlight([]byte(input))
		if err != nil {
			t.Fatalf("Highlight(%q): %v", input, err)
		}
		if !bytes.Equal(out, []byte(input)) {
			t.Fatalf("expected %q unchanged, got %q", input, string(out))
		}
	}
}

func TestHighlighter_Disabled(t *testing.T) {
	h := NewHighlighter(HighlightOptions{Disabled: true})
	input := []byte(`<pre><code class="language-go">package main</code></pre>`)

	out, err := h.Highlight(input)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("expected disabled highlighter to pass through, got %q", string(out))
	}
}

func TestHighlighter_WriteCSS(t *testing.T) {
	h := NewHighlighter(HighlightOptions{Style: "github"})

	var buf bytes.Buffer
	if err := h.WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS: %v", err)
	}
	if !strings.Contains(buf.String(), ".hljs-") {
		t.Fatalf("expected prefixed selectors, got %q", buf.String())
	}
}

func TestLanguageOf(t *testing.T) {
	cases := map[string][]string{
		"go":     {"language-go"},
		"python": {"foo", "lang-python"},
		"":       {"language-", "other"},
	}
	for want, classes := range cases {
		if got := languageOf(classes); got != want {
			t.Fatalf("languageOf(%v) = %q, want %q", classes, got, want)
		}
	}
}
