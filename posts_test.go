package posts_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	posts "github.com/goliatone/go-posts"
)

const helloPost = "---\ntitle: \"Hello\"\ntags: [intro]\n---\n\n# Hello\n\n```go\npackage main\n```\n"

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := posts.DefaultConfig()
	cfg.PostsDir = ""

	if _, err := posts.New(cfg); !errors.Is(err, posts.ErrPostsDirRequired) {
		t.Fatalf("expected ErrPostsDirRequired, got %v", err)
	}
}

func TestModuleReadsPostsDirectory(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "hello.md", helloPost)
	writePost(t, dir, "second.md", "---\ntitle: Second\n---\nBody\n")

	module := newModule(t, dir)
	ctx := context.Background()

	refs, err := module.ListPostRefs(ctx)
	if err != nil {
		t.Fatalf("ListPostRefs: %v", err)
	}
	if len(refs) != 2 || refs[0].Params.ID != "hello" || refs[1].Params.ID != "second" {
		t.Fatalf("unexpected refs %#v", refs)
	}

	post, err := module.LoadPost(ctx, "hello")
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if post.ID != "hello" || post.Metadata["title"] != "Hello" {
		t.Fatalf("unexpected post %#v", post)
	}
	if !strings.Contains(post.ContentHTML, `<span class="hljs-kn">package</span>`) {
		t.Fatalf("expected highlighted code, got %q", post.ContentHTML)
	}

	summaries, err := module.ListPostSummaries(ctx)
	if err != nil {
		t.Fatalf("ListPostSummaries: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Metadata["title"] != "Hello" {
		t.Fatalf("unexpected summaries %#v", summaries)
	}
}

func TestModuleFromLiteralConfigHighlightsAndSanitizes(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", helloPost+"\n<script>alert(1)</script>\n\n<p onclick=\"x()\">tail</p>\n")

	module, err := posts.New(posts.Config{
		PostsDir: dir,
		Logging:  posts.LoggingConfig{Provider: "none"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	post, err := module.LoadPost(context.Background(), "a")
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if !strings.Contains(post.ContentHTML, `<span class="hljs-kn">package</span>`) {
		t.Fatalf("expected highlighted code, got %q", post.ContentHTML)
	}
	if strings.Contains(post.ContentHTML, "<script") || strings.Contains(post.ContentHTML, "alert(") || strings.Contains(post.ContentHTML, "onclick") {
		t.Fatalf("expected raw HTML to be sanitized, got %q", post.ContentHTML)
	}
	if !strings.Contains(post.ContentHTML, "tail") {
		t.Fatalf("expected safe content to survive, got %q", post.ContentHTML)
	}
}

func TestDefaultConfigDropsScriptFromBody(t *testing.T) {
	module := newModule(t, "posts", posts.WithFS(fstest.MapFS{
		"x.md": {Data: []byte("---\ntitle: X\n---\n\nbefore\n\n<script>alert(1)</script>\n")},
	}))

	post, err := module.LoadPost(context.Background(), "x")
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if strings.Contains(post.ContentHTML, "<script") || strings.Contains(post.ContentHTML, "alert(") {
		t.Fatalf("expected script to be dropped, got %q", post.ContentHTML)
	}
	if !strings.Contains(post.ContentHTML, "<p>before</p>") {
		t.Fatalf("expected body to survive, got %q", post.ContentHTML)
	}
}

func TestFullPostEncodesFlat(t *testing.T) {
	module := newModule(t, "posts", posts.WithFS(fstest.MapFS{
		"hello.md": {Data: []byte(helloPost)},
	}))

	post, err := module.LoadPost(context.Background(), "hello")
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	raw, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["id"] != "hello" || decoded["title"] != "Hello" {
		t.Fatalf("unexpected flat record %#v", decoded)
	}
	if html, _ := decoded["contentHtml"].(string); !strings.Contains(html, "<h1") {
		t.Fatalf("expected contentHtml in record, got %#v", decoded["contentHtml"])
	}
}

func TestModuleErrorsAreClassified(t *testing.T) {
	module := newModule(t, filepath.Join(t.TempDir(), "missing"))
	ctx := context.Background()

	if _, err := module.ListPostRefs(ctx); !posts.IsFilesystemError(err) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
	if _, err := module.LoadPost(ctx, "nope"); !posts.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := module.LoadPost(ctx, "../nope"); !posts.IsInvalidID(err) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestModuleRenderAndStylesheet(t *testing.T) {
	module := newModule(t, "posts", posts.WithFS(fstest.MapFS{}))

	html, err := module.Render(context.Background(), []byte("*hi*"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.TrimSpace(string(html)) != "<p><em>hi</em></p>" {
		t.Fatalf("unexpected render output %q", string(html))
	}

	var css strings.Builder
	if err := module.WriteStylesheet(&css); err != nil {
		t.Fatalf("WriteStylesheet: %v", err)
	}
	if !strings.Contains(css.String(), ".hljs-") {
		t.Fatalf("expected prefixed css, got %q", css.String())
	}
}

func TestNewLoggerProvider(t *testing.T) {
	for _, name := range []string{"", "console", "gologger"} {
		provider, err := posts.NewLoggerProvider(posts.LoggingConfig{Provider: name, Level: "debug"})
		if err != nil {
			t.Fatalf("provider %q: %v", name, err)
		}
		if provider == nil || provider.GetLogger("posts.test") == nil {
			t.Fatalf("provider %q: expected usable provider", name)
		}
	}

	provider, err := posts.NewLoggerProvider(posts.LoggingConfig{Provider: "none"})
	if err != nil || provider != nil {
		t.Fatalf("expected nil provider for none, got %v (%v)", provider, err)
	}

	if _, err := posts.NewLoggerProvider(posts.LoggingConfig{Provider: "syslog"}); !errors.Is(err, posts.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func newModule(tb testing.TB, dir string, opts ...posts.Option) *posts.Module {
	tb.Helper()
	cfg := posts.DefaultConfig()
	cfg.PostsDir = dir
	cfg.Logging.Provider = "none"

	module, err := posts.New(cfg, opts...)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	return module
}

func writePost(tb testing.TB, dir, name, content string) {
	tb.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
}
