package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--posts-dir", "testdata/posts", "--log-provider", "none"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIDsCommand(t *testing.T) {
	out, err := runCLI(t, "ids")
	if err != nil {
		t.Fatalf("ids: %v", err)
	}

	var refs []map[string]map[string]string
	if err := json.Unmarshal([]byte(out), &refs); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(refs) != 2 || refs[0]["params"]["id"] != "hello" || refs[1]["params"]["id"] != "second" {
		t.Fatalf("unexpected refs %#v", refs)
	}
}

func TestShowCommand(t *testing.T) {
	out, err := runCLI(t, "show", "hello")
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	var post map[string]any
	if err := json.Unmarshal([]byte(out), &post); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if post["id"] != "hello" || post["title"] != "Hello" {
		t.Fatalf("unexpected post %#v", post)
	}
	if html, _ := post["contentHtml"].(string); !strings.Contains(html, "hljs-kn") {
		t.Fatalf("expected highlighted html, got %#v", post["contentHtml"])
	}
}

func TestShowCommandHTMLOnly(t *testing.T) {
	out, err := runCLI(t, "show", "second", "--html")
	if err != nil {
		t.Fatalf("show --html: %v", err)
	}
	if strings.TrimSpace(out) != "<p>Second post.</p>" {
		t.Fatalf("unexpected html %q", out)
	}
}

func TestShowCommandMissingPost(t *testing.T) {
	if _, err := runCLI(t, "show", "missing"); err == nil {
		t.Fatal("expected error for missing post")
	}
}

func TestSummariesCommandYAML(t *testing.T) {
	out, err := runCLI(t, "--format", "yaml", "summaries")
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if !strings.Contains(out, "title: Hello") || !strings.Contains(out, "title: Second") {
		t.Fatalf("unexpected summaries output:\n%s", out)
	}
	if strings.Contains(out, "contentHtml") {
		t.Fatalf("summaries must not include contentHtml:\n%s", out)
	}
}

func TestCSSCommand(t *testing.T) {
	out, err := runCLI(t, "css")
	if err != nil {
		t.Fatalf("css: %v", err)
	}
	if !strings.Contains(out, ".hljs-") {
		t.Fatalf("expected prefixed css, got %q", out)
	}
}
