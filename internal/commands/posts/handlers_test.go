package postscmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

func TestListPostRefsHandlerWritesJSON(t *testing.T) {
	service := &stubPostService{refs: []interfaces.PostRef{
		{Params: interfaces.PostParams{ID: "a"}},
		{Params: interfaces.PostParams{ID: "b"}},
	}}
	var out bytes.Buffer
	handler := NewListPostRefsHandler(service, &out, logging.NoOp())

	if err := handler.Execute(context.Background(), ListPostRefsCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "[\n  {\n    \"params\": {\n      \"id\": \"a\"\n    }\n  },\n  {\n    \"params\": {\n      \"id\": \"b\"\n    }\n  }\n]\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestShowPostHandlerWritesFlatRecord(t *testing.T) {
	service := &stubPostService{post: &interfaces.FullPost{
		ID:          "hello",
		ContentHTML: "<p>hi</p>",
		Metadata:    interfaces.Metadata{"title": "Hello"},
	}}

	var out bytes.Buffer
	handler := NewShowPostHandler(service, &out, nil)
	if err := handler.Execute(context.Background(), ShowPostCommand{ID: "hello", Format: "yaml"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{"id: hello", "title: Hello", "contentHtml:"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if service.loaded != "hello" {
		t.Fatalf("expected service to load hello, got %q", service.loaded)
	}
}

func TestShowPostHandlerHTMLOnly(t *testing.T) {
	service := &stubPostService{post: &interfaces.FullPost{ID: "hello", ContentHTML: "<p>hi</p>"}}

	var out bytes.Buffer
	handler := NewShowPostHandler(service, &out, nil)
	if err := handler.Execute(context.Background(), ShowPostCommand{ID: "hello", HTMLOnly: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != "<p>hi</p>" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShowPostHandlerValidation(t *testing.T) {
	service := &stubPostService{}
	handler := NewShowPostHandler(service, io.Discard, nil)

	for _, msg := range []ShowPostCommand{
		{},
		{ID: "../secret"},
		{ID: "hello", Format: "xml"},
	} {
		err := handler.Execute(context.Background(), msg)
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation category for %#v, got %v", msg, err)
		}
	}
	if service.loaded != "" {
		t.Fatalf("expected service not to be called, got %q", service.loaded)
	}
}

func TestShowPostHandlerKeepsServiceCategory(t *testing.T) {
	notFound := goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "post not found")
	handler := NewShowPostHandler(&stubPostService{err: notFound}, io.Discard, nil)

	err := handler.Execute(context.Background(), ShowPostCommand{ID: "missing"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}

func TestListSummariesHandler(t *testing.T) {
	service := &stubPostService{summaries: []interfaces.SummaryPost{
		{ID: "a", Metadata: interfaces.Metadata{"title": "A"}},
	}}

	var out bytes.Buffer
	handler := NewListSummariesHandler(service, &out, nil)
	if err := handler.Execute(context.Background(), ListSummariesCommand{Format: "json"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), `"title": "A"`) || strings.Contains(out.String(), "contentHtml") {
		t.Fatalf("unexpected summaries output:\n%s", out.String())
	}
}

func TestListSummariesHandlerFailure(t *testing.T) {
	handler := NewListSummariesHandler(&stubPostService{err: errors.New("boom")}, io.Discard, nil)

	err := handler.Execute(context.Background(), ListSummariesCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestStylesheetHandler(t *testing.T) {
	var out bytes.Buffer
	handler := NewStylesheetHandler(stubStylesheet(".hljs-kn { color: red }"), &out, nil)
	if err := handler.Execute(context.Background(), StylesheetCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != ".hljs-kn { color: red }" {
		t.Fatalf("unexpected css %q", out.String())
	}

	missing := NewStylesheetHandler(nil, io.Discard, nil)
	if err := missing.Execute(context.Background(), StylesheetCommand{}); !errors.Is(err, ErrStylesheetUnavailable) {
		t.Fatalf("expected ErrStylesheetUnavailable, got %v", err)
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	if err := Encode(io.Discard, "xml", map[string]any{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

type stubPostService struct {
	refs      []interfaces.PostRef
	post      *interfaces.FullPost
	summaries []interfaces.SummaryPost
	err       error
	loaded    interfaces.PostID
}

func (s *stubPostService) ListPostRefs(context.Context) ([]interfaces.PostRef, error) {
	return s.refs, s.err
}

func (s *stubPostService) LoadPost(_ context.Context, id interfaces.PostID) (*interfaces.FullPost, error) {
	s.loaded = id
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

func (s *stubPostService) ListPostSummaries(context.Context) ([]interfaces.SummaryPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

type stubStylesheet string

func (s stubStylesheet) WriteStylesheet(w io.Writer) error {
	_, err := io.WriteString(w, string(s))
	return err
}
