package document_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-chartembed/pkg/document"
)

func TestLoaderReadsFilesAndFS(t *testing.T) {
	ctx := context.Background()

	doc, err := document.NewLoader().Load(ctx, "testdata/report.yaml")
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(doc.Figures) != 3 {
		t.Fatalf("expected 3 figures, got %d", len(doc.Figures))
	}

	fsys := fstest.MapFS{
		"docs/one.json": {Data: []byte(`{"figures":[{"id":"x","type":"svg","markup":"<svg></svg>"}]}`)},
	}
	doc, err = document.NewLoader(document.WithFileSystem(fsys)).Load(ctx, "docs/one.json")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.Source != "docs/one.json" || doc.IDs()[0] != "x" {
		t.Fatalf("unexpected fs document %+v", doc)
	}

	if _, err := document.NewLoader().Load(ctx, "  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
	if _, err := document.NewLoader().Load(ctx, "testdata/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoaderHTTP(t *testing.T) {
	report, err := os.ReadFile("testdata/report.yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/report.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(report)
	}))
	defer srv.Close()

	ctx := context.Background()
	if _, err := document.NewLoader().Load(ctx, srv.URL+"/report.yaml"); err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled http error, got %v", err)
	}

	loader := document.NewLoader(document.WithHTTPClient(srv.Client()), document.WithHTTPFallback(5*time.Second))
	doc, err := loader.Load(ctx, srv.URL+"/report.yaml")
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	if doc.Title != "Quarterly report" {
		t.Fatalf("unexpected title %q", doc.Title)
	}

	if _, err := loader.Load(ctx, srv.URL+"/missing.yaml"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}
