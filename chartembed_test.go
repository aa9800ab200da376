package chartembed

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/serializers/svg"
)

func TestRenderHTMLEmbedsChartExport(t *testing.T) {
	bar := charts.NewBar()
	bar.SetXAxis([]string{"a"})

	markup, err := RenderHTML(context.Background(), bar, figure.WithID("bar"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(markup, `<div id="bar">`) || !strings.Contains(strings.ToLower(markup), "<html") {
		t.Fatalf("unexpected markup: %.120s", markup)
	}

	markup, err = RenderHTML(context.Background(), svg.Markup(`<svg width="2" height="2"></svg>`))
	if err != nil || markup != `<div><svg width="2" height="2"></svg></div>` {
		t.Fatalf("unexpected svg markup %q (%v)", markup, err)
	}
}

func TestGeneratePageFromParsedDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"title":"Dots","figures":[{"id":"dot","type":"svg","markup":"<svg></svg>"}]}`), "dots.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := GeneratePageFromDocument(context.Background(), doc, WithSnippets())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "<title>Dots</title>") {
		t.Fatalf("unexpected page:\n%s", out)
	}
}

func TestGeneratePageFromFile(t *testing.T) {
	out, err := GeneratePage(context.Background(), "pkg/document/testdata/report.yaml")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `id="revenue"`) {
		t.Fatalf("expected revenue figure in page")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if NewLoader() == nil || NewOrchestrator() == nil || NewFigure(nil) == nil {
		t.Fatalf("constructors returned nil")
	}
}
