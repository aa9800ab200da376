package document_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/hashicorp/go-multierror"

	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/serializers/svg"
	"github.com/goliatone/go-chartembed/pkg/testsupport"

	_ "github.com/goliatone/go-chartembed/pkg/serializers/echarts"
)

func loadReport(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.LoadFile("testdata/report.yaml")
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	return doc
}

func TestLoadFileParsesDocument(t *testing.T) {
	doc := loadReport(t)

	if doc.Title != "Quarterly report" || doc.Source != "testdata/report.yaml" {
		t.Fatalf("unexpected document header: %q from %q", doc.Title, doc.Source)
	}
	if diff := testsupport.CompareGolden([]string{"revenue", "share", "badge"}, doc.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	revenue, ok := doc.Figure("revenue")
	if !ok {
		t.Fatalf("expected revenue figure")
	}
	want := document.FigureSpec{
		ID:       "revenue",
		Type:     document.TypeBar,
		Title:    "Revenue",
		Subtitle: "by quarter",
		Height:   "320px",
		Labels:   []string{"Q1", "Q2", "Q3", "Q4"},
		Series: []document.Series{
			{Name: "2023", Data: []float64{12, 15, 11, 18}},
			{Name: "2024", Data: []float64{14, 17.5, 16, 21}},
		},
	}
	if diff := testsupport.CompareGolden(want, revenue); diff != "" {
		t.Fatalf("figure mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.Figure("missing"); ok {
		t.Fatalf("unexpected figure for unknown id")
	}
}

func TestParseReportsEveryStructuralIssue(t *testing.T) {
	data, err := os.ReadFile("testdata/invalid.yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err = document.Parse(data, "invalid.yaml")
	if !errors.Is(err, document.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected aggregated errors, got %T", err)
	}
	if len(merr.Errors) < 2 {
		t.Fatalf("expected several issues, got %d: %v", len(merr.Errors), err)
	}
	if !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected title violation in %v", err)
	}
}

func TestParseChecksFigureShapes(t *testing.T) {
	data, err := os.ReadFile("testdata/mismatch.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err = document.Parse(data, "mismatch.json")
	if !errors.Is(err, document.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 2 {
		t.Fatalf("expected two semantic issues, got %v", err)
	}
	for _, fragment := range []string{"duplicate id", "1 values for 2 labels"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	if _, err := document.Parse([]byte("  \n"), ""); !errors.Is(err, document.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := document.Parse([]byte("figures: ["), "broken.yaml"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFS(t *testing.T) {
	report, err := os.ReadFile("testdata/report.yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	fsys := fstest.MapFS{
		"b/report.yaml": {Data: report},
		"a/single.json": {Data: []byte(`{"figures":[{"id":"x","type":"svg","markup":"<svg></svg>"}]}`)},
		"a/notes.txt":   {Data: []byte("ignored")},
	}

	docs, err := document.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if len(docs) != 2 || docs[0].Source != "a/single.json" || docs[1].Source != "b/report.yaml" {
		t.Fatalf("unexpected documents: %d", len(docs))
	}

	if docs, err := document.LoadFS(nil); err != nil || docs != nil {
		t.Fatalf("expected empty result for nil fs, got %v %v", docs, err)
	}
}

func TestBuildProducesChartValues(t *testing.T) {
	doc := loadReport(t)

	revenue, _ := doc.Figure("revenue")
	chart, err := document.Build(revenue)
	if err != nil {
		t.Fatalf("build bar: %v", err)
	}
	if _, ok := chart.(*charts.Bar); !ok {
		t.Fatalf("expected *charts.Bar, got %T", chart)
	}

	share, _ := doc.Figure("share")
	chart, err = document.Build(share)
	if err != nil {
		t.Fatalf("build pie: %v", err)
	}
	if _, ok := chart.(*charts.Pie); !ok {
		t.Fatalf("expected *charts.Pie, got %T", chart)
	}

	badge, _ := doc.Figure("badge")
	chart, err = document.Build(badge)
	if err != nil {
		t.Fatalf("build svg: %v", err)
	}
	if _, ok := chart.(svg.Markup); !ok {
		t.Fatalf("expected svg.Markup, got %T", chart)
	}

	for _, spec := range []document.FigureSpec{
		{ID: "l", Type: document.TypeLine, Series: []document.Series{{Name: "s", Data: []float64{1, 2}}}},
		{ID: "s", Type: document.TypeScatter, Series: []document.Series{{Name: "s", Data: []float64{3}}}},
	} {
		if _, err := document.Build(spec); err != nil {
			t.Fatalf("build %s: %v", spec.Type, err)
		}
	}

	if _, err := document.Build(document.FigureSpec{ID: "x", Type: "radar"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestChartIDIsDistinctScriptSafe(t *testing.T) {
	cases := map[string]string{
		"revenue": "chart_revenue",
		"q-1":     "chart_q_2d_1",
		"q_1":     "chart_q_5f_1",
	}
	for id, want := range cases {
		if got := document.ChartID(id); got != want {
			t.Fatalf("ChartID(%q) = %q, want %q", id, got, want)
		}
	}

	revenue, _ := loadReport(t).Figure("revenue")
	chart, err := document.Build(revenue)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := chart.(*charts.Bar).ChartID; got != "chart_revenue" {
		t.Fatalf("chart draws into %q, want chart_revenue", got)
	}
}

func TestComponentsRenderFigures(t *testing.T) {
	doc := loadReport(t)
	components, err := doc.Components()
	if err != nil {
		t.Fatalf("components: %v", err)
	}
	if len(components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(components))
	}

	tag, err := components[0].Render(context.Background())
	if err != nil {
		t.Fatalf("render revenue: %v", err)
	}
	markup, err := tag.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.HasPrefix(markup, `<div id="revenue" class="chartembed-figure chartembed-bar">`) {
		t.Fatalf("unexpected container: %.120s", markup)
	}
	if !strings.Contains(markup, "Revenue") || tag.Props.Has("fig") {
		t.Fatalf("unexpected revenue figure")
	}

	tag, err = components[2].Render(context.Background())
	if err != nil {
		t.Fatalf("render badge: %v", err)
	}
	markup, _ = tag.HTML()
	if !strings.Contains(markup, `<circle cx="4" cy="4" r="4" fill="teal"></circle>`) {
		t.Fatalf("unexpected badge markup: %s", markup)
	}
}

func TestManifest(t *testing.T) {
	manifest := loadReport(t).Manifest()
	if manifest == nil || manifest.Name != "acme" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if manifest.Tokens["brand"] != "#0a7cff" {
		t.Fatalf("unexpected tokens %v", manifest.Tokens)
	}
	if (&document.Document{}).Manifest() != nil {
		t.Fatalf("expected nil manifest without tokens")
	}
}

func TestSchemaIsExposed(t *testing.T) {
	if !strings.Contains(string(document.Schema()), "openapi: 3.0.3") {
		t.Fatalf("unexpected schema source")
	}
}
