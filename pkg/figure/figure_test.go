package figure_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-chartembed/pkg/component"
	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/serializer"
	theme "github.com/goliatone/go-theme"
)

type stubChart struct {
	spec string
}

func (c *stubChart) ToHTML() string {
	return `<div class="chart">` + c.spec + `</div>`
}

type selfRendering struct{ body string }

func (s selfRendering) RenderHTML() (string, error) { return "<figure>" + s.body + "</figure>", nil }

type failingChart struct{}

func (failingChart) RenderHTML() (string, error) { return "", errors.New("export failed") }

func stubRegistry(t *testing.T) *serializer.Registry {
	t.Helper()
	reg := serializer.New()
	if err := serializer.RegisterFunc(reg, func(c *stubChart) (string, error) {
		return c.ToHTML(), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func innerHTML(t *testing.T, tag component.Tag) string {
	t.Helper()
	value, ok := tag.Props.Get(component.PropInnerHTML)
	if !ok {
		t.Fatalf("tag missing %s: %#v", component.PropInnerHTML, tag.Props)
	}
	inner, ok := value.(component.InnerHTML)
	if !ok {
		t.Fatalf("unexpected inner html type %T", value)
	}
	return inner.HTML
}

func TestFigureRenderEmbedsExportAndStripsFig(t *testing.T) {
	chart := &stubChart{spec: "bars"}
	fig := figure.New(chart, figure.WithRegistry(stubRegistry(t)), figure.WithID("revenue"))

	tag, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if tag.Name != "div" {
		t.Fatalf("expected box div, got %q", tag.Name)
	}
	if got := innerHTML(t, tag); got != chart.ToHTML() {
		t.Fatalf("inner html mismatch\nwant: %s\n got: %s", chart.ToHTML(), got)
	}
	if tag.Props.Has(figure.PropFig) {
		t.Fatalf("fig prop leaked into rendered tag: %v", tag.Props.Names())
	}
	if diff := cmp.Diff([]string{"id", component.PropInnerHTML}, tag.Props.Names()); diff != "" {
		t.Fatalf("prop names mismatch (-want +got):\n%s", diff)
	}

	markup, err := tag.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if markup != `<div id="revenue"><div class="chart">bars</div></div>` {
		t.Fatalf("unexpected markup: %s", markup)
	}
}

func TestFigureRenderIsIdempotentAndKeepsChart(t *testing.T) {
	chart := &stubChart{spec: "line"}
	fig := figure.New(chart, figure.WithRegistry(stubRegistry(t)))

	first, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if innerHTML(t, first) != innerHTML(t, second) {
		t.Fatalf("renders differ: %q vs %q", innerHTML(t, first), innerHTML(t, second))
	}

	held, err := fig.Fig().Get(context.Background())
	if err != nil {
		t.Fatalf("get fig: %v", err)
	}
	if held != chart {
		t.Fatalf("figure lost its chart reference after render")
	}
}

func TestFigureWithoutBackendConstructsAndFailsAtRender(t *testing.T) {
	reg := serializer.New()
	chart := &stubChart{spec: "pie"}

	fig := figure.New(chart, figure.WithRegistry(reg))
	if fig == nil {
		t.Fatalf("expected figure instance")
	}
	if figure.Supported(reg, chart) {
		t.Fatalf("chart reported as supported without a backend")
	}
	if reg.Has(reflect.TypeOf(chart)) {
		t.Fatalf("unexpected converter registered")
	}

	_, err := fig.Render(context.Background())
	if !errors.Is(err, serializer.ErrNoSerializer) {
		t.Fatalf("expected ErrNoSerializer, got %v", err)
	}
}

func TestFigureUsesHTMLRendererCapability(t *testing.T) {
	fig := figure.New(selfRendering{body: "svg"}, figure.WithRegistry(serializer.New()))

	tag, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := innerHTML(t, tag); got != "<figure>svg</figure>" {
		t.Fatalf("unexpected inner html: %q", got)
	}
	if !figure.Supported(serializer.New(), selfRendering{}) {
		t.Fatalf("capability not detected")
	}
}

func TestFigureRegistryTakesPrecedenceOverCapability(t *testing.T) {
	reg := serializer.New()
	if err := serializer.RegisterFunc(reg, func(selfRendering) (string, error) {
		return "registered", nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := figure.New(selfRendering{body: "x"}, figure.WithRegistry(reg)).HTML(context.Background())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if got != "registered" {
		t.Fatalf("expected registry conversion, got %q", got)
	}
}

func TestFigurePropagatesConversionErrors(t *testing.T) {
	_, err := figure.New(failingChart{}, figure.WithRegistry(serializer.New())).Render(context.Background())
	if err == nil || !strings.Contains(err.Error(), "export failed") {
		t.Fatalf("expected export error, got %v", err)
	}
}

func TestFigureNilChart(t *testing.T) {
	_, err := figure.New(nil).Render(context.Background())
	if !errors.Is(err, figure.ErrNoFigure) {
		t.Fatalf("expected ErrNoFigure, got %v", err)
	}
}

func TestFigureBoundVarResolvesPerRender(t *testing.T) {
	specs := []string{"first", "second"}
	calls := 0
	fig := figure.NewVar(component.Bound("state.chart", func(context.Context) (any, error) {
		chart := &stubChart{spec: specs[calls]}
		calls++
		return chart, nil
	}), figure.WithRegistry(stubRegistry(t)))

	first, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(innerHTML(t, first), "first") || !strings.Contains(innerHTML(t, second), "second") {
		t.Fatalf("bound chart not re-read: %q / %q", innerHTML(t, first), innerHTML(t, second))
	}
}

func TestFigureThemeAndStyle(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "ignored": "x"},
	}
	fig := figure.New(&stubChart{spec: "s"},
		figure.WithRegistry(stubRegistry(t)),
		figure.WithTheme(cfg),
		figure.WithStyle(map[string]string{"height": "400px"}),
		figure.WithClass("chart-card"),
		figure.WithProps(component.Props{{Name: figure.PropFig, Value: "reserved"}, {Name: "data-kind", Value: "bar"}}),
	)

	tag, err := fig.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup, err := tag.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	want := `<div data-theme="acme" data-theme-variant="dark" class="chart-card" data-kind="bar" style="--brand: #123456; height: 400px"><div class="chart">s</div></div>`
	if markup != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, markup)
	}
}
