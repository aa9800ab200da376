package chartembed

import (
	"context"

	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/orchestrator"
	"github.com/goliatone/go-chartembed/pkg/page"
)

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// Fragment aliases orchestrator.Fragment.
type Fragment = orchestrator.Fragment

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewFigure wraps a chart value in an embeddable component.
func NewFigure(chart any, options ...figure.Option) *figure.Figure {
	return figure.New(chart, options...)
}

// RenderHTML converts a single chart into the HTML fragment a figure would
// embed.
func RenderHTML(ctx context.Context, chart any, options ...figure.Option) (string, error) {
	tag, err := figure.New(chart, options...).Render(ctx)
	if err != nil {
		return "", err
	}
	return tag.HTML()
}

// GeneratePage loads the document at source and renders every figure into a
// complete HTML page.
func GeneratePage(ctx context.Context, source string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Source: source})
}

// GeneratePageFromDocument renders a pre-loaded document, bypassing the
// loader.
func GeneratePageFromDocument(ctx context.Context, doc *document.Document, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Document: doc})
}

// WithSnippets forwards to orchestrator.WithSnippets using the default
// template engine.
func WithSnippets() orchestrator.Option {
	return orchestrator.WithSnippets(nil)
}

// WithPageOptions forwards page options such as a theme selector or asset
// registry.
func WithPageOptions(options ...page.Option) orchestrator.Option {
	return orchestrator.WithPageOptions(options...)
}
