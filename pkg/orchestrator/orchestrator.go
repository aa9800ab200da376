package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-chartembed/pkg/component"
	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/page"
	tmpl "github.com/goliatone/go-chartembed/pkg/render/template"
	"github.com/goliatone/go-chartembed/pkg/render/template/gotemplate"
	"github.com/goliatone/go-chartembed/pkg/serializer"
	"github.com/goliatone/go-chartembed/pkg/serializers/echarts"
)

// Loader resolves a document source.
type Loader interface {
	Load(ctx context.Context, source string) (*document.Document, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithSerializers replaces the serializer registry figures convert through.
func WithSerializers(reg *serializer.Registry) Option {
	return func(o *Orchestrator) {
		o.serializers = reg
	}
}

// WithPage injects a page renderer. Without it a renderer is built per
// document from the document's theme tokens.
func WithPage(renderer *page.Renderer) Option {
	return func(o *Orchestrator) {
		o.page = renderer
	}
}

// WithPageOptions forwards options to the per-document page renderer.
func WithPageOptions(options ...page.Option) Option {
	return func(o *Orchestrator) {
		o.pageOptions = append(o.pageOptions, options...)
	}
}

// WithFigureOptions appends options applied to every figure.
func WithFigureOptions(options ...figure.Option) Option {
	return func(o *Orchestrator) {
		o.figureOptions = append(o.figureOptions, options...)
	}
}

// WithSnippets makes echarts figures render as embeddable snippets sharing a
// single echarts script on the page. A nil engine uses the pongo2 engine.
func WithSnippets(engine tmpl.TemplateRenderer, options ...echarts.Option) Option {
	return func(o *Orchestrator) {
		o.snippets = true
		o.snippetEngine = engine
		o.snippetOptions = append(o.snippetOptions, options...)
	}
}

// Orchestrator runs the document → figures → page pipeline.
type Orchestrator struct {
	loader         Loader
	serializers    *serializer.Registry
	page           *page.Renderer
	pageOptions    []page.Option
	figureOptions  []figure.Option
	snippets       bool
	snippetEngine  tmpl.TemplateRenderer
	snippetOptions []echarts.Option
	initialiseErr  error
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// built-in loader and the process-wide serializer registry.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = document.NewLoader()
	}
	if o.serializers == nil {
		o.serializers = serializer.Default()
	}
	if !o.snippets {
		return
	}
	if o.snippetEngine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(page.Templates()))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: snippet engine: %w", err)
			return
		}
		o.snippetEngine = engine
	}
	reg := o.serializers.Clone()
	options := append([]echarts.Option{echarts.WithSnippets(o.snippetEngine)}, o.snippetOptions...)
	if err := echarts.Register(reg, options...); err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
		return
	}
	o.serializers = reg
}

// Request describes one render.
type Request struct {
	// Source locates the document. Optional when Document is supplied.
	Source string

	// Document bypasses the loader.
	Document *document.Document

	// Figures limits and orders the rendered figures by id. Empty means all.
	Figures []string

	// Title, Theme and Variant override the document values when set.
	Title   string
	Theme   string
	Variant string
	Lang    string
}

// Fragment is a rendered figure.
type Fragment struct {
	ID   string
	HTML string
}

// Generate renders the requested figures into a complete HTML page.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, components, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, themeName := o.page, doc.Theme
	if renderer == nil {
		renderer, themeName, err = page.ForManifest(doc.Manifest(), o.pageOptions...)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: page renderer: %w", err)
		}
	}
	if req.Theme != "" {
		themeName = req.Theme
	}

	pageReq := page.Request{
		Title:      firstNonEmpty(req.Title, doc.Title),
		Lang:       req.Lang,
		Theme:      themeName,
		Variant:    firstNonEmpty(req.Variant, doc.Variant),
		Components: components,
	}
	if o.snippets {
		_, pageReq.Scripts = component.Assets().Assets([]string{echarts.Name})
	}

	out, err := renderer.Render(ctx, pageReq)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render page: %w", err)
	}
	return out, nil
}

// Fragments renders the requested figures without a surrounding page.
func (o *Orchestrator) Fragments(ctx context.Context, req Request) ([]Fragment, error) {
	doc, components, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	ids := selectedIDs(doc, req.Figures)

	out := make([]Fragment, 0, len(components))
	for idx, c := range components {
		tag, err := c.Render(ctx)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: render %q: %w", ids[idx], err)
		}
		markup, err := tag.HTML()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: write %q: %w", ids[idx], err)
		}
		out = append(out, Fragment{ID: ids[idx], HTML: markup})
	}
	return out, nil
}

func (o *Orchestrator) prepare(ctx context.Context, req Request) (*document.Document, []component.Component, error) {
	if ctx == nil {
		return nil, nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	options := append([]figure.Option{figure.WithRegistry(o.serializers)}, o.figureOptions...)
	ids := selectedIDs(doc, req.Figures)
	components := make([]component.Component, 0, len(ids))
	for _, id := range ids {
		spec, ok := doc.Figure(id)
		if !ok {
			return nil, nil, fmt.Errorf("orchestrator: figure %q not found", id)
		}
		fig, err := document.Component(spec, options...)
		if err != nil {
			return nil, nil, fmt.Errorf("orchestrator: %w", err)
		}
		components = append(components, fig)
	}
	return doc, components, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (*document.Document, error) {
	if req.Document != nil {
		return req.Document, nil
	}
	if strings.TrimSpace(req.Source) == "" {
		return nil, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func selectedIDs(doc *document.Document, figures []string) []string {
	if len(figures) == 0 {
		return doc.IDs()
	}
	out := make([]string, 0, len(figures))
	for _, id := range figures {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
