package figures

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/page"
)

// DefaultRoutePath is where the handler mounts below the base path.
const DefaultRoutePath = "/figures"

type GuardFunc func(r *http.Request) error

// LoaderFunc resolves the document for a request.
type LoaderFunc func(ctx context.Context) (*document.Document, error)

type Options struct {
	RoutePath     string
	Loader        LoaderFunc
	Page          *page.Renderer
	FigureOptions []figure.Option
	Variant       string
	Guard         GuardFunc
	Logger        *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath: DefaultRoutePath,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = DefaultRoutePath
	}
	if opts.FigureOptions != nil {
		opts.FigureOptions = append([]figure.Option{}, opts.FigureOptions...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithDocument serves a fixed document.
func WithDocument(doc *document.Document) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Loader = func(context.Context) (*document.Document, error) { return doc, nil }
	}
}

// WithLoader resolves the document on every request, e.g. to pick up edits.
func WithLoader(loader LoaderFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Loader = loader
	}
}

// WithPage overrides the page renderer. By default a renderer is built per
// document so its tokens become the page theme.
func WithPage(renderer *page.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Page = renderer
	}
}

func WithFigureOptions(fns ...figure.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FigureOptions = append(o.FigureOptions, fns...)
	}
}

func WithVariant(variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Variant = variant
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithLogger reports render failures. Nothing is logged without one.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
