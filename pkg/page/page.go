package page

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartembed/pkg/component"
	tmpl "github.com/goliatone/go-chartembed/pkg/render/template"
	"github.com/goliatone/go-chartembed/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// DefaultTemplate is the template rendered for full pages.
const DefaultTemplate = "page"

// Templates exposes the built-in page templates rooted at the templates
// directory.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Request describes a page render.
type Request struct {
	Title       string
	Lang        string
	Theme       string
	Variant     string
	Components  []component.Component
	Stylesheets []string
	Scripts     []component.Script
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine. The engine must be able to
// resolve the configured template name.
func WithTemplateRenderer(engine tmpl.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplate overrides the page template name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		if name = strings.TrimSpace(name); name != "" {
			r.template = name
		}
	}
}

// WithAssets overrides the component asset registry (defaults to
// component.Assets()).
func WithAssets(reg *component.Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.assets = reg
		}
	}
}

// WithThemeSelector resolves Request.Theme and Request.Variant through
// selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(r *Renderer) {
		r.selector = selector
	}
}

// WithLang sets the default document language.
func WithLang(lang string) Option {
	return func(r *Renderer) {
		if lang = strings.TrimSpace(lang); lang != "" {
			r.lang = lang
		}
	}
}

// Renderer renders component trees into HTML documents.
type Renderer struct {
	engine   tmpl.TemplateRenderer
	template string
	assets   *component.Registry
	selector theme.ThemeSelector
	lang     string
}

// New constructs a page renderer backed by the embedded templates unless a
// custom engine is supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		template: DefaultTemplate,
		assets:   component.Assets(),
		lang:     "en",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(Templates()))
		if err != nil {
			return nil, fmt.Errorf("page: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Theme resolves the renderer config for a theme selection. It returns nil
// when no selector is configured.
func (r *Renderer) Theme(name, variant string) (*theme.RendererConfig, error) {
	if r.selector == nil {
		return nil, nil
	}
	selection, err := r.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("page: select theme: %w", err)
	}
	return RendererConfig(selection), nil
}

// Fragment renders a single component to HTML.
func (r *Renderer) Fragment(ctx context.Context, c component.Component) (string, error) {
	if c == nil {
		return "", errors.New("page: component is nil")
	}
	tag, err := c.Render(ctx)
	if err != nil {
		return "", fmt.Errorf("page: render %s: %w", componentName(c), err)
	}
	markup, err := tag.HTML()
	if err != nil {
		return "", fmt.Errorf("page: write %s: %w", componentName(c), err)
	}
	return markup, nil
}

// Render produces a complete HTML document for req.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := make([]string, 0, len(req.Components))
	names := make([]string, 0, len(req.Components)+1)
	names = append(names, component.NameBox)
	for _, c := range req.Components {
		markup, err := r.Fragment(ctx, c)
		if err != nil {
			return nil, err
		}
		body = append(body, markup)
		names = append(names, componentName(c))
	}

	cfg, err := r.Theme(req.Theme, req.Variant)
	if err != nil {
		return nil, err
	}

	stylesheets, scripts := r.assets.Assets(names)
	if cfg != nil && cfg.AssetURL != nil {
		if href := cfg.AssetURL(StylesheetAsset); href != "" {
			stylesheets = append(stylesheets, href)
		}
	}
	stylesheets = appendUnique(stylesheets, req.Stylesheets...)
	scripts = append(scripts, req.Scripts...)

	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = r.lang
	}

	data := map[string]any{
		"title":       req.Title,
		"lang":        lang,
		"stylesheets": stylesheets,
		"scripts":     scriptData(scripts),
		"theme":       themeData(cfg),
		"body":        body,
	}

	out, err := r.engine.RenderTemplate(r.template, data)
	if err != nil {
		return nil, fmt.Errorf("page: render template: %w", err)
	}
	return []byte(out), nil
}

func componentName(c component.Component) string {
	if named, ok := c.(component.Named); ok {
		return named.ComponentName()
	}
	return component.NameBox
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"css":     CSSVarsStyle(cfg.CSSVars),
	}
}

func scriptData(scripts []component.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		kind := script.Type
		if script.Module {
			kind = "module"
		}
		out = append(out, map[string]any{
			"src":    script.Src,
			"type":   kind,
			"inline": script.Inline,
			"async":  script.Async,
			"defer":  script.Defer,
		})
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, value := range dst {
		seen[value] = struct{}{}
	}
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		dst = append(dst, value)
	}
	return dst
}
