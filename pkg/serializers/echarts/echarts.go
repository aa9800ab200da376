package echarts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"hash/fnv"
	"html/template"
	"reflect"
	"strings"

	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/goliatone/go-chartembed/pkg/component"
	tmpl "github.com/goliatone/go-chartembed/pkg/render/template"
	"github.com/goliatone/go-chartembed/pkg/serializer"
)

// Name is the component descriptor carrying the echarts runtime script.
const Name = "echarts"

// DefaultScriptURL is the runtime referenced by snippet exports.
const DefaultScriptURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

//go:embed templates/snippet.tpl
var snippetTemplate string

// SnippetTemplate returns the built-in snippet template source.
func SnippetTemplate() string {
	return snippetTemplate
}

// optionsExporter is satisfied by every go-echarts chart through its embedded
// BaseConfiguration.
type optionsExporter interface {
	Validate()
	JSONNotEscaped() template.HTML
}

// Option customises the converter installed by Register.
type Option func(*Converter)

// WithSnippets switches the export from a standalone HTML document to an
// embeddable container plus init script rendered through engine.
func WithSnippets(engine tmpl.TemplateRenderer) Option {
	return func(c *Converter) {
		c.engine = engine
	}
}

// WithSnippetTemplate overrides the snippet template source.
func WithSnippetTemplate(source string) Option {
	return func(c *Converter) {
		if strings.TrimSpace(source) != "" {
			c.template = source
		}
	}
}

// WithSize sets the snippet container dimensions.
func WithSize(width, height string) Option {
	return func(c *Converter) {
		if width = strings.TrimSpace(width); width != "" {
			c.width = width
		}
		if height = strings.TrimSpace(height); height != "" {
			c.height = height
		}
	}
}

// WithChartTheme sets the echarts theme name used by snippets.
func WithChartTheme(name string) Option {
	return func(c *Converter) {
		if name = strings.TrimSpace(name); name != "" {
			c.theme = name
		}
	}
}

// WithSVGRenderer makes snippets draw with the echarts SVG renderer instead of
// canvas.
func WithSVGRenderer() Option {
	return func(c *Converter) {
		c.renderer = "svg"
	}
}

// Converter turns go-echarts charts into HTML.
type Converter struct {
	engine   tmpl.TemplateRenderer
	template string
	width    string
	height   string
	theme    string
	renderer string
}

// NewConverter builds a converter. Without WithSnippets it emits the chart's
// full HTML page, the same bytes chart.Render would write.
func NewConverter(options ...Option) *Converter {
	c := &Converter{
		template: snippetTemplate,
		width:    "900px",
		height:   "500px",
		theme:    "white",
		renderer: "canvas",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Register installs a converter for every render.Renderer value on reg.
func Register(reg *serializer.Registry, options ...Option) error {
	if reg == nil {
		return errors.New("echarts: registry is nil")
	}
	converter := NewConverter(options...)
	if err := reg.Register(reflect.TypeFor[render.Renderer](), converter.Convert); err != nil {
		return fmt.Errorf("echarts: register serializer: %w", err)
	}
	return nil
}

// Convert implements serializer.Func.
func (c *Converter) Convert(value any) (string, error) {
	chart, ok := value.(render.Renderer)
	if !ok {
		return "", fmt.Errorf("echarts: %T does not implement render.Renderer", value)
	}
	if c.engine != nil {
		if exporter, ok := value.(optionsExporter); ok {
			return c.snippet(chartID(value), exporter)
		}
	}
	return Document(chart)
}

// Document renders chart as a standalone HTML page.
func Document(chart render.Renderer) (string, error) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("echarts: render chart: %w", err)
	}
	return buf.String(), nil
}

func (c *Converter) snippet(id string, chart optionsExporter) (string, error) {
	chart.Validate()
	options := string(chart.JSONNotEscaped())

	out, err := c.engine.RenderString(c.template, map[string]any{
		"id":       SnippetID(id, options),
		"options":  scriptSafe(options),
		"width":    c.width,
		"height":   c.height,
		"theme":    c.theme,
		"renderer": c.renderer,
	})
	if err != nil {
		return "", fmt.Errorf("echarts: render snippet: %w", err)
	}
	return out, nil
}

// SnippetID derives a DOM id from the chart id and options. The same chart
// maps to the same container id across renders; charts with equal options
// but different chart ids do not collide.
func SnippetID(chartID, options string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(chartID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(options))
	return fmt.Sprintf("chart-%016x", h.Sum64())
}

// chartID reads the ChartID go-echarts charts carry on their embedded
// Initialization options.
func chartID(value any) string {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	field := v.FieldByName("ChartID")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

// scriptEscaper keeps chart options from closing the inline script element.
var scriptEscaper = strings.NewReplacer("</", `<\/`, "<!--", `<\!--`)

func scriptSafe(options string) string {
	return scriptEscaper.Replace(options)
}

func init() {
	component.Assets().MustRegister(Name, component.Descriptor{
		Scripts: []component.Script{{Src: DefaultScriptURL}},
	})
	serializer.Default().MustRegister(reflect.TypeFor[render.Renderer](), NewConverter().Convert)
}
