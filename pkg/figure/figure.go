package figure

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/goliatone/go-chartembed/pkg/component"
	"github.com/goliatone/go-chartembed/pkg/serializer"
	theme "github.com/goliatone/go-theme"
)

// Name is the descriptor name used for asset resolution.
const Name = "figure"

// PropFig is the prop holding the chart value on the underlying box. It is
// stripped from every rendered tag.
const PropFig = "fig"

// ErrNoFigure is returned when a figure renders without a chart value.
var ErrNoFigure = errors.New("figure: chart value is nil")

// HTMLRenderer is the capability a chart value can implement to export itself
// without a registered serializer.
type HTMLRenderer interface {
	RenderHTML() (string, error)
}

// Option customises a Figure.
type Option func(*Figure)

// WithRegistry overrides the serializer registry (defaults to
// serializer.Default()).
func WithRegistry(reg *serializer.Registry) Option {
	return func(f *Figure) {
		if reg != nil {
			f.registry = reg
		}
	}
}

// WithID sets the container id.
func WithID(id string) Option {
	return func(f *Figure) {
		if id = strings.TrimSpace(id); id != "" {
			f.props = f.props.Set(component.PropID, id)
		}
	}
}

// WithClass sets the container class list.
func WithClass(class string) Option {
	return func(f *Figure) {
		if class = strings.TrimSpace(class); class != "" {
			f.props = f.props.Set(component.PropClass, class)
		}
	}
}

// WithStyle merges declarations into the container style.
func WithStyle(style map[string]string) Option {
	return func(f *Figure) {
		for key, value := range style {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			f.style[key] = value
		}
	}
}

// WithTheme folds the theme CSS variables into the container style so chart
// markup can reference them.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(f *Figure) {
		if cfg == nil {
			return
		}
		for key, value := range cfg.CSSVars {
			if !strings.HasPrefix(key, "--") {
				continue
			}
			f.style[key] = value
		}
		if cfg.Theme != "" {
			f.props = f.props.Set("data-theme", cfg.Theme)
		}
		if cfg.Variant != "" {
			f.props = f.props.Set("data-theme-variant", cfg.Variant)
		}
	}
}

// WithProps adds arbitrary container props. The fig and inner HTML props are
// reserved and ignored.
func WithProps(props component.Props) Option {
	return func(f *Figure) {
		f.props = f.props.Merge(props.Without(PropFig, component.PropInnerHTML))
	}
}

// Figure embeds a chart inside the component tree. The chart is converted to
// HTML on every render and injected as the box's inner HTML.
type Figure struct {
	fig      component.Var[any]
	registry *serializer.Registry
	props    component.Props
	style    map[string]string
}

var _ component.Component = (*Figure)(nil)

// New wraps a chart value. Construction never fails, even when no serializer
// is registered for the chart type; the failure surfaces at render time.
func New(fig any, options ...Option) *Figure {
	return NewVar(component.Literal(fig), options...)
}

// NewVar wraps a chart held in a Var, e.g. one bound to request state.
func NewVar(fig component.Var[any], options ...Option) *Figure {
	f := &Figure{
		fig:      fig,
		registry: serializer.Default(),
		style:    make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// ComponentName implements component.Named.
func (f *Figure) ComponentName() string {
	return Name
}

// Fig returns the held chart var.
func (f *Figure) Fig() component.Var[any] {
	return f.fig
}

// HTML converts the held chart into its HTML export.
func (f *Figure) HTML(ctx context.Context) (string, error) {
	value, err := f.fig.Get(ctx)
	if err != nil {
		return "", err
	}
	return Serialize(f.registry, value)
}

// Props computes the attributes derived from the chart: the inner HTML
// payload plus any container styling.
func (f *Figure) Props(ctx context.Context) (component.Props, error) {
	markup, err := f.HTML(ctx)
	if err != nil {
		return nil, err
	}

	var props component.Props
	if len(f.style) > 0 {
		props = props.Set(component.PropStyle, maps.Clone(f.style))
	}
	return props.Set(component.PropInnerHTML, component.InnerHTML{HTML: markup}), nil
}

// Render implements component.Component. The figure itself is not modified:
// derived props are handed to the box render and the fig prop is removed from
// the resulting tag.
func (f *Figure) Render(ctx context.Context) (component.Tag, error) {
	derived, err := f.Props(ctx)
	if err != nil {
		return component.Tag{}, err
	}

	base := f.props.Set(PropFig, f.fig)
	tag, err := component.NewBox(base).RenderWith(ctx, derived)
	if err != nil {
		return component.Tag{}, fmt.Errorf("figure: render box: %w", err)
	}
	return tag.RemoveProps(PropFig), nil
}

// Serialize converts value using reg, falling back to the HTMLRenderer
// capability. A nil registry means serializer.Default().
func Serialize(reg *serializer.Registry, value any) (string, error) {
	if value == nil {
		return "", ErrNoFigure
	}
	if reg == nil {
		reg = serializer.Default()
	}
	if reg.Supports(value) {
		return reg.Serialize(value)
	}
	if renderer, ok := value.(HTMLRenderer); ok {
		markup, err := renderer.RenderHTML()
		if err != nil {
			return "", fmt.Errorf("figure: render %T: %w", value, err)
		}
		return markup, nil
	}
	return reg.Serialize(value)
}

// Supported reports whether value can be embedded with reg.
func Supported(reg *serializer.Registry, value any) bool {
	if value == nil {
		return false
	}
	if reg == nil {
		reg = serializer.Default()
	}
	if reg.Supports(value) {
		return true
	}
	_, ok := value.(HTMLRenderer)
	return ok
}

func init() {
	component.Assets().MustRegister(Name, component.Descriptor{})
}
