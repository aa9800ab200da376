package svg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-chartembed/pkg/serializer"
)

// ErrEmpty is returned when markup is empty after sanitizing.
var ErrEmpty = errors.New("svg: markup is empty after sanitizing")

// Markup is a static SVG chart. It is sanitized on export, so markup from
// documents or uploads can be embedded directly.
type Markup string

// RenderHTML returns the sanitized SVG.
func (m Markup) RenderHTML() (string, error) {
	cleaned := Sanitize(string(m))
	if cleaned == "" {
		return "", ErrEmpty
	}
	return cleaned, nil
}

// Register installs the Markup serializer on reg.
func Register(reg *serializer.Registry) error {
	if reg == nil {
		return errors.New("svg: registry is nil")
	}
	return serializer.RegisterFunc(reg, func(m Markup) (string, error) {
		return m.RenderHTML()
	})
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and foreign elements from raw SVG
// markup.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(trimmed))
}

var shapeAttrs = []string{
	"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
	"points", "rx", "ry", "fill", "fill-opacity", "stroke", "stroke-width",
	"stroke-opacity", "stroke-dasharray", "stroke-linecap", "stroke-linejoin",
	"transform", "opacity", "class",
}

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "text", "tspan", "title", "desc", "defs", "clipPath",
			"linearGradient", "stop",
		)

		p.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "preserveAspectRatio",
			"role", "aria-label", "aria-hidden", "class", "fill", "stroke",
		).OnElements("svg")

		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			p.AllowAttrs(shapeAttrs...).OnElements(el)
		}
		p.AllowAttrs(
			"x", "y", "dx", "dy", "fill", "font-size", "font-family",
			"font-weight", "text-anchor", "dominant-baseline", "transform", "class",
		).OnElements("text", "tspan")

		p.AllowAttrs("id", "transform", "class", "clip-path").OnElements("g")
		p.AllowAttrs("id").OnElements("defs")
		p.AllowAttrs("id", "clipPathUnits").OnElements("clipPath")
		p.AllowAttrs("id", "x1", "y1", "x2", "y2", "gradientUnits").OnElements("linearGradient")
		p.AllowAttrs("offset", "stop-color", "stop-opacity").OnElements("stop")

		policy = p
	})
	return policy
}

func init() {
	if err := Register(serializer.Default()); err != nil {
		panic(fmt.Sprintf("svg: %v", err))
	}
}
