package document

import (
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/goliatone/go-chartembed/pkg/component"
	"github.com/goliatone/go-chartembed/pkg/figure"
	"github.com/goliatone/go-chartembed/pkg/serializers/svg"
)

// Build turns a figure spec into a chart value: a go-echarts chart for data
// figures and svg.Markup for static ones.
func Build(spec FigureSpec) (any, error) {
	if err := spec.Check(); err != nil {
		return nil, fmt.Errorf("document: build %q: %w", spec.ID, err)
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:   ChartID(spec.ID),
			PageTitle: pageTitle(spec),
			Width:     spec.Width,
			Height:    spec.Height,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
	}

	switch spec.Type {
	case TypeBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(labels(spec))
		for _, series := range spec.Series {
			data := make([]opts.BarData, 0, len(series.Data))
			for _, value := range series.Data {
				data = append(data, opts.BarData{Value: value})
			}
			bar.AddSeries(series.Name, data)
		}
		return bar, nil
	case TypeLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(labels(spec))
		for _, series := range spec.Series {
			data := make([]opts.LineData, 0, len(series.Data))
			for _, value := range series.Data {
				data = append(data, opts.LineData{Value: value})
			}
			line.AddSeries(series.Name, data)
		}
		return line, nil
	case TypeScatter:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(global...)
		scatter.SetXAxis(labels(spec))
		for _, series := range spec.Series {
			data := make([]opts.ScatterData, 0, len(series.Data))
			for _, value := range series.Data {
				data = append(data, opts.ScatterData{Value: value})
			}
			scatter.AddSeries(series.Name, data)
		}
		return scatter, nil
	case TypePie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		series := spec.Series[0]
		data := make([]opts.PieData, 0, len(series.Data))
		for idx, value := range series.Data {
			data = append(data, opts.PieData{Name: spec.Labels[idx], Value: value})
		}
		pie.AddSeries(series.Name, data)
		return pie, nil
	case TypeSVG:
		return svg.Markup(spec.Markup), nil
	default:
		return nil, fmt.Errorf("document: build %q: unknown figure type %q", spec.ID, spec.Type)
	}
}

// ChartID maps a figure id to the id of the element the chart draws into.
// It differs from the figure container id and is a valid JavaScript
// identifier, since go-echarts names script variables after it. Characters
// outside [A-Za-z0-9] are hex encoded so distinct figure ids stay distinct.
func ChartID(id string) string {
	var b strings.Builder
	b.WriteString("chart_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_%x_", r)
		}
	}
	return b.String()
}

// Component builds the chart for spec and wraps it in a figure whose
// container id is the figure id.
func Component(spec FigureSpec, options ...figure.Option) (*figure.Figure, error) {
	chart, err := Build(spec)
	if err != nil {
		return nil, err
	}
	options = append([]figure.Option{
		figure.WithID(spec.ID),
		figure.WithClass("chartembed-figure chartembed-" + spec.Type),
	}, options...)
	return figure.New(chart, options...), nil
}

// Components builds a figure for every spec in the document, in order.
func (d *Document) Components(options ...figure.Option) ([]component.Component, error) {
	out := make([]component.Component, 0, len(d.Figures))
	for _, spec := range d.Figures {
		fig, err := Component(spec, options...)
		if err != nil {
			return nil, err
		}
		out = append(out, fig)
	}
	return out, nil
}

func pageTitle(spec FigureSpec) string {
	if spec.Title != "" {
		return spec.Title
	}
	return spec.ID
}

// labels falls back to 1-based positions when a figure has no labels.
func labels(spec FigureSpec) []string {
	if len(spec.Labels) > 0 {
		return spec.Labels
	}
	longest := 0
	for _, series := range spec.Series {
		longest = max(longest, len(series.Data))
	}
	out := make([]string, longest)
	for idx := range out {
		out[idx] = fmt.Sprint(idx + 1)
	}
	return out
}
