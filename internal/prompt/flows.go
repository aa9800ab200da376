package prompt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-chartembed/pkg/document"
)

// RenderPlan is what the interactive render flow collects.
type RenderPlan struct {
	Figures  []string
	Output   string
	Snippets bool
}

// Plan asks which figures of doc to render and where to write them.
func Plan(ctx context.Context, driver Driver, doc *document.Document, output string) (RenderPlan, error) {
	if driver == nil {
		return RenderPlan{}, errors.New("prompt: driver is nil")
	}
	ids := doc.IDs()
	if len(ids) == 0 {
		return RenderPlan{}, errors.New("prompt: document has no figures")
	}

	defaults := make([]int, len(ids))
	for idx := range ids {
		defaults[idx] = idx
	}
	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  "Figures to render",
		Options:  ids,
		Defaults: defaults,
	})
	if err != nil {
		return RenderPlan{}, err
	}
	if len(picked) == 0 {
		return RenderPlan{}, errors.New("prompt: no figures selected")
	}

	plan := RenderPlan{Figures: make([]string, 0, len(picked))}
	for _, idx := range picked {
		if idx >= 0 && idx < len(ids) {
			plan.Figures = append(plan.Figures, ids[idx])
		}
	}

	plan.Output, err = driver.Input(ctx, InputConfig{
		Message: "Output file",
		Default: output,
		Help:    "Leave empty to write to stdout",
	})
	if err != nil {
		return RenderPlan{}, err
	}
	plan.Output = strings.TrimSpace(plan.Output)

	plan.Snippets, err = driver.Confirm(ctx, ConfirmConfig{
		Message: "Embed charts as snippets instead of standalone documents?",
		Help:    "Snippets share one echarts runtime script per page",
	})
	if err != nil {
		return RenderPlan{}, err
	}
	return plan, nil
}

var figureTypes = []string{
	document.TypeBar,
	document.TypeLine,
	document.TypePie,
	document.TypeScatter,
	document.TypeSVG,
}

var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// NewFigure walks the user through a figure spec. The result passes
// FigureSpec.Check.
func NewFigure(ctx context.Context, driver Driver) (document.FigureSpec, error) {
	if driver == nil {
		return document.FigureSpec{}, errors.New("prompt: driver is nil")
	}
	var spec document.FigureSpec
	var err error

	if spec.ID, err = driver.Input(ctx, InputConfig{Message: "Figure id", Validator: validateID}); err != nil {
		return spec, err
	}
	spec.ID = strings.TrimSpace(spec.ID)

	idx, err := driver.Select(ctx, SelectConfig{Message: "Figure type", Options: figureTypes})
	if err != nil {
		return spec, err
	}
	if idx < 0 || idx >= len(figureTypes) {
		return spec, fmt.Errorf("prompt: invalid figure type selection %d", idx)
	}
	spec.Type = figureTypes[idx]

	if spec.Title, err = driver.Input(ctx, InputConfig{Message: "Title"}); err != nil {
		return spec, err
	}
	spec.Title = strings.TrimSpace(spec.Title)

	if spec.Type == document.TypeSVG {
		spec.Markup, err = driver.Input(ctx, InputConfig{Message: "SVG markup", Validator: required})
		if err != nil {
			return spec, err
		}
		return spec, spec.Check()
	}

	labels, err := driver.Input(ctx, InputConfig{
		Message: "Labels (comma separated)",
		Help:    "Category axis labels, or slice names for pie charts",
	})
	if err != nil {
		return spec, err
	}
	spec.Labels = splitList(labels)

	for {
		series, err := askSeries(ctx, driver, len(spec.Labels))
		if err != nil {
			return spec, err
		}
		spec.Series = append(spec.Series, series)
		if spec.Type == document.TypePie {
			break
		}
		more, err := driver.Confirm(ctx, ConfirmConfig{Message: "Add another series?"})
		if err != nil {
			return spec, err
		}
		if !more {
			break
		}
	}
	return spec, spec.Check()
}

func askSeries(ctx context.Context, driver Driver, labels int) (document.Series, error) {
	name, err := driver.Input(ctx, InputConfig{Message: "Series name", Validator: required})
	if err != nil {
		return document.Series{}, err
	}
	raw, err := driver.Input(ctx, InputConfig{
		Message: "Values (comma separated)",
		Validator: func(s string) error {
			values, err := ParseValues(s)
			if err != nil {
				return err
			}
			if labels > 0 && len(values) != labels {
				return fmt.Errorf("expected %d values, got %d", labels, len(values))
			}
			return nil
		},
	})
	if err != nil {
		return document.Series{}, err
	}
	values, err := ParseValues(raw)
	if err != nil {
		return document.Series{}, err
	}
	return document.Series{Name: strings.TrimSpace(name), Data: values}, nil
}

// ParseValues parses a comma separated list of numbers.
func ParseValues(raw string) ([]float64, error) {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil, errors.New("at least one value is required")
	}
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		values = append(values, value)
	}
	return values, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateID(s string) error {
	if !idPattern.MatchString(strings.TrimSpace(s)) {
		return errors.New("ids start with a letter and use letters, digits, - or _")
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}
