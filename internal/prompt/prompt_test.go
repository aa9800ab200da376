package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-chartembed/pkg/document"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	multiIdx   [][]int
	confirm    []bool
	messages   []string
	inputPos   int
	selectPos  int
	multiPos   int
	confirmPos int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", fmt.Errorf("%s: %w", cfg.Message, err)
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.messages = append(s.messages, msg)
	return nil
}

func sampleDocument() *document.Document {
	return &document.Document{
		Figures: []document.FigureSpec{
			{ID: "revenue", Type: document.TypeBar},
			{ID: "share", Type: document.TypePie},
			{ID: "badge", Type: document.TypeSVG},
		},
	}
}

func TestPlanCollectsSelection(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{0, 2}},
		inputs:   []string{" out.html "},
		confirm:  []bool{true},
	}
	plan, err := Plan(context.Background(), driver, sampleDocument(), "default.html")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := RenderPlan{Figures: []string{"revenue", "badge"}, Output: "out.html", Snippets: true}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRejectsEmptySelection(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{}}}
	if _, err := Plan(context.Background(), driver, sampleDocument(), ""); err == nil {
		t.Fatalf("expected error for empty selection")
	}
	if _, err := Plan(context.Background(), driver, &document.Document{}, ""); err == nil {
		t.Fatalf("expected error for document without figures")
	}
	if _, err := Plan(context.Background(), nil, sampleDocument(), ""); err == nil {
		t.Fatalf("expected error for nil driver")
	}
}

func TestNewFigureBar(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"revenue", "Revenue", "Q1, Q2", "2023", "1, 2", "2024", "3,4.5"},
		selectIdx: []int{0},
		confirm:   []bool{true, false},
	}
	spec, err := NewFigure(context.Background(), driver)
	if err != nil {
		t.Fatalf("new figure: %v", err)
	}
	want := document.FigureSpec{
		ID:     "revenue",
		Type:   document.TypeBar,
		Title:  "Revenue",
		Labels: []string{"Q1", "Q2"},
		Series: []document.Series{
			{Name: "2023", Data: []float64{1, 2}},
			{Name: "2024", Data: []float64{3, 4.5}},
		},
	}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Fatalf("figure mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFigurePieTakesOneSeries(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"share", "", "a,b", "split", "60,40"},
		selectIdx: []int{2},
	}
	spec, err := NewFigure(context.Background(), driver)
	if err != nil {
		t.Fatalf("new figure: %v", err)
	}
	if spec.Type != document.TypePie || len(spec.Series) != 1 || driver.confirmPos != 0 {
		t.Fatalf("unexpected pie figure %+v", spec)
	}
}

func TestNewFigureSVG(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"badge", "Badge", "<svg></svg>"},
		selectIdx: []int{4},
	}
	spec, err := NewFigure(context.Background(), driver)
	if err != nil {
		t.Fatalf("new figure: %v", err)
	}
	if spec.Type != document.TypeSVG || spec.Markup != "<svg></svg>" {
		t.Fatalf("unexpected svg figure %+v", spec)
	}
}

func TestNewFigureValidatesInput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"9lives"}}
	if _, err := NewFigure(context.Background(), driver); err == nil {
		t.Fatalf("expected id validation error")
	}

	driver = &stubDriver{
		inputs:    []string{"latency", "", "mon,tue", "p99", "1"},
		selectIdx: []int{1},
	}
	_, err := NewFigure(context.Background(), driver)
	if err == nil || !strings.Contains(err.Error(), "expected 2 values, got 1") {
		t.Fatalf("expected value count error, got %v", err)
	}

	driver = &stubDriver{inputs: []string{"x"}, selectIdx: []int{9}}
	if _, err := NewFigure(context.Background(), driver); err == nil {
		t.Fatalf("expected invalid selection error")
	}
}

func TestParseValues(t *testing.T) {
	values, err := ParseValues(" 1, 2.5 ,,-3 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 2.5, -3}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseValues("1, two"); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if _, err := ParseValues(" , "); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestSurveyHelpers(t *testing.T) {
	options := []string{"a", "b", "c"}
	if got := indexOf(options, "c"); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if got := indexOf(options, "z"); got != -1 {
		t.Fatalf("expected -1 for unknown option, got %d", got)
	}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"c", "a"})); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, defaultsFromIndices(options, []int{1, 7})); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(translateSurveyErr(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("expected interrupt to map to ErrAborted")
	}
}
