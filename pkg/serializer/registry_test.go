package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type celsius float64

type htmlStringer interface {
	HTMLString() string
}

type badge string

func (b badge) HTMLString() string { return "<span>" + string(b) + "</span>" }

func TestRegistrySerializeExactType(t *testing.T) {
	reg := New()
	if err := RegisterFunc(reg, func(v celsius) (string, error) {
		return fmt.Sprintf("<b>%.1f°C</b>", float64(v)), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := reg.Serialize(celsius(21.5))
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if got != "<b>21.5°C</b>" {
		t.Fatalf("unexpected output: %q", got)
	}
	if !reg.Has(reflect.TypeFor[celsius]()) {
		t.Fatalf("expected Has to report registration")
	}
}

func TestRegistryInterfaceMatch(t *testing.T) {
	reg := New()
	reg.MustRegister(reflect.TypeFor[htmlStringer](), func(v any) (string, error) {
		return v.(htmlStringer).HTMLString(), nil
	})

	got, err := reg.Serialize(badge("new"))
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if got != "<span>new</span>" {
		t.Fatalf("unexpected output: %q", got)
	}
	if reg.Has(reflect.TypeFor[badge]()) {
		t.Fatalf("interface match should not create a concrete registration")
	}
}

func TestRegistryExactTypeWinsOverInterface(t *testing.T) {
	reg := New()
	reg.MustRegister(reflect.TypeFor[htmlStringer](), func(any) (string, error) { return "iface", nil })
	reg.MustRegister(reflect.TypeFor[badge](), func(any) (string, error) { return "exact", nil })

	got, err := reg.Serialize(badge("x"))
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if got != "exact" {
		t.Fatalf("expected exact match, got %q", got)
	}
}

func TestRegistryMissingSerializer(t *testing.T) {
	reg := New()
	_, err := reg.Serialize(42)
	if !errors.Is(err, ErrNoSerializer) {
		t.Fatalf("expected ErrNoSerializer, got %v", err)
	}
	if !strings.Contains(err.Error(), "int") {
		t.Fatalf("expected type name in error, got %v", err)
	}
	if reg.Supports(nil) {
		t.Fatalf("nil must never be supported")
	}
}

func TestRegistryWrapsConversionErrors(t *testing.T) {
	reg := New()
	boom := errors.New("boom")
	reg.MustRegister(reflect.TypeFor[celsius](), func(any) (string, error) { return "", boom })

	if _, err := reg.Serialize(celsius(1)); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped conversion error, got %v", err)
	}
}

func TestRegistryReRegisterReplaces(t *testing.T) {
	reg := New()
	reg.MustRegister(reflect.TypeFor[celsius](), func(any) (string, error) { return "first", nil })
	reg.MustRegister(reflect.TypeFor[celsius](), func(any) (string, error) { return "second", nil })

	got, _ := reg.Serialize(celsius(0))
	if got != "second" {
		t.Fatalf("expected replacement, got %q", got)
	}
	if diff := cmp.Diff([]string{"serializer.celsius"}, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsInvalidRegistrations(t *testing.T) {
	reg := New()
	if err := reg.Register(nil, func(any) (string, error) { return "", nil }); err == nil {
		t.Fatalf("expected error for nil type")
	}
	if err := reg.Register(reflect.TypeFor[celsius](), nil); err == nil {
		t.Fatalf("expected error for nil func")
	}
}

func TestRegistryCloneIsIsolated(t *testing.T) {
	reg := New()
	reg.MustRegister(reflect.TypeFor[celsius](), func(any) (string, error) { return "c", nil })

	cloned := reg.Clone()
	cloned.MustRegister(reflect.TypeFor[badge](), func(any) (string, error) { return "b", nil })

	if reg.Supports(badge("x")) {
		t.Fatalf("clone registration leaked into source registry")
	}
	if !cloned.Supports(celsius(1)) {
		t.Fatalf("clone lost source registration")
	}
}
