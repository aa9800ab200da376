package component

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Var holds a component input either as a literal value or as a named binding
// resolved at render time (for example a value looked up from request state).
type Var[T any] struct {
	name    string
	value   T
	resolve func(ctx context.Context) (T, error)
}

// Literal wraps a fixed value.
func Literal[T any](value T) Var[T] {
	return Var[T]{value: value}
}

// Bound wraps a named value resolved on every Get call.
func Bound[T any](name string, resolve func(ctx context.Context) (T, error)) Var[T] {
	return Var[T]{
		name:    strings.TrimSpace(name),
		resolve: resolve,
	}
}

// Name returns the binding name; literals have none.
func (v Var[T]) Name() string {
	return v.name
}

// IsBound reports whether the var resolves lazily.
func (v Var[T]) IsBound() bool {
	return v.resolve != nil
}

// Get returns the current value.
func (v Var[T]) Get(ctx context.Context) (T, error) {
	if v.resolve == nil {
		return v.value, nil
	}
	value, err := v.resolve(ctx)
	if err != nil {
		var zero T
		if v.name != "" {
			return zero, fmt.Errorf("component: resolve var %q: %w", v.name, err)
		}
		return zero, fmt.Errorf("component: resolve var: %w", err)
	}
	return value, nil
}

// String renders the binding name for bound vars and the literal otherwise.
func (v Var[T]) String() string {
	if v.resolve != nil {
		return v.name
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON encodes bound vars as a reference and literals by value.
func (v Var[T]) MarshalJSON() ([]byte, error) {
	if v.resolve != nil {
		return json.Marshal(map[string]string{"var": v.name})
	}
	return json.Marshal(v.value)
}
