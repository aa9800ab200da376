package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrNoSerializer is returned when no conversion is registered for a value.
var ErrNoSerializer = errors.New("serializer: no serializer registered")

// Func converts a value into its HTML string form.
type Func func(value any) (string, error)

type entry struct {
	typ reflect.Type
	fn  Func
}

// Registry maps value types to conversion functions. Concrete types match
// exactly; interface types match any value implementing them, checked in
// registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	byType  map[reflect.Type]int
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// New creates an empty registry instance.
func New() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]int),
	}
}

// Default returns the process-wide registry backends register with at init.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Register associates fn with typ. Re-registering a type replaces the previous
// function while keeping its lookup position.
func (r *Registry) Register(typ reflect.Type, fn Func) error {
	if typ == nil {
		return fmt.Errorf("serializer: type is required")
	}
	if fn == nil {
		return fmt.Errorf("serializer: func for %s is nil", typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, exists := r.byType[typ]; exists {
		r.entries[idx].fn = fn
		return nil
	}
	r.byType[typ] = len(r.entries)
	r.entries = append(r.entries, entry{typ: typ, fn: fn})
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(typ reflect.Type, fn Func) {
	if err := r.Register(typ, fn); err != nil {
		panic(err)
	}
}

// RegisterFunc registers a typed conversion under T.
func RegisterFunc[T any](r *Registry, fn func(T) (string, error)) error {
	if fn == nil {
		return fmt.Errorf("serializer: func for %s is nil", reflect.TypeFor[T]())
	}
	return r.Register(reflect.TypeFor[T](), func(value any) (string, error) {
		typed, ok := value.(T)
		if !ok {
			return "", fmt.Errorf("serializer: expected %s, got %T", reflect.TypeFor[T](), value)
		}
		return fn(typed)
	})
}

// Lookup resolves the conversion for value.
func (r *Registry) Lookup(value any) (Func, bool) {
	if value == nil {
		return nil, false
	}
	typ := reflect.TypeOf(value)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx, ok := r.byType[typ]; ok {
		return r.entries[idx].fn, true
	}
	for _, e := range r.entries {
		if e.typ.Kind() == reflect.Interface && typ.Implements(e.typ) {
			return e.fn, true
		}
	}
	return nil, false
}

// Supports reports whether value can be serialized.
func (r *Registry) Supports(value any) bool {
	_, ok := r.Lookup(value)
	return ok
}

// Has reports whether typ has its own registration.
func (r *Registry) Has(typ reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byType[typ]
	return ok
}

// Serialize converts value using the registered function.
func (r *Registry) Serialize(value any) (string, error) {
	fn, ok := r.Lookup(value)
	if !ok {
		return "", fmt.Errorf("%w for %T", ErrNoSerializer, value)
	}
	out, err := fn(value)
	if err != nil {
		return "", fmt.Errorf("serializer: serialize %T: %w", value, err)
	}
	return out, nil
}

// Types returns the sorted names of registered types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.typ.String())
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	cloned.entries = append([]entry(nil), r.entries...)
	for typ, idx := range r.byType {
		cloned.byType[typ] = idx
	}
	return cloned
}
