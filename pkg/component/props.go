package component

import "strings"

// Well-known prop names.
const (
	PropID        = "id"
	PropClass     = "class"
	PropStyle     = "style"
	PropInnerHTML = "dangerouslySetInnerHTML"
)

// Prop is a single named attribute.
type Prop struct {
	Name  string
	Value any
}

// Props is an ordered attribute set. Names are unique; Set replaces values in
// place so emission order stays stable across renders.
type Props []Prop

// InnerHTML carries markup that the output stage inserts verbatim as the
// element body, bypassing escaping.
type InnerHTML struct {
	HTML string `json:"__html"`
}

// Get returns the value stored under name.
func (p Props) Get(name string) (any, bool) {
	name = strings.TrimSpace(name)
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is present.
func (p Props) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Set returns a copy of p with name bound to value.
func (p Props) Set(name string, value any) Props {
	name = strings.TrimSpace(name)
	if name == "" {
		return p.Clone()
	}
	out := p.Clone()
	for idx := range out {
		if out[idx].Name == name {
			out[idx].Value = value
			return out
		}
	}
	return append(out, Prop{Name: name, Value: value})
}

// Merge returns a copy of p with every entry of overrides applied in order.
func (p Props) Merge(overrides Props) Props {
	out := p.Clone()
	for _, prop := range overrides {
		out = out.Set(prop.Name, prop.Value)
	}
	return out
}

// Without returns a copy of p minus the named props.
func (p Props) Without(names ...string) Props {
	if len(names) == 0 {
		return p.Clone()
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[strings.TrimSpace(name)] = struct{}{}
	}
	out := make(Props, 0, len(p))
	for _, prop := range p {
		if _, skip := drop[prop.Name]; skip {
			continue
		}
		out = append(out, prop)
	}
	return out
}

// Names lists prop names in emission order.
func (p Props) Names() []string {
	names := make([]string, 0, len(p))
	for _, prop := range p {
		names = append(names, prop.Name)
	}
	return names
}

// Clone returns a shallow copy. Style maps are copied so callers can extend
// them without aliasing.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for idx, prop := range p {
		if style, ok := prop.Value.(map[string]string); ok {
			prop.Value = cloneStringMap(style)
		}
		out[idx] = prop
	}
	return out
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
