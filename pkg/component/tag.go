package component

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Tag is the structural output of a component render: an element name, its
// attributes, nested tags and optional text contents.
type Tag struct {
	Name     string
	Props    Props
	Children []Tag
	Contents string
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {}, "wbr": {},
}

// RemoveProps returns a copy of the tag without the named props. The receiver
// is left untouched.
func (t Tag) RemoveProps(names ...string) Tag {
	out := t.clone()
	out.Props = t.Props.Without(names...)
	return out
}

// AddProps returns a copy of the tag with overrides applied.
func (t Tag) AddProps(overrides Props) Tag {
	out := t.clone()
	out.Props = t.Props.Merge(overrides)
	return out
}

// HTML renders the tag into a string.
func (t Tag) HTML() (string, error) {
	var buf bytes.Buffer
	if err := t.WriteHTML(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML writes the tag as HTML. Attribute values and text contents are
// escaped; an InnerHTML prop replaces the element body verbatim.
func (t Tag) WriteHTML(w io.Writer) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("component: tag name is required")
	}

	var builder strings.Builder
	builder.WriteString("<")
	builder.WriteString(name)

	var inner *InnerHTML
	for _, prop := range t.Props {
		if prop.Name == PropInnerHTML {
			raw, err := innerHTMLValue(prop.Value)
			if err != nil {
				return err
			}
			inner = &raw
			continue
		}
		if err := writeAttribute(&builder, prop); err != nil {
			return err
		}
	}
	builder.WriteString(">")

	if _, void := voidElements[name]; void {
		_, err := io.WriteString(w, builder.String())
		return err
	}

	switch {
	case inner != nil:
		builder.WriteString(inner.HTML)
	default:
		if t.Contents != "" {
			builder.WriteString(html.EscapeString(t.Contents))
		}
		for _, child := range t.Children {
			markup, err := child.HTML()
			if err != nil {
				return err
			}
			builder.WriteString(markup)
		}
	}

	builder.WriteString("</")
	builder.WriteString(name)
	builder.WriteString(">")
	_, err := io.WriteString(w, builder.String())
	return err
}

// MarshalJSON encodes the tag with props kept in emission order.
func (t Tag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	name, err := json.Marshal(t.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(name)

	buf.WriteString(`,"props":`)
	props, err := t.Props.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(props)

	if len(t.Children) > 0 {
		buf.WriteString(`,"children":`)
		children, err := json.Marshal(t.Children)
		if err != nil {
			return nil, err
		}
		buf.Write(children)
	}
	if t.Contents != "" {
		buf.WriteString(`,"contents":`)
		contents, err := json.Marshal(t.Contents)
		if err != nil {
			return nil, err
		}
		buf.Write(contents)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes props as an object preserving order.
func (p Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, prop := range p {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, fmt.Errorf("component: encode prop %q: %w", prop.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t Tag) clone() Tag {
	out := Tag{
		Name:     t.Name,
		Props:    t.Props.Clone(),
		Contents: t.Contents,
	}
	if len(t.Children) > 0 {
		out.Children = make([]Tag, len(t.Children))
		for idx, child := range t.Children {
			out.Children[idx] = child.clone()
		}
	}
	return out
}

func innerHTMLValue(value any) (InnerHTML, error) {
	switch v := value.(type) {
	case InnerHTML:
		return v, nil
	case *InnerHTML:
		if v == nil {
			return InnerHTML{}, nil
		}
		return *v, nil
	case string:
		return InnerHTML{HTML: v}, nil
	case map[string]string:
		return InnerHTML{HTML: v["__html"]}, nil
	case map[string]any:
		raw, _ := v["__html"].(string)
		return InnerHTML{HTML: raw}, nil
	default:
		return InnerHTML{}, fmt.Errorf("component: unsupported %s value %T", PropInnerHTML, value)
	}
}

func writeAttribute(builder *strings.Builder, prop Prop) error {
	name := strings.TrimSpace(prop.Name)
	if name == "" {
		return nil
	}

	var value string
	switch v := prop.Value.(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(name))
		return nil
	case string:
		value = v
	case map[string]string:
		if len(v) == 0 {
			return nil
		}
		value = styleString(v)
	case int:
		value = strconv.Itoa(v)
	case int64:
		value = strconv.FormatInt(v, 10)
	case float64:
		value = strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		value = v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("component: encode attribute %q: %w", name, err)
		}
		value = string(encoded)
	}

	builder.WriteByte(' ')
	builder.WriteString(html.EscapeString(name))
	builder.WriteString(`="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteString(`"`)
	return nil
}

func styleString(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for key := range style {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(style[key])
		if value == "" {
			continue
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, "; ")
}
