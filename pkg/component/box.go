package component

import "context"

// Component is anything that renders into a Tag.
type Component interface {
	Render(ctx context.Context) (Tag, error)
}

// Named is implemented by components that want their descriptor assets
// resolved when a page renders them.
type Named interface {
	ComponentName() string
}

// NameBox is the descriptor name of the Box layout primitive.
const NameBox = "box"

// Box is the generic block layout primitive. It renders a div carrying its
// props; wrappers call RenderWith to pass derived props without mutating the
// box itself.
type Box struct {
	props    Props
	children []Component
}

// NewBox builds a box with the provided base props and children.
func NewBox(props Props, children ...Component) Box {
	return Box{
		props:    props.Clone(),
		children: append([]Component(nil), children...),
	}
}

// Props returns a copy of the base props.
func (b Box) Props() Props {
	return b.props.Clone()
}

// ComponentName implements Named.
func (b Box) ComponentName() string {
	return NameBox
}

// Render implements Component.
func (b Box) Render(ctx context.Context) (Tag, error) {
	return b.RenderWith(ctx, nil)
}

// RenderWith renders the box with overrides layered over its base props.
func (b Box) RenderWith(ctx context.Context, overrides Props) (Tag, error) {
	if err := ctx.Err(); err != nil {
		return Tag{}, err
	}

	tag := Tag{
		Name:  "div",
		Props: b.props.Merge(overrides),
	}
	for _, child := range b.children {
		if child == nil {
			continue
		}
		rendered, err := child.Render(ctx)
		if err != nil {
			return Tag{}, err
		}
		tag.Children = append(tag.Children, rendered)
	}
	return tag, nil
}
