package layout

import "github.com/storyflow/storyflow/pkg/flow"

// rect is an axis-aligned bounding box in canvas coordinates.
// Top is the smaller y (canvas y grows downward).
type rect struct {
	left, top, right, bottom float64
}

// boundsOf returns the padded bounding box for a node at pos with the given
// size. The padding expands the box on all four sides.
func boundsOf(pos flow.Position, size flow.Size, pad float64) rect {
	return rect{
		left:   pos.X - pad,
		top:    pos.Y - pad,
		right:  pos.X + size.Width + pad,
		bottom: pos.Y + size.Height + pad,
	}
}

// overlaps reports whether the two rectangles intersect. Touching edges do
// not count as an overlap.
func (r rect) overlaps(o rect) bool {
	return r.left < o.right && o.left < r.right && r.top < o.bottom && o.top < r.bottom
}
