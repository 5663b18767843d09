package tooltip

// Place positions a tooltip of the given size near the pointer: offset down
// and right, flipped to the other side of the pointer on any axis that would
// overflow, then clamped into the viewport.
func Place(pointer Point, size Size, viewport Size, offset Point) Point {
	p := Point{X: pointer.X + offset.X, Y: pointer.Y + offset.Y}

	if p.X+size.Width > viewport.Width {
		p.X = pointer.X - offset.X - size.Width
	}
	if p.Y+size.Height > viewport.Height {
		p.Y = pointer.Y - offset.Y - size.Height
	}

	return Clamp(p, size, viewport)
}

// Clamp keeps a box inside the viewport. Boxes larger than the viewport are
// pinned to the top-left edge.
func Clamp(p Point, size Size, viewport Size) Point {
	p.X = max(0, min(p.X, viewport.Width-size.Width))
	p.Y = max(0, min(p.Y, viewport.Height-size.Height))
	return p
}
