package browser

const (
	collapsedHeight = 1
	collapsedWidth  = 3
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the cell lies inside r.
func (r Rect) Contains(x, y int) bool {
	return !r.Empty() && x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout places the quadrants inside area: top spans the full width, left
// and right share the middle row, bottom spans the full width. Hidden
// quadrants get an empty rect. A collapsed quadrant keeps a thin strip so
// it can be expanded again.
func Layout(m Mapping, collapsed [4]bool, area Rect) [4]Rect {
	var out [4]Rect

	topShown, bottomShown := m[Top].Shown(), m[Bottom].Shown()
	leftShown, rightShown := m[Left].Shown(), m[Right].Shown()
	midShown := leftShown || rightShown

	free := area.H
	weights := 0
	bandHeight := func(shown, isCollapsed bool, weight int) int {
		if !shown {
			return 0
		}
		if isCollapsed {
			free -= collapsedHeight
			return -1
		}
		weights += weight
		return weight
	}
	topW := bandHeight(topShown, collapsed[Top], 1)
	midW := bandHeight(midShown, false, 2)
	bottomW := bandHeight(bottomShown, collapsed[Bottom], 1)
	if free < 0 {
		free = 0
	}

	remaining := free
	size := func(w int, last bool) int {
		switch {
		case w < 0:
			return collapsedHeight
		case w == 0:
			return 0
		case last:
			return remaining
		}
		h := free * w / weights
		remaining -= h
		return h
	}
	// the last expanded band absorbs rounding
	lastExpanded := Bottom
	switch {
	case bottomW > 0:
	case midW > 0:
		lastExpanded = Left
	default:
		lastExpanded = Top
	}
	topH := size(topW, lastExpanded == Top)
	midH := size(midW, lastExpanded == Left)
	bottomH := size(bottomW, lastExpanded == Bottom)

	y := area.Y
	if topShown {
		out[Top] = Rect{X: area.X, Y: y, W: area.W, H: topH}
		y += topH
	}

	if midShown {
		lw, rw := 0, 0
		switch {
		case leftShown && rightShown:
			switch {
			case collapsed[Left] && collapsed[Right]:
				lw, rw = collapsedWidth, collapsedWidth
			case collapsed[Left]:
				lw = collapsedWidth
				rw = area.W - lw
			case collapsed[Right]:
				rw = collapsedWidth
				lw = area.W - rw
			default:
				lw = area.W / 2
				rw = area.W - lw
			}
		case leftShown:
			lw = area.W
			if collapsed[Left] {
				lw = collapsedWidth
			}
		case rightShown:
			rw = area.W
			if collapsed[Right] {
				rw = collapsedWidth
			}
		}
		if leftShown {
			out[Left] = Rect{X: area.X, Y: y, W: lw, H: midH}
		}
		if rightShown {
			out[Right] = Rect{X: area.X + lw, Y: y, W: rw, H: midH}
		}
		y += midH
	}

	if bottomShown {
		out[Bottom] = Rect{X: area.X, Y: y, W: area.W, H: bottomH}
	}
	return out
}
