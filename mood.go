package boteyes

import "image"

// eyelids holds the tweened overlay sizes for the three mood styles.
type eyelids struct {
	tired Tweened // wedge height
	angry Tweened // wedge height
	happy Tweened // bottom lid offset
}

// retarget points the overlay for mood at half the default eye height and
// sends every other overlay back to zero.
func (l *eyelids) retarget(mood Mood, defaultHeight int) {
	half := defaultHeight / 2
	l.tired.Next, l.angry.Next, l.happy.Next = 0, 0, 0
	switch mood {
	case MoodTired:
		l.tired.Next = half
	case MoodAngry:
		l.angry.Next = half
	case MoodHappy:
		l.happy.Next = half
	}
}

func (l *eyelids) step() {
	l.tired.Step()
	l.angry.Step()
	l.happy.Step()
}

// eyeFrame is where one eye is drawn this frame.
type eyeFrame struct {
	x, y, width, height, radius int
}

// triangle is a filled wedge in canvas coordinates.
type triangle struct {
	x1, y1, x2, y2, x3, y3 int
}

// wedges returns the eyelid triangles for a tired or angry mood. Wedges hang
// from one pixel above the eye top. With a single eye, each style is split
// into two half-width wedges so the one eye still reads as the mood.
func wedges(mood Mood, left, right eyeFrame, lid int, cyclops bool) []triangle {
	top := func(e eyeFrame) int { return e.y - 1 }
	tip := func(e eyeFrame) int { return e.y + lid - 1 }

	switch mood {
	case MoodTired:
		if !cyclops {
			return []triangle{
				{left.x, top(left), left.x + left.width, top(left), left.x, tip(left)},
				{right.x, top(right), right.x + right.width, top(right), right.x + right.width, tip(right)},
			}
		}
		mid := left.x + left.width/2
		return []triangle{
			{left.x, top(left), mid, top(left), left.x, tip(left)},
			{mid, top(left), left.x + left.width, top(left), left.x + left.width, tip(left)},
		}
	case MoodAngry:
		if !cyclops {
			return []triangle{
				{left.x, top(left), left.x + left.width, top(left), left.x + left.width, tip(left)},
				{right.x, top(right), right.x + right.width, top(right), right.x, tip(right)},
			}
		}
		mid := left.x + left.width/2
		return []triangle{
			{left.x, top(left), mid, top(left), mid, tip(left)},
			{mid, top(left), left.x + left.width, top(left), mid, tip(left)},
		}
	}
	return nil
}

// happyLid returns the background-coloured lid that covers the lower part of
// e. It is one pixel wider on each side than the eye so the eye's rounded
// corners are fully covered.
func happyLid(e eyeFrame, offset int) eyeFrame {
	return eyeFrame{
		x:      e.x - 1,
		y:      e.y + e.height - offset + 1,
		width:  e.width + 2,
		height: e.height,
		radius: e.radius,
	}
}

// drawOverlays erases the mood overlays from dst.
func (l *eyelids) drawOverlays(dst *image.Gray, mood Mood, left, right eyeFrame, cyclops bool) {
	switch mood {
	case MoodTired:
		for _, t := range wedges(mood, left, right, l.tired.Cur, cyclops) {
			FillTriangle(dst, t.x1, t.y1, t.x2, t.y2, t.x3, t.y3, ColorBackground)
		}
	case MoodAngry:
		for _, t := range wedges(mood, left, right, l.angry.Cur, cyclops) {
			FillTriangle(dst, t.x1, t.y1, t.x2, t.y2, t.x3, t.y3, ColorBackground)
		}
	case MoodHappy:
		eyes := []eyeFrame{left, right}
		if cyclops {
			eyes = eyes[:1]
		}
		for _, e := range eyes {
			lid := happyLid(e, l.happy.Cur)
			FillRoundedRect(dst, lid.x, lid.y, lid.width, lid.height, lid.radius, ColorBackground)
		}
	}
}
