package boteyes

import "image"

// SweatRegion is the horizontal band of the screen a drop spawns in.
type SweatRegion uint8

const (
	SweatLeft   SweatRegion = iota // first 30 px
	SweatCenter                    // between the outer bands
	SweatRight                     // last 30 px
)

const (
	sweatBand   = 30 // width of the left and right spawn bands
	sweatRadius = 3
	sweatStartY = 2.0
	sweatStep   = 0.5
)

// SweatDrop is one falling droplet. It grows during the first half of its
// fall, shrinks during the second, and asks to be reset once it passes yMax.
type SweatDrop struct {
	region  SweatRegion
	anchorX int // horizontal centre the drop stays on while resizing
	x, y    float32
	yMax    int
	width   float32
	height  float32
}

// newSweatDrop places a drop at a random anchor inside its region.
func newSweatDrop(screenWidth int, region SweatRegion, rng Rand) SweatDrop {
	d := SweatDrop{region: region}
	d.reset(screenWidth, rng)
	return d
}

// reset re-seeds the drop inside its region and restarts its fall.
func (d *SweatDrop) reset(screenWidth int, rng Rand) {
	switch d.region {
	case SweatLeft:
		d.anchorX = randN(rng, sweatBand)
	case SweatCenter:
		span := screenWidth - 2*sweatBand
		if span > 0 {
			d.anchorX = sweatBand + randN(rng, span)
		} else {
			d.anchorX = screenWidth / 2
		}
	default:
		d.anchorX = screenWidth - sweatBand + randN(rng, sweatBand)
	}
	d.yMax = 10 + randN(rng, 10)
	d.x = float32(d.anchorX)
	d.y = sweatStartY
	d.width = 1
	d.height = 2
}

// update advances the drop one frame. It returns true when the drop has
// finished its fall and needs a reset.
func (d *SweatDrop) update() bool {
	done := int(d.y) > d.yMax
	if !done {
		d.y += sweatStep
	}

	if int(d.y) <= d.yMax/2 {
		d.width += 0.5
		d.height += 0.5
	} else {
		d.width = max(d.width-0.1, float32(0))
		d.height = max(d.height-0.5, float32(0))
	}

	d.x = float32(d.anchorX) - d.width/2
	return done
}

// Bounds returns the integer rectangle the drop is drawn in.
func (d *SweatDrop) Bounds() Rect {
	return Rect{X: int(d.x), Y: int(d.y), Width: int(d.width), Height: int(d.height)}
}

// Anchor returns the drop's horizontal centre.
func (d *SweatDrop) Anchor() int {
	return d.anchorX
}

// Region returns the spawn band the drop belongs to.
func (d *SweatDrop) Region() SweatRegion {
	return d.region
}

// sweatDrops animates the three forehead drops.
type sweatDrops [3]SweatDrop

func newSweatDrops(screenWidth int, rng Rand) sweatDrops {
	return sweatDrops{
		newSweatDrop(screenWidth, SweatLeft, rng),
		newSweatDrop(screenWidth, SweatCenter, rng),
		newSweatDrop(screenWidth, SweatRight, rng),
	}
}

// step updates and draws every drop, offset by origin. Drops that finished
// their fall are re-seeded before drawing; reset is called with the drop's
// new anchor.
func (s *sweatDrops) step(dst *image.Gray, origin image.Point, screenWidth int, rng Rand, c uint8, reset func(anchor int)) {
	for i := range s {
		d := &s[i]
		if d.update() {
			d.reset(screenWidth, rng)
			if reset != nil {
				reset(d.anchorX)
			}
		}
		r := d.Bounds()
		FillRoundedRect(dst, origin.X+r.X, origin.Y+r.Y, r.Width, r.Height, sweatRadius, c)
	}
}
