package boteyes

import "image"

// Intensity values written by the engine. The canvas is single channel.
const (
	ColorBackground uint8 = 0
	ColorForeground uint8 = 255
)

// Mood selects which eyelid overlay is drawn over the base eye shapes.
type Mood uint8

const (
	MoodDefault Mood = iota // plain eyes, no overlay
	MoodTired               // drooping outer eyelids
	MoodAngry               // slanted inner eyelids
	MoodHappy               // lower lid pushed up from below
)

var moodNames = [...]string{"default", "tired", "angry", "happy"}

// String returns the lower-case mood name used by scripts and config files.
func (m Mood) String() string {
	if int(m) < len(moodNames) {
		return moodNames[m]
	}
	return "unknown"
}

// ParseMood converts a mood name back into a Mood.
func ParseMood(s string) (Mood, bool) {
	for i, name := range moodNames {
		if name == s {
			return Mood(i), true
		}
	}
	return MoodDefault, false
}

// Position is a gaze direction. It maps to a target for the left eye; the
// right eye always follows at left.x + left.width + spacing.
type Position uint8

const (
	PositionCenter    Position = iota // middle of the movement range
	PositionNorth                     // top centre
	PositionNorthEast                 // top right corner
	PositionEast                      // middle right
	PositionSouthEast                 // bottom right corner
	PositionSouth                     // bottom centre
	PositionSouthWest                 // bottom left corner
	PositionWest                      // middle left
	PositionNorthWest                 // top left corner
)

var positionNames = [...]string{"center", "n", "ne", "e", "se", "s", "sw", "w", "nw"}

// String returns the short compass name ("center", "n", "ne", ...).
func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return "unknown"
}

// ParsePosition accepts the short compass names returned by String.
func ParsePosition(s string) (Position, bool) {
	for i, name := range positionNames {
		if name == s {
			return Position(i), true
		}
	}
	return PositionCenter, false
}

// target returns the left-eye target for p inside a movement range of
// [0, maxX] x [0, maxY].
func (p Position) target(maxX, maxY int) (x, y int) {
	switch p {
	case PositionNorth:
		return maxX / 2, 0
	case PositionNorthEast:
		return maxX, 0
	case PositionEast:
		return maxX, maxY / 2
	case PositionSouthEast:
		return maxX, maxY
	case PositionSouth:
		return maxX / 2, maxY
	case PositionSouthWest:
		return 0, maxY
	case PositionWest:
		return 0, maxY / 2
	case PositionNorthWest:
		return 0, 0
	default:
		return maxX / 2, maxY / 2
	}
}

// EyeGeometry is the size and corner radius of one eye. The radius is
// clamped at draw time to half of the smaller side.
type EyeGeometry struct {
	Width, Height, Radius int
}

// Rect is an integer axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// NewCanvas allocates a cleared single-channel buffer of the given size.
func NewCanvas(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}
