package boteyes

import "image"

// FillRoundedRect fills the w x h box whose top-left corner is (x, y) with
// intensity c. Pixels outside dst are skipped. The corner radius is clamped
// to min(radius, w/2, h/2); a pixel inside a corner's bounding square is left
// untouched when its squared distance from the rounding centre exceeds
// radius².
func FillRoundedRect(dst *image.Gray, x, y, w, h, radius int, c uint8) {
	if w <= 0 || h <= 0 {
		return
	}
	radius = clampRadius(radius, w, h)

	b := dst.Bounds()
	x0, x1 := max(x, b.Min.X), min(x+w, b.Max.X)
	y0, y1 := max(y, b.Min.Y), min(y+h, b.Max.Y)

	for py := y0; py < y1; py++ {
		row := dst.Pix[(py-b.Min.Y)*dst.Stride:]
		dy := py - y
		for px := x0; px < x1; px++ {
			if outsideCorner(px-x, dy, w, h, radius) {
				continue
			}
			row[px-b.Min.X] = c
		}
	}
}

// clampRadius limits a corner radius so opposite corners never overlap.
func clampRadius(radius, w, h int) int {
	return max(0, min(radius, w/2, h/2))
}

// outsideCorner reports whether the box-relative pixel (dx, dy) falls in
// one of the four rounded-off corner regions of a w x h box.
func outsideCorner(dx, dy, w, h, r int) bool {
	if r == 0 {
		return false
	}
	var cx, cy int
	switch {
	case dx < r && dy < r:
		cx, cy = r-dx, r-dy
	case dx >= w-r && dy < r:
		cx, cy = dx-(w-r), r-dy
	case dx < r && dy >= h-r:
		cx, cy = r-dx, dy-(h-r)
	case dx >= w-r && dy >= h-r:
		cx, cy = dx-(w-r), dy-(h-r)
	default:
		return false
	}
	return cx*cx+cy*cy > r*r
}

// FillTriangle fills the triangle (x1,y1) (x2,y2) (x3,y3) with intensity c.
// Membership uses barycentric weights relative to the first vertex: a pixel
// is filled when both weights are >= 0 and their sum is <= 1. The test is
// evaluated in exact integer arithmetic, so the filled set does not depend
// on vertex order. Degenerate triangles fill nothing.
func FillTriangle(dst *image.Gray, x1, y1, x2, y2, x3, y3 int, c uint8) {
	e1x, e1y := x2-x1, y2-y1
	e2x, e2y := x3-x1, y3-y1
	det := e1x*e2y - e2x*e1y
	if det == 0 {
		return
	}

	b := dst.Bounds()
	minX := max(min(x1, x2, x3), b.Min.X)
	maxX := min(max(x1, x2, x3), b.Max.X-1)
	minY := max(min(y1, y2, y3), b.Min.Y)
	maxY := min(max(y1, y2, y3), b.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		row := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		py := y - y1
		for x := minX; x <= maxX; x++ {
			px := x - x1
			// u = su/det, v = sv/det
			su := px*e2y - py*e2x
			sv := e1x*py - e1y*px
			if insideBarycentric(su, sv, det) {
				row[x-b.Min.X] = c
			}
		}
	}
}

// insideBarycentric evaluates u >= 0, v >= 0, u+v <= 1 for u = su/det and
// v = sv/det without dividing.
func insideBarycentric(su, sv, det int) bool {
	if det > 0 {
		return su >= 0 && sv >= 0 && su+sv <= det
	}
	return su <= 0 && sv <= 0 && su+sv >= det
}

// fillCanvas sets every pixel inside dst's bounds to c.
func fillCanvas(dst *image.Gray, c uint8) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			row[x] = c
		}
	}
}
