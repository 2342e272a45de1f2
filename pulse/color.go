package pulse

// ColorDefaultClear is the color a frame is cleared to until a script
// sets its own.
var ColorDefaultClear = ColorLinearRGBA(0.2, 0.2, 0.3, 1)

// Color is an a straight rgba color value with alpha.
// The default value of a Color value is fully opaque white.
type Color struct {
	r1, g1, b1, a1 float32
}

// ColorLinearRGBA creates a new Color value from the given color values.
func ColorLinearRGBA(r, g, b, a float32) Color {
	return Color{
		r1: r - 1,
		g1: g - 1,
		b1: b - 1,
		a1: a - 1,
	}
}

// Components returns the color components.
func (c Color) Components() (r, g, b, a float32) {
	return c.r1 + 1, c.g1 + 1, c.b1 + 1, c.a1 + 1
}
