package glimpse

import (
	"golang.org/x/exp/constraints"
)

// Event is a window or input event, translated from the native windowing
// system at the platform boundary. The set of implementations is closed.
type Event interface {
	isEvent()
}

type MouseButton uint32

// Button ids as understood by the script side input system.
const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonMiddle MouseButton = 1
	MouseButtonRight  MouseButton = 2
)

type WheelAxis uint32

const (
	WheelX WheelAxis = iota
	WheelY
	WheelZ
)

// WheelDeltaPerNotch is the raw wheel delta reported for one detent of a
// standard mouse wheel.
const WheelDeltaPerNotch = 120

// MousePointerID is the pointer id used for the system mouse.
const MousePointerID = 1

type PointerType uint8

const (
	PointerUnknown PointerType = iota
	PointerMouse
	PointerTouch
	PointerPen
)

// ButtonChange describes which mouse button transitioned with a pointer event.
type ButtonChange uint8

const (
	ButtonChangeNone ButtonChange = iota
	ButtonChangeFirstDown
	ButtonChangeFirstUp
	ButtonChangeSecondDown
	ButtonChangeSecondUp
	ButtonChangeThirdDown
	ButtonChangeThirdUp
)

// Pointer is the common payload of pointer events.
type Pointer struct {
	// platform assigned id, stable for the duration of one contact
	ID     int32
	Type   PointerType
	X, Y   int32
	Change ButtonChange
}

type PointerDown struct{ Pointer }

type PointerMove struct{ Pointer }

type PointerUp struct{ Pointer }

// Wheel carries the raw vertical wheel delta, positive when scrolling away
// from the user.
type Wheel struct {
	Delta float64
}

type KeyInput struct {
	Key    Key
	Down   bool
	Repeat bool
}

type Resize struct {
	Width, Height uint32
}

type Minimize struct {
	Minimized bool
}

type Close struct{}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Wheel) isEvent()       {}
func (KeyInput) isEvent()    {}
func (Resize) isEvent()      {}
func (Minimize) isEvent()    {}
func (Close) isEvent()       {}

// pixel rounds a coordinate reported by the windowing system to a whole pixel.
func pixel[T constraints.Float](value T) int32 {
	if value < 0 {
		return int32(value - 0.5)
	}

	return int32(value + 0.5)
}

// extent converts a possibly negative size to an unsigned pixel count.
func extent[T constraints.Integer](value T) uint32 {
	return uint32(max(value, 0))
}
