package glimpse

import "strings"

//go:generate go tool stringer -type=Key

// Key identifies a physical key independent of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// ParseKey looks up a key by its name, with or without the "Key" prefix.
// Matching ignores case, so "r", "R" and "KeyR" all return KeyR.
func ParseKey(name string) (Key, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), "key")

	for key := KeyEscape; key <= KeyZ; key++ {
		if strings.ToLower(strings.TrimPrefix(key.String(), "Key")) == name {
			return key, true
		}
	}

	return KeyUnknown, false
}
