package orion

import (
	"errors"

	"github.com/oliverbestmann/nativehost/pulse"
)

var (
	ErrWindowCreationFailed = errors.New("window creation failed")
	ErrDeviceCreationFailed = errors.New("device creation failed")
	ErrScriptLoadFailed     = errors.New("script load failed")
	ErrAlreadyInitialized   = errors.New("already initialized")
)

// contract errors of the graphics session
var (
	ErrInvalidSize     = pulse.ErrInvalidSize
	ErrFrameInFlight   = pulse.ErrFrameInFlight
	ErrNoFrameInFlight = pulse.ErrNoFrameInFlight
)
