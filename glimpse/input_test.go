package glimpse

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	for _, name := range []string{"r", "R", "KeyR", "keyr"} {
		key, ok := ParseKey(name)
		require.True(t, ok, name)
		assert.Equal(t, KeyR, key, name)
	}

	key, ok := ParseKey("F5")
	require.True(t, ok)
	assert.Equal(t, KeyF5, key)

	_, ok = ParseKey("Unknown")
	assert.False(t, ok)

	_, ok = ParseKey("")
	assert.False(t, ok)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "KeyEscape", KeyEscape.String())
	assert.Equal(t, "KeyZ", KeyZ.String())
	assert.Equal(t, "Key(-1)", Key(-1).String())
}

func TestPixel(t *testing.T) {
	assert.Equal(t, int32(3), pixel(2.5))
	assert.Equal(t, int32(2), pixel(float32(2.4)))
	assert.Equal(t, int32(-3), pixel(-2.5))
	assert.Equal(t, uint32(0), extent(-4))
	assert.Equal(t, uint32(640), extent(640))
}

func TestButtonChangeOf(t *testing.T) {
	assert.Equal(t, ButtonChangeFirstDown, buttonChangeOf(glfw.MouseButtonLeft, glfw.Press))
	assert.Equal(t, ButtonChangeFirstUp, buttonChangeOf(glfw.MouseButtonLeft, glfw.Release))
	assert.Equal(t, ButtonChangeSecondDown, buttonChangeOf(glfw.MouseButtonRight, glfw.Press))
	assert.Equal(t, ButtonChangeThirdUp, buttonChangeOf(glfw.MouseButtonMiddle, glfw.Release))
	assert.Equal(t, ButtonChangeNone, buttonChangeOf(glfw.MouseButton5, glfw.Press))
}
