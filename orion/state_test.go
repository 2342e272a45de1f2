package orion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlot(t *testing.T) {
	var s slot[*fakeGraphics]
	assert.False(t, s.has())

	g := &fakeGraphics{}
	s.set(g)

	value, ok := s.get()
	assert.True(t, ok)
	assert.Same(t, g, value)

	assert.Panics(t, func() { s.set(&fakeGraphics{}) })

	value, ok = s.take()
	assert.True(t, ok)
	assert.Same(t, g, value)
	assert.False(t, s.has())

	value, ok = s.take()
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestFrameStatsSummary(t *testing.T) {
	var stats frameStats

	stats.frames[0] = frameTiming{Total: 10 * time.Millisecond, Finish: 2 * time.Millisecond}
	stats.frames[1] = frameTiming{Total: 30 * time.Millisecond, Finish: 4 * time.Millisecond}

	fps, average, maximum, finish := stats.summary()
	assert.InDelta(t, 50.0, fps, 1e-6)
	assert.Equal(t, 20*time.Millisecond, average)
	assert.Equal(t, 30*time.Millisecond, maximum)
	assert.Equal(t, 3*time.Millisecond, finish)
}

func TestFrameStatsInterval(t *testing.T) {
	var stats frameStats

	var reports int
	for range statsInterval*2 + 1 {
		stats.StartFinish()
		if stats.EndFinish() {
			reports++
		}
	}

	// the first call only marks the start of the first frame
	assert.Equal(t, 2, reports)
	assert.Equal(t, statsInterval*2, stats.frameCount)
}
