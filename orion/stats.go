package orion

import (
	"log/slog"
	"runtime"
	"time"
)

// statsInterval is the number of frames between two summaries
const statsInterval = 60 * 10

type frameTiming struct {
	Total time.Duration

	// time spent waiting in FinishFrame
	Finish time.Duration
}

// frameStats records the timings of the most recent frames in a ring
// buffer and periodically logs a summary.
type frameStats struct {
	frameCount int
	frames     [statsInterval]frameTiming

	timeStartFrame  time.Time
	timeStartFinish time.Time

	mem runtime.MemStats
}

func (s *frameStats) StartFinish() {
	s.timeStartFinish = time.Now()
}

// EndFinish closes the frame that started at the previous call. Returns
// true every statsInterval frames.
func (s *frameStats) EndFinish() bool {
	now := time.Now()

	if !s.timeStartFrame.IsZero() {
		s.frames[s.frameCount%len(s.frames)] = frameTiming{
			Total:  now.Sub(s.timeStartFrame),
			Finish: now.Sub(s.timeStartFinish),
		}

		s.frameCount += 1
	}

	s.timeStartFrame = now

	return s.frameCount > 0 && s.frameCount%statsInterval == 0
}

// Reset forgets the start of the current frame, e.g. after the pacer was
// blocked while minimized.
func (s *frameStats) Reset() {
	s.timeStartFrame = time.Time{}
}

func (s *frameStats) summary() (fps float64, average, maximum, finish time.Duration) {
	var frameCount int
	var totalTime, finishTime time.Duration

	for _, frame := range s.frames {
		if frame.Total > 0 {
			frameCount += 1
			totalTime += frame.Total
			finishTime += frame.Finish
			maximum = max(maximum, frame.Total)
		}
	}

	if frameCount == 0 {
		return 0, 0, 0, 0
	}

	average = totalTime / time.Duration(frameCount)
	finish = finishTime / time.Duration(frameCount)

	return 1.0 / average.Seconds(), average, maximum, finish
}

func (s *frameStats) Log() {
	runtime.ReadMemStats(&s.mem)

	fps, average, maximum, finish := s.summary()

	slog.Debug("Frame stats",
		slog.Int("frames", s.frameCount),
		slog.Float64("fps", fps),
		slog.Duration("average", average),
		slog.Duration("max", maximum),
		slog.Duration("finish", finish),
		slog.Uint64("heapObjects", s.mem.HeapObjects),
		slog.Uint64("heapInUse", s.mem.HeapInuse),
		slog.Uint64("gcCycles", uint64(s.mem.NumGC)),
	)
}
