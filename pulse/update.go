package pulse

import (
	"sync"
)

// DeviceUpdate tracks the work belonging to one frame. Work is announced
// with Enqueue while the update is running, Finish blocks until every
// announced piece of work reported back as done.
type DeviceUpdate struct {
	mu      sync.Mutex
	pending sync.WaitGroup
	running bool
}

func NewDeviceUpdate() *DeviceUpdate {
	return &DeviceUpdate{}
}

func (u *DeviceUpdate) Start() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.running = true
}

// Enqueue announces a piece of work for the running frame. The returned
// function must be called once the work is complete, calling it more than
// once has no effect. Returns false if the update is not running.
func (u *DeviceUpdate) Enqueue() (done func(), ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.running {
		return func() {}, false
	}

	u.pending.Add(1)

	return sync.OnceFunc(u.pending.Done), true
}

// Finish stops accepting new work and waits for the work already enqueued.
func (u *DeviceUpdate) Finish() {
	u.mu.Lock()
	u.running = false
	u.mu.Unlock()

	u.pending.Wait()
}

func (u *DeviceUpdate) Running() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.running
}
