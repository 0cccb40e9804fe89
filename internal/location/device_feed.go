package location

import (
	"context"
	"sync"
	"time"
)

// DeviceFeed is a Provider fed by position fixes the mobile app
// publishes over Pub/Sub. Fixes are routed to watches by task id with
// the interval/min-distance filters applied per watch.
type DeviceFeed struct {
	mu         sync.Mutex
	granted    bool
	nextHandle int64
	watches    map[int64]*watch
}

type watch struct {
	taskID      string
	interval    time.Duration
	minDistance float64
	fn          func(Position)
	lastAt      time.Time
	lastPos     *Position
}

// NewDeviceFeed creates a feed; permission is assumed granted until the
// device reports otherwise
func NewDeviceFeed() *DeviceFeed {
	return &DeviceFeed{
		granted: true,
		watches: make(map[int64]*watch),
	}
}

func (f *DeviceFeed) RequestPermission(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.granted, nil
}

// SetPermission records the permission state the device reported
func (f *DeviceFeed) SetPermission(granted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = granted
}

func (f *DeviceFeed) Watch(taskID string, interval time.Duration, minDistanceMeters float64, fn func(Position)) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextHandle++
	f.watches[f.nextHandle] = &watch{
		taskID:      taskID,
		interval:    interval,
		minDistance: minDistanceMeters,
		fn:          fn,
	}
	return f.nextHandle, nil
}

func (f *DeviceFeed) Unwatch(handle int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.watches, handle)
}

// Deliver routes a published fix to the watches tracking its task.
// Fixes arriving faster than the watch interval, or closer than the
// minimum distance to the previous accepted fix, are dropped.
func (f *DeviceFeed) Deliver(taskID string, pos Position) {
	if pos.At.IsZero() {
		pos.At = time.Now()
	}

	f.mu.Lock()
	var callbacks []func(Position)
	for _, w := range f.watches {
		if w.taskID != taskID {
			continue
		}
		if !w.lastAt.IsZero() && pos.At.Sub(w.lastAt) < w.interval {
			continue
		}
		if w.lastPos != nil {
			moved := DistanceMeters(w.lastPos.Latitude, w.lastPos.Longitude, pos.Latitude, pos.Longitude)
			if moved < w.minDistance {
				continue
			}
		}
		w.lastAt = pos.At
		accepted := pos
		w.lastPos = &accepted
		callbacks = append(callbacks, w.fn)
	}
	f.mu.Unlock()

	// Invoke outside the lock: a callback may stop tracking, which
	// re-enters the feed via Unwatch
	for _, fn := range callbacks {
		fn(pos)
	}
}
