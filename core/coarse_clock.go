package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock returns the current time. Loggers and sinks take a Clock so that
// tests and hot paths can swap the time source.
type Clock func() time.Time

// SystemClock is the default Clock
var SystemClock Clock = time.Now

var (
	coarseClockOnce sync.Once
	coarseNow       atomic.Pointer[time.Time]
)

// CoarseClock returns a Clock that reads a cached time.Time refreshed
// every 500µs by a background goroutine. The goroutine is started on the
// first call and runs for the lifetime of the process. Record timestamps
// are rendered with one second resolution, so the staleness never shows.
func CoarseClock() Clock {
	coarseClockOnce.Do(func() {
		t := time.Now()
		coarseNow.Store(&t)
		go func() {
			ticker := time.NewTicker(500 * time.Microsecond)
			for range ticker.C {
				t := time.Now()
				coarseNow.Store(&t)
			}
		}()
	})
	return coarseTime
}

func coarseTime() time.Time {
	return *coarseNow.Load()
}
