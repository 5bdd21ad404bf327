package handler

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/formatter"
)

const (
	// DefaultCapacity is the queue capacity used when a sink is added
	// without an explicit one
	DefaultCapacity = 1000
	// DefaultFlushInterval is the minimum time between idle flushes
	DefaultFlushInterval = time.Second
	// DefaultDropNotifyInterval is how long drops accumulate before the
	// sink reports them with a "dropped N entries" line
	DefaultDropNotifyInterval = 5 * time.Second
)

// Config holds the settings shared by every sink
type Config struct {
	// Name identifies the sink in diagnostics (default: "sink")
	Name string
	// Level is the sink's own threshold. The zero value admits everything.
	Level core.Level
	// Capacity bounds the number of queued lines (0 = unbounded)
	Capacity int
	// BufferSize is the write buffer in bytes in front of the destination
	// (0 = every line goes straight to the destination)
	BufferSize int
	// FlushInterval is the minimum time between idle flushes (default: 1s)
	FlushInterval time.Duration
	// DropNotifyInterval is the drop accounting window (default: 5s)
	DropNotifyInterval time.Duration
	// Formatter renders drop notices (default: TextFormatter)
	Formatter formatter.Formatter
	// Clock is the time source for flush and drop bookkeeping (default: time.Now)
	Clock core.Clock
	// Diagnostics receives the sink's own failures (default: no-op logger)
	Diagnostics *zap.Logger
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "sink"
	}
	if cfg.Capacity < 0 {
		cfg.Capacity = 0
	}
	if cfg.BufferSize < 0 {
		cfg.BufferSize = 0
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.DropNotifyInterval <= 0 {
		cfg.DropNotifyInterval = DefaultDropNotifyInterval
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = zap.NewNop()
	}
}

// Sink owns one queue, one destination and the goroutine that moves
// lines from the first to the second.
//
// Add never blocks: a line either fits under the capacity or is counted
// as dropped. Drops surface in the output itself as "dropped N entries"
// lines; there is no other way to observe them.
type Sink struct {
	name               string
	level              core.Level
	capacity           int
	flushInterval      time.Duration
	dropNotifyInterval time.Duration
	formatter          formatter.Formatter
	clock              core.Clock
	diag               *zap.Logger

	queue *core.Queue[core.Line]
	alive atomic.Bool
	state atomic.Int32

	dropMu    sync.Mutex
	dropped   int
	firstDrop time.Time

	// mu serializes access to the destination between the worker and Wait
	mu        sync.Mutex
	dst       zapcore.WriteSyncer
	buf       *bufio.Writer
	scratch   []byte
	unflushed int
	lastFlush time.Time
	failing   bool

	closer    io.Closer
	final     chan string
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// New creates a sink writing to dst and starts its worker goroutine.
// If closer is non-nil the sink owns the destination and closes it on
// teardown; otherwise the destination is left open.
func New(cfg Config, dst zapcore.WriteSyncer, closer io.Closer) *Sink {
	applyDefaults(&cfg)

	s := &Sink{
		name:               cfg.Name,
		level:              cfg.Level,
		capacity:           cfg.Capacity,
		flushInterval:      cfg.FlushInterval,
		dropNotifyInterval: cfg.DropNotifyInterval,
		formatter:          cfg.Formatter,
		clock:              cfg.Clock,
		diag:               cfg.Diagnostics.With(zap.String("sink", cfg.Name)),
		queue:              core.NewQueue[core.Line](),
		dst:                dst,
		scratch:            make([]byte, 0, 256),
		closer:             closer,
		final:              make(chan string, 1),
		done:               make(chan struct{}),
	}
	if cfg.BufferSize > 0 {
		s.buf = bufio.NewWriterSize(dst, cfg.BufferSize)
	}

	s.alive.Store(true)
	s.state.Store(int32(StateRunning))
	go s.process()

	return s
}

// Name returns the sink name used in diagnostics
func (s *Sink) Name() string {
	return s.name
}

// Level returns the sink's own threshold
func (s *Sink) Level() core.Level {
	return s.level
}

// Enabled reports whether a record at level passes the sink's threshold
func (s *Sink) Enabled(level core.Level) bool {
	return level >= s.level
}

// Capacity returns the queue capacity (0 = unbounded)
func (s *Sink) Capacity() int {
	return s.capacity
}

// State returns the current lifecycle state
func (s *Sink) State() State {
	return State(s.state.Load())
}

// Add enqueues a line, or counts it as dropped when the queue is at
// capacity. Lines added after teardown began are discarded silently.
func (s *Sink) Add(line core.Line) {
	if !s.alive.Load() {
		return
	}
	if s.queue.TryPush(line, s.capacity) {
		return
	}
	s.recordDrop(line.Time)
}

// recordDrop counts one dropped line observed at t. The first drop of a
// run opens the window; a drop arriving after the window has elapsed
// emits the notice, which bypasses the capacity, and starts a new run.
func (s *Sink) recordDrop(t time.Time) {
	s.dropMu.Lock()
	defer s.dropMu.Unlock()

	s.dropped++
	if s.dropped == 1 {
		s.firstDrop = t
		return
	}
	if t.Sub(s.firstDrop) <= s.dropNotifyInterval {
		return
	}
	n := s.dropped
	s.dropped = 0
	s.queue.Push(core.Line{Text: s.formatter.FormatDropped(t, n), Time: t, Dropped: n})
}

// dueNotice takes the outstanding drops if their window has elapsed by
// now. The worker calls it when idle, so a burst of drops is reported
// even if no further line ever arrives.
func (s *Sink) dueNotice(now time.Time) (string, bool) {
	s.dropMu.Lock()
	defer s.dropMu.Unlock()

	if s.dropped == 0 || now.Sub(s.firstDrop) <= s.dropNotifyInterval {
		return "", false
	}
	n := s.dropped
	s.dropped = 0
	return s.formatter.FormatDropped(now, n), true
}

// Wait blocks until every line queued so far has been written, then
// flushes the destination. There is no deadline: a stalled destination
// stalls Wait.
func (s *Sink) Wait() {
	s.queue.Join()

	s.mu.Lock()
	if s.alive.Load() {
		s.flushLocked()
	}
	s.mu.Unlock()
}

// process is the worker loop. It is the only reader of the queue.
func (s *Sink) process() {
	defer close(s.done)

	for {
		line, ok := s.queue.PopTimeout(s.flushInterval)
		if !ok {
			if s.queue.Closed() {
				s.finish(<-s.final)
				return
			}
			// Idle for a whole interval
			s.mu.Lock()
			if notice, due := s.dueNotice(s.clock()); due {
				s.writeLocked(notice)
			}
			if s.unflushed > 0 {
				s.flushLocked()
			}
			s.mu.Unlock()
			continue
		}

		s.mu.Lock()
		s.writeLocked(line.Text)
		if s.queue.Size() == 0 && s.unflushed > 0 && s.clock().Sub(s.lastFlush) > s.flushInterval {
			s.flushLocked()
		}
		s.mu.Unlock()
		s.queue.Done()
	}
}

// finish writes the teardown notice, if any, as the last line
func (s *Sink) finish(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notice != "" {
		s.writeLocked(notice)
	}
	s.flushLocked()
}

func (s *Sink) writeLocked(text string) {
	s.scratch = append(s.scratch[:0], text...)
	s.scratch = append(s.scratch, '\n')

	var err error
	if s.buf != nil {
		_, err = s.buf.Write(s.scratch)
	} else {
		_, err = s.dst.Write(s.scratch)
	}
	if err != nil {
		s.fail("write", err)
		return
	}

	s.unflushed++
	s.markHealthy()
}

func (s *Sink) flushLocked() {
	s.unflushed = 0
	s.lastFlush = s.clock()

	if s.buf != nil {
		if err := s.buf.Flush(); err != nil {
			s.fail("flush", err)
			return
		}
	}
	if err := s.dst.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
		// Terminals and pipes reject fsync with EINVAL; that is not a failure.
		s.fail("sync", err)
		return
	}
}

// fail reports a destination error once per failure streak. A bufio
// writer keeps its first error forever, so it is reset to let later
// lines through once the destination recovers.
func (s *Sink) fail(op string, err error) {
	if s.buf != nil {
		s.buf.Reset(s.dst)
	}
	if s.failing {
		return
	}
	s.failing = true
	s.diag.Warn("sink destination failed", zap.String("op", op), zap.Error(err))
}

func (s *Sink) markHealthy() {
	if s.failing {
		s.failing = false
		s.diag.Info("sink destination recovered")
	}
}

// Close tears the sink down: it stops accepting lines, discards what is
// still queued, writes a final drop notice covering everything that
// never reached the destination, waits for the worker to exit and
// closes an owned destination. Calls after the first return nil.
func (s *Sink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.alive.Store(false)
		s.state.Store(int32(StateDraining))

		// Drop notices are pushed under dropMu, so one that is still
		// queued is folded back into the final count here.
		s.dropMu.Lock()
		n := s.dropped
		for _, line := range s.queue.ShutdownItems() {
			if line.Dropped > 0 {
				n += line.Dropped
			} else {
				n++
			}
		}
		s.dropped = 0
		s.dropMu.Unlock()

		var notice string
		if n > 0 {
			notice = s.formatter.FormatDropped(s.clock(), n)
		}
		s.final <- notice
		<-s.done

		if s.closer != nil {
			err = s.closer.Close()
			if err != nil {
				s.diag.Warn("sink close failed", zap.Error(err))
			}
		}
		s.state.Store(int32(StateStopped))
	})
	return err
}
