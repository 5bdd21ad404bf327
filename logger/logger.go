package logger

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/formatter"
	"github.com/philipp01105/loggy/handler"
	"github.com/philipp01105/loggy/handler/consolehandler"
	"github.com/philipp01105/loggy/handler/filehandler"
)

// Logger filters records against a global threshold, formats each
// admitted record once and fans the line out to its sinks.
//
// While no sink is registered every record goes to the built-in default
// sink. Registering a sink moves all later records away from the
// default; ResetSinks hands them back.
type Logger struct {
	level     atomic.Int32
	formatter atomic.Pointer[formatter.TextFormatter]

	clock         core.Clock
	diag          *zap.Logger
	includeCaller bool
	callerSkip    int

	// mu guards the registry. It is never held while writing.
	mu     sync.Mutex
	sinks  []*handler.Sink
	def    *handler.Sink
	closed bool
}

// IsLevel reports whether a record at level passes the global threshold.
// Call sites check it before building a message.
func (l *Logger) IsLevel(level core.Level) bool {
	return int32(level) >= l.level.Load()
}

// SetLevel replaces the global threshold for future records
func (l *Logger) SetLevel(level core.Level) {
	l.level.Store(int32(level))
}

// Level returns the global threshold
func (l *Logger) Level() core.Level {
	return core.Level(l.level.Load())
}

// SetTimeFormat replaces the timestamp layout used for future records
// and for drop notices of sinks added afterwards.
func (l *Logger) SetTimeFormat(layout string) {
	l.formatter.Store(formatter.NewTextFormatter(formatter.Config{TimestampFormat: layout}))
}

// SinkConfig returns a handler configuration carrying the Logger's
// formatter and diagnostics, for sinks built outside AddWriter and AddFile.
func (l *Logger) SinkConfig(level core.Level, capacity int) handler.Config {
	return handler.Config{
		Level:       level,
		Capacity:    capacity,
		Formatter:   l.formatter.Load(),
		Diagnostics: l.diag,
	}
}

// AddSink registers a sink. From now on records go to the registered
// sinks whose own threshold they meet, and no longer to the default.
// A sink added to a closed Logger is torn down immediately.
func (l *Logger) AddSink(s *handler.Sink) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.diag.Warn("sink added to closed logger", zap.String("sink", s.Name()))
		_ = s.Close()
		return
	}
	l.sinks = append(l.sinks, s)
	l.mu.Unlock()
}

// AddWriter registers a sink writing to w, which is not closed when the
// sink is torn down. A capacity of 0 means unbounded.
func (l *Logger) AddWriter(w io.Writer, level core.Level, capacity int) {
	l.AddSink(consolehandler.New(consolehandler.Config{
		Writer: w,
		Config: l.SinkConfig(level, capacity),
	}))
}

// AddFile registers a sink appending to the file at path. Nothing is
// registered if the file cannot be opened.
func (l *Logger) AddFile(path string, level core.Level, capacity int) error {
	s, err := filehandler.New(filehandler.Config{
		Filename: path,
		Config:   l.SinkConfig(level, capacity),
	})
	if err != nil {
		return fmt.Errorf("add file sink: %w", err)
	}
	l.AddSink(s)
	return nil
}

// Sinks returns a snapshot of the registered sinks, excluding the default
func (l *Logger) Sinks() []*handler.Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*handler.Sink(nil), l.sinks...)
}

// ResetSinks removes every registered sink and tears each one down,
// returning the default sink to sole duty. Calling it with nothing
// registered is a no-op.
func (l *Logger) ResetSinks() error {
	return l.ReplaceSinks(nil)
}

// ReplaceSinks swaps the registry for sinks in one step, so no record
// falls back to the default sink in between, then tears the previous
// sinks down. On a closed Logger the new sinks are torn down instead.
func (l *Logger) ReplaceSinks(sinks []*handler.Sink) error {
	l.mu.Lock()
	if l.closed && len(sinks) > 0 {
		l.mu.Unlock()
		l.diag.Warn("sinks added to closed logger", zap.Int("count", len(sinks)))
		return closeAll(sinks)
	}
	old := l.sinks
	l.sinks = append([]*handler.Sink(nil), sinks...)
	l.mu.Unlock()

	err := closeAll(old)
	if err != nil {
		l.diag.Warn("sink teardown failed", zap.Error(err))
	}
	return err
}

func closeAll(sinks []*handler.Sink) error {
	var err error
	for _, s := range sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// snapshot returns the sinks a record is fanned out to
func (l *Logger) snapshot() []*handler.Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sinks) > 0 {
		return l.sinks
	}
	if l.def != nil {
		return []*handler.Sink{l.def}
	}
	return nil
}

// Dispatch formats rec once and hands the line to every sink whose
// threshold it meets. Records below the global threshold are ignored.
func (l *Logger) Dispatch(rec core.Record) {
	if !l.IsLevel(rec.Level) {
		return
	}

	sinks := l.snapshot()
	if len(sinks) == 0 {
		return
	}

	line := core.Line{Text: l.formatter.Load().Format(rec), Time: rec.Time}
	for _, s := range sinks {
		if s.Enabled(rec.Level) {
			s.Add(line)
		}
	}
}

// Flush blocks until every active sink has written and flushed what was
// queued before the call. There is no deadline.
func (l *Logger) Flush() {
	for _, s := range l.snapshot() {
		s.Wait()
	}
}

// Close tears down every sink including the default. Records dispatched
// afterwards are discarded.
func (l *Logger) Close() error {
	l.mu.Lock()
	l.closed = true
	def := l.def
	l.def = nil
	l.mu.Unlock()

	err := l.ResetSinks()
	if def != nil {
		err = multierr.Append(err, def.Close())
	}
	return err
}

// log builds a record for the caller of a helper and dispatches it
func (l *Logger) log(level core.Level, msg string) {
	rec := core.Record{
		Level:   level,
		Time:    l.clock(),
		Message: msg,
	}
	if l.includeCaller {
		rec.Caller = core.GetCaller(l.callerSkip)
	}
	l.Dispatch(rec)
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string) {
	if !l.IsLevel(level) {
		return
	}
	l.log(level, msg)
}

// Trace logs a trace message
func (l *Logger) Trace(args ...any) {
	if !l.IsLevel(core.TraceLevel) {
		return
	}
	l.log(core.TraceLevel, fmt.Sprint(args...))
}

// Debug logs a debug message
func (l *Logger) Debug(args ...any) {
	if !l.IsLevel(core.DebugLevel) {
		return
	}
	l.log(core.DebugLevel, fmt.Sprint(args...))
}

// Info logs an info message
func (l *Logger) Info(args ...any) {
	if !l.IsLevel(core.InfoLevel) {
		return
	}
	l.log(core.InfoLevel, fmt.Sprint(args...))
}

// Warn logs a warning message
func (l *Logger) Warn(args ...any) {
	if !l.IsLevel(core.WarnLevel) {
		return
	}
	l.log(core.WarnLevel, fmt.Sprint(args...))
}

// Error logs an error message
func (l *Logger) Error(args ...any) {
	if !l.IsLevel(core.ErrorLevel) {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprint(args...))
}

// Critical logs a critical message. Unlike Fatal in other loggers it
// does not exit.
func (l *Logger) Critical(args ...any) {
	if !l.IsLevel(core.CriticalLevel) {
		return
	}
	l.log(core.CriticalLevel, fmt.Sprint(args...))
}

// Tracef logs a trace message with formatting
func (l *Logger) Tracef(format string, args ...any) {
	if !l.IsLevel(core.TraceLevel) {
		return
	}
	l.log(core.TraceLevel, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...any) {
	if !l.IsLevel(core.DebugLevel) {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...))
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...any) {
	if !l.IsLevel(core.InfoLevel) {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...))
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...any) {
	if !l.IsLevel(core.WarnLevel) {
		return
	}
	l.log(core.WarnLevel, fmt.Sprintf(format, args...))
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...any) {
	if !l.IsLevel(core.ErrorLevel) {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...))
}

// Criticalf logs a critical message with formatting
func (l *Logger) Criticalf(format string, args ...any) {
	if !l.IsLevel(core.CriticalLevel) {
		return
	}
	l.log(core.CriticalLevel, fmt.Sprintf(format, args...))
}
