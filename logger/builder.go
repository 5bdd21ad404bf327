package logger

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/formatter"
	"github.com/philipp01105/loggy/handler"
	"github.com/philipp01105/loggy/handler/consolehandler"
)

// defaultCallerSkip skips GetCaller's caller (Logger.log) and the
// call-site helper, landing on the application frame.
const defaultCallerSkip = 2

// Builder provides a fluent API for building Logger instances
type Builder struct {
	level         core.Level
	timeFormat    string
	writer        io.Writer
	clock         core.Clock
	diag          *zap.Logger
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		level:         core.InfoLevel, // Default level
		timeFormat:    formatter.DefaultTimeFormat,
		writer:        os.Stdout,
		clock:         core.SystemClock,
		diag:          zap.NewNop(),
		includeCaller: true,
		callerSkip:    defaultCallerSkip,
	}
}

// WithLevel sets the global threshold
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithTimeFormat sets the timestamp layout (Go reference time syntax)
func (b *Builder) WithTimeFormat(layout string) *Builder {
	if layout != "" {
		b.timeFormat = layout
	}
	return b
}

// WithDefaultWriter replaces stdout as the destination of the default sink
func (b *Builder) WithDefaultWriter(w io.Writer) *Builder {
	if w != nil {
		b.writer = w
	}
	return b
}

// WithClock sets the time source for records, e.g. core.CoarseClock()
func (b *Builder) WithClock(clock core.Clock) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithDiagnostics sets the logger that receives the engine's own failures
func (b *Builder) WithDiagnostics(diag *zap.Logger) *Builder {
	if diag != nil {
		b.diag = diag
	}
	return b
}

// WithCaller enables or disables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build creates the Logger and starts its default sink
func (b *Builder) Build() *Logger {
	l := &Logger{
		clock:         b.clock,
		diag:          b.diag,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}
	l.level.Store(int32(b.level))
	l.formatter.Store(formatter.NewTextFormatter(formatter.Config{TimestampFormat: b.timeFormat}))

	l.def = consolehandler.New(consolehandler.Config{
		Writer: b.writer,
		Config: handler.Config{
			Name:        "default",
			Capacity:    handler.DefaultCapacity,
			Formatter:   l.formatter.Load(),
			Diagnostics: b.diag,
		},
	})
	return l
}

// New creates a Logger with the default settings: INFO threshold,
// caller information, and stdout as the default destination.
func New() *Logger {
	return NewBuilder().Build()
}
