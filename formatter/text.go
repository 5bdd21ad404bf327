package formatter

import (
	"strconv"
	"time"

	"github.com/philipp01105/loggy/core"
)

// TextFormatter formats records as human-readable text. It is immutable
// and safe for concurrent use.
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DefaultTimeFormat
	}
	return &TextFormatter{Config: cfg}
}

// Format renders "<timestamp> <file>:<line> <LEVEL> <message>"
func (f *TextFormatter) Format(rec core.Record) string {
	buf := getBuffer()

	buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteByte(' ')

	if rec.Caller.Defined {
		file := rec.Caller.ShortFile
		if file == "" {
			file = core.ShortFile(rec.Caller.File)
		}
		buf.WriteString(file)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(rec.Caller.Line), 10))
	} else {
		buf.WriteString("?:0")
	}

	buf.WriteByte(' ')
	buf.WriteString(rec.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(rec.Message)

	s := buf.String()
	putBuffer(buf)
	return s
}

// FormatDropped renders "<timestamp> dropped <n> entries"
func (f *TextFormatter) FormatDropped(t time.Time, n int) string {
	buf := getBuffer()

	buf.Write(t.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(" dropped ")
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(n), 10))
	buf.WriteString(" entries")

	s := buf.String()
	putBuffer(buf)
	return s
}
