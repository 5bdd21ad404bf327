package formatter

import (
	"bytes"
	"sync"
	"time"

	"github.com/philipp01105/loggy/core"
)

// DefaultTimeFormat renders timestamps as YYYYMMDD.HHMMSS
const DefaultTimeFormat = "20060102.150405"

// Formatter defines the interface for record formatters
type Formatter interface {
	// Format renders a record into a single line without trailing newline
	Format(rec core.Record) string
	// FormatDropped renders the notice a sink emits after dropping n lines
	FormatDropped(t time.Time, n int) string
}

// Config holds common formatter configuration
type Config struct {
	// TimestampFormat is a Go time layout (empty for DefaultTimeFormat)
	TimestampFormat string
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
