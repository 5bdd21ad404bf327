package core

import (
	"runtime"
	"strings"
	"time"
)

// Record is one log call: severity, call site, time and message.
// It is consumed once by the formatter and never stored.
type Record struct {
	Level   Level
	Time    time.Time
	Caller  CallerInfo
	Message string
}

// Line is a formatted record ready for a sink queue, together with the
// time the record was observed. Sinks compare that time against their
// drop window, so it must be the record time and not the enqueue time.
type Line struct {
	Text string
	Time time.Time
	// Dropped is set on drop notices to the number of lines they report
	Dropped int
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Defined   bool
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}

	return CallerInfo{
		File:      file,
		ShortFile: ShortFile(file),
		Line:      line,
		Defined:   true,
	}
}

// ShortFile strips everything up to the last '/' or '\' from path.
// filepath.Base only knows the host separator, and call sites compiled
// on Windows report backslash paths.
func ShortFile(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
