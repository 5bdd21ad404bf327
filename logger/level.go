package logger

import "github.com/philipp01105/loggy/core"

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	InvalidLevel  = core.InvalidLevel
	TraceLevel    = core.TraceLevel
	DebugLevel    = core.DebugLevel
	InfoLevel     = core.InfoLevel
	WarnLevel     = core.WarnLevel
	ErrorLevel    = core.ErrorLevel
	CriticalLevel = core.CriticalLevel
)

// ParseLevel converts a level name or numeric code to a Level.
// Unknown input yields InvalidLevel.
func ParseLevel(s string) Level {
	return core.ParseLevel(s)
}
