package core

import (
	"strconv"
	"strings"
)

// Level represents the severity of a log record. Higher is more severe.
type Level int8

const (
	// InvalidLevel marks an unrecognized or uninitialized severity
	InvalidLevel Level = 0
	// TraceLevel for very fine grained tracing
	TraceLevel Level = 9
	// DebugLevel for detailed debugging information
	DebugLevel Level = 10
	// InfoLevel for general informational messages (default threshold)
	InfoLevel Level = 20
	// WarnLevel for warning messages
	WarnLevel Level = 30
	// ErrorLevel for error messages
	ErrorLevel Level = 40
	// CriticalLevel for failures the process may not survive
	CriticalLevel Level = 50
)

// String returns the level name, or "INVALID" for unrecognized codes
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "INVALID"
	}
}

// Valid reports whether l is one of the named severities
func (l Level) Valid() bool {
	return l.String() != "INVALID"
}

// ParseLevel converts a level name or numeric code to a Level.
// Unknown input yields InvalidLevel.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "CRITICAL":
		return CriticalLevel
	}

	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return InvalidLevel
	}
	if l := Level(n); l.Valid() {
		return l
	}
	return InvalidLevel
}
