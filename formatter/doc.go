// Package formatter renders records into the text that sinks write.
//
// A record is formatted exactly once per log call, by the dispatcher,
// and the resulting string is handed unchanged to every sink. Sinks
// never reformat.
//
// TextFormatter produces the canonical line
//
//	<timestamp> <file>:<line> <LEVEL> <message>
//
// with a configurable Go time layout (default "20060102.150405").
// It formats into a pooled bytes.Buffer using append-style helpers, so
// the only allocation on the hot path is the returned string itself.
// Buffers larger than 64 KiB are not returned to the pool.
package formatter
