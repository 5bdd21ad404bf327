// Package consolehandler builds sinks that write to an already open
// stream, such as os.Stdout, os.Stderr or any io.Writer.
//
// The sink does not own the stream: tearing the sink down stops its
// worker but leaves the stream open. Lines are written unbuffered, one
// Write call per line including its newline, so interleaving with other
// writers of the same stream happens on line boundaries.
package consolehandler
