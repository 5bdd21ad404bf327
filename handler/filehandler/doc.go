// Package filehandler builds sinks that append to a file.
//
// The file is opened once, in append mode, when the sink is created,
// and is owned by the sink: it is flushed and closed on teardown. A file
// that cannot be created or opened is a configuration error returned by
// New; no sink is started in that case.
//
// Writes go through a 4 KiB buffer that the sink flushes whenever its
// queue goes idle for longer than the flush interval, and on every
// explicit Wait. There is no rotation and no size cap.
package filehandler
