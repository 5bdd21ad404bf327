// Package handler provides Sink, the asynchronous writer behind every
// log destination.
//
// A sink owns a queue, a destination and exactly one worker goroutine.
// Producers call Add, which never blocks: the line is either queued or,
// when the queue is at capacity, counted as dropped. The worker pops
// lines in order and writes each one followed by a newline.
//
// Dropped lines are reported in-band. The first drop of a run opens a
// window (5s by default); once a drop, or an idle tick of the worker, is
// observed after the window has elapsed, a line of the form
//
//	20260115.123005 dropped 17 entries
//
// is written to the same destination and the run starts over. Whatever
// is still outstanding at teardown is reported the same way as the last
// line the sink writes.
//
// Destinations are flushed when the worker goes idle for longer than the
// flush interval (1s by default), and on Wait. Write failures never reach
// the caller; they are logged once per failure streak to the diagnostics
// logger configured on the sink.
//
// The concrete destinations live in the consolehandler and filehandler
// subpackages.
package handler
