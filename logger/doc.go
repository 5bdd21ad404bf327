// Package logger is the public API of loggy. Most users only need to
// import this package.
//
// A Logger is an explicitly constructed dispatcher. It holds a global
// threshold, a registry of sinks and a built-in default sink writing to
// stdout. Records that pass the threshold are formatted once and handed
// to every registered sink whose own threshold they also meet; while the
// registry is empty they go to the default sink instead.
//
//	log := logger.NewBuilder().
//	    WithLevel(logger.DebugLevel).
//	    Build()
//	defer log.Close()
//
//	if err := log.AddFile("/var/log/app.log", logger.InfoLevel, 1000); err != nil {
//	    return err
//	}
//	log.Infof("listening on %s", addr)
//
// Logging never blocks on I/O and never fails. Each sink queues lines
// up to its capacity and writes them from its own goroutine; lines that
// do not fit are dropped and reported in the output as
// "dropped N entries". Flush waits until everything queued so far is on
// its destination.
//
// Level checks happen before any formatting, so filtered-out calls cost
// one atomic load and an integer comparison.
package logger
