// Package core defines the shared types used across loggy.
//
// It provides the Level type for severity filtering, the Record type
// that carries one log call from the call site to the formatter, the
// Line type that sinks queue and write, and Queue, the FIFO that sits
// between a producer and a sink's writer goroutine.
//
// Records are plain values. They are produced at the call site, handed
// to the formatter exactly once and then discarded; nothing downstream
// of the formatter ever sees a Record again. What travels to the sinks
// is a Line, which is copied into every sink's own queue so that no two
// sinks ever share queue storage.
//
// Queue is not bounded by itself: Push never blocks and never rejects.
// Capacity is a sink policy enforced through TryPush; drop notices use
// Push and bypass it.
package core
