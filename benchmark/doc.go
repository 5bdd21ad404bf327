// Package benchmark compares loggy against other Go loggers writing
// plain text to a discarding destination. It is a separate module so
// the comparison dependencies stay out of the main go.mod.
package benchmark
