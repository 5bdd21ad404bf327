// Command loggystress runs concurrent producers against a Logger to
// exercise fan-out, overload and drop reporting.
package main
