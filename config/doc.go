// Package config loads a declarative logger setup from YAML and applies
// it to a Logger.
//
//	level: info
//	time_format: "2006-01-02T15:04:05"
//	sinks:
//	  - type: stream
//	    target: stderr
//	    level: warn
//	  - type: file
//	    path: /var/log/app.log
//	    capacity: 5000
//
// Omitted capacities default to handler.DefaultCapacity; an explicit 0
// means unbounded. Sink levels default to admitting everything that
// passes the global threshold.
package config
