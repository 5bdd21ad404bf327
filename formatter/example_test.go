package formatter_test

import (
	"fmt"
	"time"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/formatter"
)

func ExampleNewTextFormatter() {
	f := formatter.NewTextFormatter(formatter.Config{})

	rec := core.Record{
		Time:    time.Date(2026, 1, 15, 12, 30, 5, 0, time.UTC),
		Level:   core.InfoLevel,
		Caller:  core.CallerInfo{File: "/srv/app/main.go", ShortFile: "main.go", Line: 42, Defined: true},
		Message: "hello world",
	}

	fmt.Println(f.Format(rec))
	fmt.Println(f.FormatDropped(rec.Time, 3))
	// Output:
	// 20260115.123005 main.go:42 INFO hello world
	// 20260115.123005 dropped 3 entries
}
