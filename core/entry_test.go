package core

import (
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{CriticalLevel, "CRITICAL"},
		{InvalidLevel, "INVALID"},
		{Level(5), "INVALID"},
		{Level(51), "INVALID"},
		{Level(-3), "INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_Ordering(t *testing.T) {
	ordered := []Level{InvalidLevel, TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, CriticalLevel}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("%v should be below %v", ordered[i-1], ordered[i])
		}
	}
	if TraceLevel != 9 || DebugLevel != 10 || InfoLevel != 20 || WarnLevel != 30 || ErrorLevel != 40 || CriticalLevel != 50 {
		t.Error("level codes changed")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":    TraceLevel,
		"DEBUG":    DebugLevel,
		" Info ":   InfoLevel,
		"warning":  WarnLevel,
		"WARN":     WarnLevel,
		"error":    ErrorLevel,
		"critical": CriticalLevel,
		"40":       ErrorLevel,
		"9":        TraceLevel,
		"11":       InvalidLevel,
		"fatal":    InvalidLevel,
		"":         InvalidLevel,
		"1000":     InvalidLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGetCaller(t *testing.T) {
	caller := GetCaller(0)
	if !caller.Defined {
		t.Fatal("GetCaller() returned undefined CallerInfo")
	}

	if caller.ShortFile != "entry_test.go" {
		t.Errorf("Expected short file entry_test.go, got %q", caller.ShortFile)
	}
	if !strings.HasSuffix(caller.File, "entry_test.go") {
		t.Errorf("Expected full path ending in entry_test.go, got %q", caller.File)
	}
	if caller.Line == 0 {
		t.Error("Expected non-zero line number")
	}
}

func TestShortFile(t *testing.T) {
	tests := map[string]string{
		"/src/app/main.go":       "main.go",
		`C:\src\app\main.go`:     "main.go",
		`/mixed\path/to\file.go`: "file.go",
		"main.go":                "main.go",
		"":                       "",
	}

	for in, want := range tests {
		if got := ShortFile(in); got != want {
			t.Errorf("ShortFile(%q) = %q, want %q", in, got, want)
		}
	}
}
