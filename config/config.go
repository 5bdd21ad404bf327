package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/formatter"
	"github.com/philipp01105/loggy/handler"
	"github.com/philipp01105/loggy/handler/consolehandler"
	"github.com/philipp01105/loggy/handler/filehandler"
	"github.com/philipp01105/loggy/logger"
)

// Sink types
const (
	SinkStream = "stream"
	SinkFile   = "file"
)

// Stream targets
const (
	TargetStdout = "stdout"
	TargetStderr = "stderr"
)

var (
	// ErrUnknownSinkType is returned for a sink whose type is neither
	// stream nor file
	ErrUnknownSinkType = errors.New("unknown sink type")
	// ErrUnknownTarget is returned for a stream sink with an unsupported target
	ErrUnknownTarget = errors.New("unknown stream target")
	// ErrInvalidLevel is returned for a level that does not parse
	ErrInvalidLevel = errors.New("invalid level")
)

// Config is the declarative form of a logger setup
type Config struct {
	Level      string `yaml:"level"`
	TimeFormat string `yaml:"time_format"`
	Sinks      []Sink `yaml:"sinks"`
}

// Sink describes one sink
type Sink struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Level  string `yaml:"level,omitempty"`
	// Capacity is a pointer so that an explicit 0 (unbounded) can be told
	// apart from an omitted value
	Capacity *int `yaml:"capacity,omitempty"`
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses and validates a YAML document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseLevel(s string) (core.Level, error) {
	level := core.ParseLevel(s)
	if level == core.InvalidLevel {
		return level, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// Validate checks the configuration without opening anything. All
// problems are reported, not just the first.
func (c *Config) Validate() error {
	var err error
	if c.Level != "" {
		if _, lerr := parseLevel(c.Level); lerr != nil {
			err = multierr.Append(err, lerr)
		}
	}
	for i, s := range c.Sinks {
		if serr := s.validate(); serr != nil {
			err = multierr.Append(err, fmt.Errorf("sinks[%d]: %w", i, serr))
		}
	}
	return err
}

func (s Sink) validate() error {
	var err error
	switch s.Type {
	case SinkStream:
		switch s.Target {
		case "", TargetStdout, TargetStderr:
		default:
			err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownTarget, s.Target))
		}
	case SinkFile:
		if s.Path == "" {
			err = multierr.Append(err, filehandler.ErrNoFilename)
		}
	default:
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownSinkType, s.Type))
	}
	if s.Level != "" {
		if _, lerr := parseLevel(s.Level); lerr != nil {
			err = multierr.Append(err, lerr)
		}
	}
	if s.Capacity != nil && *s.Capacity < 0 {
		err = multierr.Append(err, fmt.Errorf("capacity must not be negative, got %d", *s.Capacity))
	}
	return err
}

func (s Sink) capacity() int {
	if s.Capacity == nil {
		return handler.DefaultCapacity
	}
	return *s.Capacity
}

func (s Sink) writer() io.Writer {
	if s.Target == TargetStderr {
		return os.Stderr
	}
	return os.Stdout
}

// Apply sets the threshold and time format of l and registers the
// configured sinks next to any already registered. Either every sink is
// registered or none is: if one fails to open, the ones already opened
// are torn down and l is left unchanged.
func (c *Config) Apply(l *logger.Logger) error {
	sinks, err := c.open(l)
	if err != nil {
		return err
	}
	c.applySettings(l)
	for _, s := range sinks {
		l.AddSink(s)
	}
	return nil
}

// Reload is Apply, except that the configured sinks replace the
// registered ones instead of joining them. The old sinks are torn down
// only after the new ones are in place.
func (c *Config) Reload(l *logger.Logger) error {
	sinks, err := c.open(l)
	if err != nil {
		return err
	}
	c.applySettings(l)
	return l.ReplaceSinks(sinks)
}

func (c *Config) applySettings(l *logger.Logger) {
	if c.Level != "" {
		level, _ := parseLevel(c.Level)
		l.SetLevel(level)
	}
	if c.TimeFormat != "" {
		l.SetTimeFormat(c.TimeFormat)
	}
}

// open validates c and starts every configured sink without registering
// any of them
func (c *Config) open(l *logger.Logger) ([]*handler.Sink, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var f formatter.Formatter
	if c.TimeFormat != "" {
		f = formatter.NewTextFormatter(formatter.Config{TimestampFormat: c.TimeFormat})
	}

	sinks := make([]*handler.Sink, 0, len(c.Sinks))
	for i, sc := range c.Sinks {
		s, err := sc.open(l, f)
		if err != nil {
			for _, opened := range sinks {
				err = multierr.Append(err, opened.Close())
			}
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

func (s Sink) open(l *logger.Logger, f formatter.Formatter) (*handler.Sink, error) {
	var level core.Level
	if s.Level != "" {
		level, _ = parseLevel(s.Level)
	}
	base := l.SinkConfig(level, s.capacity())
	if f != nil {
		base.Formatter = f
	}

	if s.Type == SinkFile {
		return filehandler.New(filehandler.Config{Filename: s.Path, Config: base})
	}
	return consolehandler.New(consolehandler.Config{Writer: s.writer(), Config: base}), nil
}
