package consolehandler

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/loggy/handler"
)

// Config holds configuration for a console sink
type Config struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	handler.Config
}

// applyConsoleDefaults fills in zero-value fields with defaults.
func applyConsoleDefaults(cfg *Config) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Name == "" {
		switch cfg.Writer {
		case os.Stdout:
			cfg.Name = "stdout"
		case os.Stderr:
			cfg.Name = "stderr"
		default:
			cfg.Name = "stream"
		}
	}
}

// New creates a console sink and starts its worker. The writer is not
// closed when the sink is torn down.
func New(cfg Config) *handler.Sink {
	applyConsoleDefaults(&cfg)
	return handler.New(cfg.Config, zapcore.AddSync(cfg.Writer), nil)
}
