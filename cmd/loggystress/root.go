package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/loggy/config"
	"github.com/philipp01105/loggy/core"
	"github.com/philipp01105/loggy/logger"
)

type options struct {
	configFile string
	file       string
	level      string
	capacity   int
	producers  int
	records    int
	msgSize    int
	coarse     bool
	watch      bool
	verbose    bool
}

var levels = []core.Level{
	core.TraceLevel,
	core.DebugLevel,
	core.InfoLevel,
	core.WarnLevel,
	core.ErrorLevel,
	core.CriticalLevel,
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "loggystress",
		Short: "Hammer a logger with concurrent producers",
		Long: `Run concurrent producers against a logger and report throughput.

Sinks come from a YAML file (--config) or from --file. Without either,
records go to the default stdout sink. Drops show up in the output as
"dropped N entries" lines.

Examples:
  loggystress --file /tmp/stress.log --capacity 100 --producers 64
  loggystress --config loggy.yaml --records 100000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML file describing level and sinks")
	flags.StringVarP(&opts.file, "file", "f", "", "Log file to add as a sink")
	flags.StringVarP(&opts.level, "level", "l", "info", "Global threshold")
	flags.IntVar(&opts.capacity, "capacity", 1000, "Queue capacity of the --file sink (0 = unbounded)")
	flags.IntVarP(&opts.producers, "producers", "p", 8, "Number of concurrent producers")
	flags.IntVarP(&opts.records, "records", "n", 10000, "Records per producer")
	flags.IntVar(&opts.msgSize, "size", 64, "Maximum message size in bytes")
	flags.BoolVar(&opts.coarse, "coarse-clock", false, "Use the coarse clock for record times")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Reload --config while the run is in progress")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print engine diagnostics to stderr")

	return cmd
}

func newDiagnostics(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func buildLogger(opts *options, diag *zap.Logger) (*logger.Logger, error) {
	level := core.ParseLevel(opts.level)
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %q", opts.level)
	}

	b := logger.NewBuilder().WithLevel(level).WithDiagnostics(diag)
	if opts.coarse {
		b = b.WithClock(core.CoarseClock())
	}
	l := b.Build()

	if opts.configFile != "" {
		cfg, err := config.Load(opts.configFile)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		if err := cfg.Apply(l); err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("apply %s: %w", opts.configFile, err)
		}
	}
	if opts.file != "" {
		if err := l.AddFile(opts.file, core.TraceLevel, opts.capacity); err != nil {
			_ = l.Close()
			return nil, err
		}
	}
	return l, nil
}

func randomMessage(r *rand.Rand, size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[r.Intn(len(chars))])
	}
	return sb.String()
}

// produce logs opts.records records at random levels until done or ctx
// is cancelled
func produce(ctx context.Context, l *logger.Logger, id int, opts *options) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	maxSize := opts.msgSize
	if maxSize < 1 {
		maxSize = 1
	}

	for i := 0; i < opts.records; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		level := levels[r.Intn(len(levels))]
		if !l.IsLevel(level) {
			continue
		}
		l.Log(level, fmt.Sprintf("producer=%d seq=%d %s", id, i, randomMessage(r, r.Intn(maxSize)+1)))
	}
	return nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.producers < 1 {
		return fmt.Errorf("producers must be at least 1, got %d", opts.producers)
	}

	diag, err := newDiagnostics(opts.verbose)
	if err != nil {
		return fmt.Errorf("create diagnostics logger: %w", err)
	}
	defer func() { _ = diag.Sync() }()

	l, err := buildLogger(opts, diag)
	if err != nil {
		return err
	}

	if opts.watch && opts.configFile != "" {
		w, err := config.NewWatcher(opts.configFile, l, diag)
		if err != nil {
			_ = l.Close()
			return err
		}
		wctx, stop := context.WithCancel(ctx)
		watching := make(chan struct{})
		go func() {
			defer close(watching)
			_ = w.Run(wctx)
		}()
		defer func() {
			stop()
			<-watching
			_ = w.Close()
		}()
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < opts.producers; p++ {
		p := p
		g.Go(func() error {
			return produce(gctx, l, p, opts)
		})
	}
	err = g.Wait()
	produced := time.Since(start)

	l.Flush()
	flushed := time.Since(start)

	if cerr := l.Close(); cerr != nil && err == nil {
		err = cerr
	}

	total := opts.producers * opts.records
	fmt.Fprintf(out, "records: %d producers: %d produce: %s flush: %s (%.0f records/s)\n",
		total, opts.producers, produced, flushed, float64(total)/produced.Seconds())
	return err
}
