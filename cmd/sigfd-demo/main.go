// Command sigfd-demo watches stdin and a set of signals through one sigfd
// bridge and reports both kinds of activity on the console.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Maximilan4/sigfd"
	"github.com/Maximilan4/sigfd/internal/config"
	"github.com/Maximilan4/sigfd/internal/logger"
)

var (
	configFile string
	signalList []string
	logLevel   string
	logFile    string
	logFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sigfd-demo",
		Short: "Report signals and stdin activity through a signal pipe",
		Long: `Type to watch stdin activity. Send signals to watch the program react.
Use ^D to exit.`,
		Example: `  # watch the default signals (INT, TERM)
  sigfd-demo

  # watch HUP and USR1, debug logging to a rotated file
  sigfd-demo --signals HUP,USR1 --log-level debug --log-file /tmp/sigfd.log`,
		SilenceUsage: true,
		RunE:         runDemo,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.Flags().StringSliceVarP(&signalList, "signals", "s", nil, "Signals to watch (names or numbers)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (default stderr)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("signals") {
		cfg.Signals = signalList
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, closer, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = closer.Close() }()

	return run(cmd.Context(), cfg, os.Stdin, cmd.OutOrStdout(), log)
}

// run wires one bridge and a stdin reader to the console until stdin ends.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sigs, err := cfg.ResolveSignals()
	if err != nil {
		return err
	}
	signals := make([]os.Signal, len(sigs))
	for i, sig := range sigs {
		signals[i] = sig
	}

	pipeSize, err := cfg.PipeSizeBytes()
	if err != nil {
		return err
	}

	b, err := sigfd.New(
		sigfd.Signals(signals...),
		sigfd.Logger(log),
		sigfd.Buffer(cfg.Bridge.Buffer),
		sigfd.PipeSize(pipeSize),
	)
	if err != nil {
		return fmt.Errorf("failed to open signal bridge: %w", err)
	}
	defer func() { _ = b.Close() }()

	if capacity := b.Capacity(); capacity > 0 {
		log.Debug("signal pipe ready", "capacity", humanize.IBytes(uint64(capacity)),
			"records", capacity/sigfd.RecordSize)
	}

	c := &console{w: out}
	d := sigfd.NewDispatcher(b)
	if err := d.Add(c.onSignal, b.Signals().Signals()...); err != nil {
		return err
	}

	c.println("Type to watch stdin activity. Send signals to watch the program react. Use ^D to exit")
	c.prompt()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		if err := d.Wait(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stop()
		return c.watch(runCtx, in)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stats := b.Stats()
	log.Debug("demo finished", "forwarded", stats.Forwarded, "dropped", stats.Dropped)
	c.println(" Bye")
	return nil
}

// console serialises output of the signal and stdin paths.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, s)
}

func (c *console) prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, "# ")
}

func (c *console) onSignal(_ context.Context, rec sigfd.Record, _ *sigfd.Dispatcher) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "signal #%d (%s) received\n# ", rec.Signo, sigfd.SignalName(rec.Signal()))
	return nil
}

// watch echoes stdin lines until EOF, a read error or ctx is done.
func (c *console) watch(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	// the scanner stays blocked on in after ctx is done; run returns anyway
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			c.mu.Lock()
			fmt.Fprintf(c.w, "activity on stdin: %s\n# ", strings.TrimRight(line, "\r"))
			c.mu.Unlock()
		case err := <-errc:
			if err != nil {
				c.println("stdin error: " + err.Error())
				return err
			}
			c.mu.Lock()
			fmt.Fprint(c.w, "stdin closed.")
			c.mu.Unlock()
			return nil
		}
	}
}
