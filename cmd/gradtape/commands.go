package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/born-ml/gradtape/internal/metrics"
	"github.com/born-ml/gradtape/internal/selfcheck"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var errChecksFailed = errors.New("gradient checks failed")

type selfcheckFlags struct {
	config      string
	tolerance   float64
	ops         []string
	workers     int
	verbose     bool
	all         bool
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gradtape",
		Short:         "Reverse-mode automatic differentiation toolkit",
		Long:          `gradtape records scalar computations on a tape and runs reverse passes over it. The CLI verifies the built-in operations against finite differences.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newVersionCmd(), newOpsCmd(), newSelfcheckCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gradtape %s\n", version)
		},
	}
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operations covered by selfcheck",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range selfcheck.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newSelfcheckCmd() *cobra.Command {
	var f selfcheckFlags
	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Compare every operation's partials with finite differences",
		Long: `Runs a reverse pass for each operation at a grid of points and compares the
gradient with central finite differences. Exits non-zero if any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelfcheck(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "", "YAML file with tolerances, operations and points")
	flags.Float64Var(&f.tolerance, "tolerance", 0, "override the allowed scaled error")
	flags.StringSliceVar(&f.ops, "ops", nil, "operations to check (default all)")
	flags.IntVar(&f.workers, "workers", 0, "check operations on this many goroutines")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&f.all, "all", false, "list passing checks too")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "after the run, serve tape metrics on this address until interrupted")
	return cmd
}

func runSelfcheck(cmd *cobra.Command, f selfcheckFlags) error {
	logger := newLogger(cmd.ErrOrStderr(), f.verbose)

	cfg, err := selfcheck.LoadConfig(f.config)
	if err != nil {
		return err
	}
	if f.tolerance > 0 {
		cfg.Tolerance = f.tolerance
	}
	if len(f.ops) > 0 {
		cfg.Ops = f.ops
	}
	if f.workers > 0 {
		cfg.Parallel = selfcheck.ParallelConfig{Enabled: f.workers > 1, Workers: f.workers}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snap metrics.Snapshot
	rep, err := selfcheck.NewRunner(cfg, logger, &snap).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(rep, f.all))

	if f.metricsAddr != "" {
		if err := serveMetrics(ctx, f.metricsAddr, &snap, logger); err != nil {
			return err
		}
	}
	if !rep.OK() {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, rep.Failed, len(rep.Results))
	}
	return nil
}

// newLogger logs text to terminals and JSON everywhere else.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func serveMetrics(ctx context.Context, addr string, src metrics.StatsSource, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("", src, nil)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
