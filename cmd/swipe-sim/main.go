// Package main replays gesture scripts against the swipe state machine
// without a display and prints every step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/script"
	"github.com/ytget/anchorswipe/internal/swipe"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var args struct {
	Scripts []string      `arg:"positional,required" help:"gesture scripts to replay"`
	Profile string        `arg:"-p" help:"tuning profile applied to scripts without their own"`
	Metrics bool          `arg:"-m" help:"print prometheus metrics after the replay"`
	Verbose bool          `arg:"-v" help:"log every transition"`
	Timeout time.Duration `default:"30s" help:"give up on a script after this long"`
}

func main() {
	arg.MustParse(&args)

	level := slog.LevelWarn
	if args.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var profile *config.Profile
	if args.Profile != "" {
		var err error
		if profile, err = config.LoadProfileFile(args.Profile); err != nil {
			fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	metrics, err := swipe.NewMetrics(registry)
	if err != nil {
		fatal(err)
	}

	failed := false
	for _, path := range args.Scripts {
		if err := replay(ctx, path, profile, logger, metrics); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
		}
	}

	if args.Metrics {
		if err := writeMetrics(registry); err != nil {
			fatal(err)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func replay(ctx context.Context, path string, profile *config.Profile, logger *slog.Logger, metrics *swipe.Metrics) error {
	sc, err := script.LoadFile(path)
	if err != nil {
		return err
	}
	if sc.Profile == nil {
		sc.Profile = profile
	}

	ctx, cancel := context.WithTimeout(ctx, args.Timeout)
	defer cancel()

	report, err := script.Run(ctx, sc,
		swipe.WithLogger(logger.With("script", path)),
		swipe.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	color.New(color.Bold).Printf("== %s\n", path)
	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}
	printSummary(report)
	return nil
}

func printSummary(report *script.Report) {
	counts := make(map[model.Result]int)
	for _, o := range report.Outcomes {
		counts[o.Result]++
	}

	color.Green("completed: %d", counts[model.ResultCompleted])
	color.Yellow("vetoed:    %d", counts[model.ResultVetoed])
	color.Cyan("cancelled: %d", counts[model.ResultCancelled])
}

func writeMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

func fatal(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err)
	os.Exit(1)
}
