// lbsim runs a batch of selections against a roster described in YAML and
// prints how often each node was picked.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ydmxcz/nodebalance"
)

func main() {
	var (
		cfg        nodebalance.Config
		rosterFile string
		selections int
		workers    int
		logLevel   string
	)
	cfg.RegisterFlags(flag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.StringVar(&rosterFile, "roster.file", "", "Path to the YAML roster. Its selector section overrides the selector flags.")
	pflag.IntVar(&selections, "selections", 1000, "Number of selections to perform.")
	pflag.IntVar(&workers, "workers", 4, "Number of goroutines selecting concurrently.")
	pflag.StringVar(&logLevel, "log.level", "info", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error].")
	pflag.Parse()

	logger := newLogger(logLevel)
	if err := run(context.Background(), logger, os.Stdout, cfg, rosterFile, selections, workers); err != nil {
		level.Error(logger).Log("msg", "simulation failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(lvl string) log.Logger {
	var filter level.Option
	switch lvl {
	case "debug":
		filter = level.AllowDebug()
	case "warn":
		filter = level.AllowWarn()
	case "error":
		filter = level.AllowError()
	default:
		filter = level.AllowInfo()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, filter)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func run(ctx context.Context, logger log.Logger, out io.Writer, cfg nodebalance.Config, rosterFile string, selections, workers int) error {
	if rosterFile == "" {
		return errors.New("--roster.file is required")
	}
	f, err := os.Open(rosterFile)
	if err != nil {
		return errors.Wrap(err, "open roster")
	}
	defer f.Close()

	r, err := decodeRoster(f, cfg)
	if err != nil {
		return err
	}
	nodes, err := r.buildNodes(nodebalance.UUIDProvider{})
	if err != nil {
		return err
	}
	sel, err := nodebalance.New(r.Selector, nodebalance.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, n := range nodes {
		// nothing else touches sel yet, so the lock is always free here
		if ok, err := sel.AddNode(n); err != nil {
			return err
		} else if !ok {
			level.Warn(logger).Log("msg", "skipping duplicate node", "node", n.ID())
		}
	}

	level.Info(logger).Log("msg", "starting simulation", "strategy", sel.Strategy(), "nodes", sel.Size(), "selections", selections, "workers", workers)
	counts, err := simulate(ctx, sel, selections, workers)
	if err != nil {
		return err
	}
	return report(out, sel.ListNodes(), counts)
}

func report(out io.Writer, nodes []*nodebalance.Node, counts map[string]int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tWEIGHT\tLOAD\tSELECTED")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%d\t%g\t%d\n", n.ID(), n.Weight().Value(), float64(n.Load()), counts[n.ID()])
	}
	return tw.Flush()
}
