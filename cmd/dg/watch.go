package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/depgraph/internal/graph"
	"github.com/groblegark/depgraph/internal/idgen"
	"github.com/groblegark/depgraph/internal/publish"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <issue-key>",
	Short: "Rebuild and publish the graph on an interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		every, _ := cmd.Flags().GetDuration("every")
		if every <= 0 {
			return fmt.Errorf("invalid interval %s (--every must be positive)", every)
		}
		stops, _ := cmd.Flags().GetStringArray("stop")
		annotates, _ := cmd.Flags().GetStringArray("annotate")

		notes, err := parseAnnotations(annotates)
		if err != nil {
			return err
		}

		dests, outPath, err := outputDestinations(cmd, root)
		if err != nil {
			return err
		}

		// Tag this run so log lines from overlapping watches stay apart.
		runID, err := idgen.Generate()
		if err != nil {
			return err
		}
		wlog := logger.With("run", runID)

		// Each tick walks the tracker again. The response cache is never
		// used here since it would pin the first tick's answers forever.
		build := func(ctx context.Context) ([]byte, error) {
			builder := graph.NewBuilder(source, wlog)
			res, err := builder.Run(ctx, graph.Options{Root: root, Stops: stops})
			if err != nil {
				return nil, err
			}
			return graph.Render(res, notes, time.Now()), nil
		}

		sched := publish.NewScheduler(build, dests, every, wlog)
		sched.Start()
		wlog.Info("watch started", "root", root, "interval", every, "out", outPath)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		wlog.Info("received signal, shutting down", "signal", sig)

		sched.Stop()
		wlog.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("every", 10*time.Minute, "rebuild interval")
	addGraphFlags(watchCmd)
}
