package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/groblegark/depgraph/internal/client"
	"github.com/groblegark/depgraph/internal/config"
	"github.com/groblegark/depgraph/internal/ui"
	"github.com/spf13/cobra"
)

var (
	trackerURL  string
	token       string
	jsonOutput  bool
	verbose     bool
	noColorFlag bool

	cfg    *config.Config
	source client.Source
	logger *slog.Logger
)

func defaultTrackerURL() string {
	if s := os.Getenv("DEPGRAPH_URL"); s != "" {
		return s
	}
	return activeRemoteURL()
}

func defaultToken() string {
	if s := os.Getenv("DEPGRAPH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "dg <command>",
	Short: "Dependency graph builder for issue trackers",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initOutput()
		if !needsTracker(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if trackerURL == "" {
			return fmt.Errorf("no tracker URL configured (use --url, set DEPGRAPH_URL, or 'dg remote use <name>')")
		}
		source = client.NewHTTPClient(trackerURL, token, cfg.HTTPTimeout)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if source != nil {
			source.Close()
		}
	},
}

// needsTracker reports whether cmd talks to the tracker. Help and shell
// completion must work with no tracker configured.
func needsTracker(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// initOutput applies the color and logging flags. Commands that skip the
// tracker connection (remote, cache) call it from their own pre-run hooks.
func initOutput() {
	if noColorFlag || !ui.ShouldUseColor(os.Stdout) {
		ui.ForceNoColor()
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&trackerURL, "url", defaultTrackerURL(), "tracker base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
