package main

import (
	"encoding/json"
	"fmt"

	"github.com/groblegark/depgraph/internal/cache"
	"github.com/groblegark/depgraph/internal/config"
	"github.com/groblegark/depgraph/internal/ui"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the issue response cache",
	// Skip the tracker setup; cache subcommands are local file operations.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initOutput()
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location, entry count, and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		dir := cache.New(c.CacheDir)
		stats, err := dir.Stats()
		if err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("dir:     %s\n", ui.RenderMuted(dir.Root()))
		fmt.Printf("entries: %d\n", stats.Entries)
		fmt.Printf("bytes:   %d\n", stats.Bytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		n, err := cache.New(c.CacheDir).Clear()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d cached entries\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
