package main

import (
	"context"
	"fmt"

	"github.com/groblegark/depgraph/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <issue-key>",
	Short: "Show details of a single issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		issue, err := source.GetIssue(context.Background(), key)
		if err != nil {
			return fmt.Errorf("getting issue %s: %w", key, err)
		}

		if jsonOutput {
			printIssueJSON(issue)
		} else {
			printIssueTable(issue)
			if len(issue.Subtasks) > 0 {
				fmt.Println()
				fmt.Println("Sub-tasks:")
				for _, k := range issue.Subtasks {
					fmt.Printf("  %s\n", ui.RenderKey(k))
				}
			}
			if len(issue.OutwardLinks) > 0 {
				fmt.Println()
				fmt.Println("Depends On:")
				for _, k := range issue.OutwardLinks {
					fmt.Printf("  %s\n", ui.RenderKey(k))
				}
			}
		}
		return nil
	},
}
