package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/groblegark/depgraph/internal/model"
	"github.com/groblegark/depgraph/internal/ui"
)

func printIssueJSON(issue *model.Issue) {
	data, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printIssueTable(issue *model.Issue) {
	fmt.Printf("Key:      %s\n", ui.RenderKey(issue.Key))
	fmt.Printf("Summary:  %s\n", issue.Summary)
	fmt.Printf("Type:     %s\n", issue.Type)
	fmt.Printf("Status:   %s\n", ui.RenderStatus(issue.Status.String()))
	fmt.Printf("Priority: %s\n", ui.RenderPriority(issue.Priority))
	fmt.Printf("Assignee: %s\n", issue.Assignee)
	if issue.Link != "" {
		fmt.Printf("Link:     %s\n", ui.RenderMuted(issue.Link))
	}
}
