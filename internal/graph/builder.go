// Package graph implements the traversal that discovers the reachable
// open-issue subgraph from a root issue and renders it as a Graphviz DOT
// document. Finished issues (Closed or Resolved) are dropped entirely, stop
// issues become leaves, and every issue is fetched at most once per run.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/groblegark/depgraph/internal/client"
	"github.com/groblegark/depgraph/internal/model"
)

// Options configures a single traversal run.
type Options struct {
	// Root is the issue the walk starts from. Required.
	Root string

	// Stops lists issues at which expansion halts. A stop issue still
	// becomes a node when open, but its children are never explored.
	Stops []string
}

// Builder walks the issue graph through a client.Source.
type Builder struct {
	source client.Source
	logger *slog.Logger
}

// NewBuilder creates a builder reading from source.
func NewBuilder(source client.Source, logger *slog.Logger) *Builder {
	return &Builder{source: source, logger: logger}
}

// Result is the outcome of one traversal run.
type Result struct {
	// Root is the key the walk started from.
	Root string

	// Issues holds the retained records in traversal order. Finished
	// issues never appear here.
	Issues []*model.Issue

	// Links maps each expanded issue to the keys it points at, sub-tasks
	// first, in discovery order. Stop issues have no entry.
	Links map[string][]string

	// Processed counts the retained issues, stop issues included.
	Processed int
}

// Edge is one resolved dependency arrow between two retained issues.
type Edge struct {
	Source string
	Target string
	Note   string // literal attribute fragment, empty when none configured
}

// Run walks the graph from opts.Root. Any fetch failure aborts the whole
// run: a partial graph would silently hide reachable work.
func (b *Builder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, errors.New("graph: no root issue given")
	}

	stops := make(map[string]bool, len(opts.Stops))
	for _, s := range opts.Stops {
		stops[s] = true
	}

	res := &Result{
		Root:  opts.Root,
		Links: make(map[string][]string),
	}

	// One FIFO worklist, one visited gate. The worklist may hold
	// duplicates; the gate guarantees at most one fetch per key, which is
	// also what terminates cycles.
	visited := make(map[string]bool)
	queue := []string{opts.Root}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		if visited[key] {
			continue
		}
		visited[key] = true

		b.logger.Debug("fetching issue", "key", key)
		issue, err := b.source.GetIssue(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", key, err)
		}
		// The requested key is the node identity. A view answering under
		// a different key would orphan every edge pointing at this node.
		issue.Key = key

		if issue.Status.Done() {
			b.logger.Debug("dropping finished issue", "key", key, "status", issue.Status.String())
			continue
		}

		res.Issues = append(res.Issues, issue)
		res.Processed++

		if stops[key] {
			b.logger.Debug("stop issue reached, not expanding", "key", key)
			continue
		}

		children := issue.Children()
		res.Links[key] = children
		queue = append(queue, children...)
	}

	return res, nil
}

// Edges resolves the link table into arrows. Only pairs where both
// endpoints were retained survive; an edge pointing at a finished issue
// simply disappears. notes supplies per-target annotation fragments.
func (r *Result) Edges(notes map[string]string) []Edge {
	retained := make(map[string]bool, len(r.Issues))
	for _, issue := range r.Issues {
		retained[issue.Key] = true
	}

	var edges []Edge
	for _, issue := range r.Issues {
		targets, ok := r.Links[issue.Key]
		if !ok {
			continue
		}
		for _, target := range targets {
			if !retained[target] {
				continue
			}
			edges = append(edges, Edge{
				Source: issue.Key,
				Target: target,
				Note:   notes[target],
			})
		}
	}
	return edges
}
