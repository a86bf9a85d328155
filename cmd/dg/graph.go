package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/groblegark/depgraph/internal/cache"
	"github.com/groblegark/depgraph/internal/graph"
	"github.com/groblegark/depgraph/internal/publish"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <issue-key>",
	Short: "Build a dependency graph and write it as Graphviz DOT",
	Long: `Build a dependency graph rooted at the given issue.

The walk follows sub-tasks and "depends on" links outward from the root,
skipping finished issues. The result is written as a Graphviz DOT document
to a local file and, optionally, to S3 or a git repo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		stops, _ := cmd.Flags().GetStringArray("stop")
		annotates, _ := cmd.Flags().GetStringArray("annotate")
		useCache, _ := cmd.Flags().GetBool("cache")

		notes, err := parseAnnotations(annotates)
		if err != nil {
			return err
		}

		src := source
		if useCache {
			src = cache.Wrap(cache.New(cfg.CacheDir), source, logger)
		}

		builder := graph.NewBuilder(src, logger)
		res, err := builder.Run(context.Background(), graph.Options{Root: root, Stops: stops})
		if err != nil {
			return fmt.Errorf("building graph for %s: %w", root, err)
		}

		doc := graph.Render(res, notes, time.Now())

		dests, outPath, err := outputDestinations(cmd, root)
		if err != nil {
			return err
		}
		for _, dest := range dests {
			if err := dest.Write(context.Background(), doc); err != nil {
				return err
			}
		}

		fmt.Printf("wrote %s (%d issues, %d edges)\n", outPath, len(res.Issues), len(res.Edges(notes)))
		return nil
	},
}

// parseAnnotations splits repeated key=fragment flags into a note map. The
// fragment is copied into the DOT output verbatim; a later flag for the same
// key overrides an earlier one.
func parseAnnotations(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	notes := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, frag, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid annotation %q (want key=fragment)", p)
		}
		notes[key] = frag
	}
	return notes, nil
}

// addGraphFlags registers the traversal and output flags shared by graph
// and watch.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("stop", nil, "issue key to keep as a leaf, never expanded (repeatable)")
	cmd.Flags().StringArray("annotate", nil, "key=fragment edge annotation (repeatable)")
	cmd.Flags().String("out", "", "output file path (default <KEY>.dot)")
	cmd.Flags().String("s3-bucket", "", "publish to this S3 bucket")
	cmd.Flags().String("s3-key", "", "S3 object key (default <KEY>.dot)")
	cmd.Flags().String("s3-region", "us-east-1", "S3 region")
	cmd.Flags().String("s3-endpoint", "", "custom S3 endpoint (MinIO and similar)")
	cmd.Flags().String("git-repo", "", "publish into this local git clone")
	cmd.Flags().String("git-file", "", "file path within the git repo (default <KEY>.dot)")
	cmd.Flags().String("git-branch", "main", "git branch to commit and push to")
}

// outputDestinations assembles the publish targets from the command's flags.
// The local file destination is always present; its path is also returned
// for reporting.
func outputDestinations(cmd *cobra.Command, root string) ([]publish.Destination, string, error) {
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = root + ".dot"
	}
	dests := []publish.Destination{publish.NewFileDestination(outPath)}

	if bucket, _ := cmd.Flags().GetString("s3-bucket"); bucket != "" {
		key, _ := cmd.Flags().GetString("s3-key")
		if key == "" {
			key = root + ".dot"
		}
		region, _ := cmd.Flags().GetString("s3-region")
		endpoint, _ := cmd.Flags().GetString("s3-endpoint")
		s3Dest, err := publish.NewS3Destination(context.Background(), bucket, key, region, endpoint)
		if err != nil {
			return nil, "", fmt.Errorf("creating S3 destination: %w", err)
		}
		dests = append(dests, s3Dest)
	}

	if repo, _ := cmd.Flags().GetString("git-repo"); repo != "" {
		file, _ := cmd.Flags().GetString("git-file")
		if file == "" {
			file = root + ".dot"
		}
		branch, _ := cmd.Flags().GetString("git-branch")
		dests = append(dests, publish.NewGitDestination(repo, file, branch))
	}

	return dests, outPath, nil
}

func init() {
	addGraphFlags(graphCmd)
	graphCmd.Flags().Bool("cache", false, "serve repeat fetches from the response cache")
}
