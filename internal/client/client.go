// Package client provides a transport-agnostic source of issue records
// and an HTTP implementation that reads a tracker's per-issue XML views.
package client

import (
	"context"

	"github.com/groblegark/depgraph/internal/model"
)

// Source is the interface the graph builder uses to look up issues. It is
// implemented by HTTPClient (default) and wrapped by the on-disk cache.
type Source interface {
	// GetIssue fetches a single issue record by key.
	GetIssue(ctx context.Context, key string) (*model.Issue, error)

	// Lifecycle
	Close() error
}
