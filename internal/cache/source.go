package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/groblegark/depgraph/internal/client"
	"github.com/groblegark/depgraph/internal/model"
)

// Source wraps another issue source with the on-disk cache. Hits skip the
// network entirely; misses delegate and store the result. The graph builder
// sees a plain client.Source either way.
type Source struct {
	dir      *Dir
	delegate client.Source
	logger   *slog.Logger
}

// Wrap layers the cache over delegate.
func Wrap(dir *Dir, delegate client.Source, logger *slog.Logger) *Source {
	return &Source{
		dir:      dir,
		delegate: delegate,
		logger:   logger,
	}
}

// GetIssue serves from the cache when possible.
func (s *Source) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	issue, err := s.dir.Get(key)
	if err == nil {
		s.logger.Debug("cache hit", "key", key)
		return issue, nil
	}
	if !errors.Is(err, ErrMiss) {
		return nil, err
	}

	issue, err = s.delegate.GetIssue(ctx, key)
	if err != nil {
		return nil, err
	}
	// File the record under the requested key, or the next Get for this
	// key would miss.
	issue.Key = key

	// Best effort: a failed store never fails the fetch.
	if err := s.dir.Put(issue); err != nil {
		s.logger.Warn("cache store failed", "key", key, "err", err)
	}
	return issue, nil
}

// Close closes the wrapped source.
func (s *Source) Close() error { return s.delegate.Close() }
