// Package cache stores fetched issue records as JSON files on disk so that
// repeated graph builds do not hit the tracker for issues it has already
// seen. Entries are never invalidated; a stale record is acceptable and the
// cache command exists to clear them.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/groblegark/depgraph/internal/idgen"
	"github.com/groblegark/depgraph/internal/model"
)

// ErrMiss is returned by Get when no usable entry exists for a key.
var ErrMiss = errors.New("cache: miss")

// Dir is a file-per-issue cache rooted at a single directory. Each entry
// lives at <root>/<KEY>.json.
type Dir struct {
	root string
}

// New creates a cache rooted at the given directory. The directory is
// created lazily on the first Put.
func New(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the cache directory.
func (d *Dir) Root() string { return d.root }

func (d *Dir) entryPath(key string) string {
	// Escaping keeps separators and dot segments out of the file name.
	return filepath.Join(d.root, url.PathEscape(key)+".json")
}

// Get loads the cached record for key. A missing or undecodable entry is
// reported as ErrMiss so the caller refetches and repairs it.
func (d *Dir) Get(key string) (*model.Issue, error) {
	data, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	var issue model.Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, ErrMiss
	}
	return &issue, nil
}

// Put stores the record under its own key. The entry is written to a temp
// file and renamed into place so readers never observe a partial write.
func (d *Dir) Put(issue *model.Issue) error {
	if issue == nil || issue.Key == "" {
		return errors.New("cache: issue has no key")
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	suffix, err := idgen.Suffix()
	if err != nil {
		return err
	}
	path := d.entryPath(issue.Key)
	tmp := path + ".tmp-" + suffix

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(issue); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding cache entry %s: %w", issue.Key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storing cache entry %s: %w", issue.Key, err)
	}
	return nil
}

// Clear removes every entry (and any orphaned temp file) and reports how
// many entries were removed. The directory itself is kept.
func (d *Dir) Clear() (int, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cache dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		isEntry := filepath.Ext(name) == ".json"
		isOrphan := strings.Contains(name, ".tmp-")
		if !isEntry && !isOrphan {
			continue
		}
		if err := os.Remove(filepath.Join(d.root, name)); err != nil {
			return removed, err
		}
		if isEntry {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the cache contents.
type Stats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// Stats scans the cache directory. A missing directory counts as empty.
func (d *Dir) Stats() (Stats, error) {
	var st Stats
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("reading cache dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}
