package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	TrackerURL string // DEPGRAPH_URL (optional; flags and remotes may supply it)
	Token      string // DEPGRAPH_TOKEN (optional, empty = anonymous access)
	CacheDir   string // DEPGRAPH_CACHE_DIR (default ~/.cache/depgraph)

	HTTPTimeout time.Duration // DEPGRAPH_HTTP_TIMEOUT (default 30s)
}

func Load() (*Config, error) {
	c := &Config{
		TrackerURL: os.Getenv("DEPGRAPH_URL"),
		Token:      os.Getenv("DEPGRAPH_TOKEN"),
		CacheDir:   os.Getenv("DEPGRAPH_CACHE_DIR"),
	}

	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache dir: %w", err)
		}
		c.CacheDir = filepath.Join(base, "depgraph")
	}

	timeoutStr := envOrDefault("DEPGRAPH_HTTP_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("DEPGRAPH_HTTP_TIMEOUT: %w", err)
	}
	c.HTTPTimeout = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
