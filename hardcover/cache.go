package hardcover

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReadCache returns the cached payload when the file at path is fresh.
// Any failure to serve it (missing file, stale mtime, unparsable JSON)
// is a cache miss, never an error: callers fall through to a live fetch.
func ReadCache(path string, ttl time.Duration) *Payload {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if time.Since(info.ModTime()) > ttl {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// WriteCache persists the payload, creating parent directories as
// needed. The write goes to a temporary path first and is renamed over
// the target, so a crash mid-write never leaves a truncated cache.
func WriteCache(path string, p *Payload) error {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, path)
}

// FetchReadingData serves the cached payload when it is fresh and the
// cache is not bypassed, otherwise fetches live and refreshes the
// cache. Local caching keeps repeated runs off the network; CI disables
// it (nocache, or a zero TTL).
func FetchReadingData(ctx context.Context, c *Client, cachePath string, ttl time.Duration, nocache bool) (*Payload, error) {
	if !nocache {
		if p := ReadCache(cachePath, ttl); p != nil {
			return p, nil
		}
	}

	p, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := WriteCache(cachePath, p); err != nil {
		return nil, err
	}
	return p, nil
}
