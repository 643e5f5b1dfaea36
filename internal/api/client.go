package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pefman/warcry-anvil/internal/catalog"
)

const defaultCacheTTL = 5 * time.Minute

// Config holds API configuration
type Config struct {
	BaseURL  string
	CacheTTL time.Duration
}

// Client fetches reference data files from a data API (cmd/api serves them
// under /data/). It implements catalog.Source.
type Client struct {
	config Config
	http   *http.Client

	// Simple per-file cache to avoid refetching on every session
	mu    sync.RWMutex
	cache map[string]cachedFile
}

type cachedFile struct {
	data    []byte
	fetched time.Time
}

func NewClient(baseURL string) *Client {
	return NewClientWithConfig(Config{BaseURL: baseURL})
}

func NewClientWithConfig(cfg Config) *Client {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 8 * time.Second},
		cache:  map[string]cachedFile{},
	}
}

// ReadFile returns the named reference file, served from cache while fresh.
func (c *Client) ReadFile(ctx context.Context, name string) ([]byte, error) {
	// Check cache first
	c.mu.RLock()
	if f, ok := c.cache[name]; ok && time.Since(f.fetched) < c.config.CacheTTL {
		out := make([]byte, len(f.data))
		copy(out, f.data)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	data, err := c.get(ctx, "/data/"+name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[name] = cachedFile{data: data, fetched: time.Now()}
	c.mu.Unlock()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Invalidate drops every cached file.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cache)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	base := strings.TrimRight(c.config.BaseURL, "/")
	url := base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", catalog.ErrMissingFile, path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: api status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
