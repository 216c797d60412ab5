// Package prices resolves (ticker, date) pairs to closing prices through a
// persistent per-ticker cache backed by an external price source.
package prices

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dcwatch/dcwatch/pkg/logger"
)

// metaCachedAt is the per-ticker metadata key marking the last refresh.
// Keys with the meta prefix are never treated as price dates.
const (
	metaPrefix   = "_"
	metaCachedAt = "_cached_at"
)

// Cache is the persistent date→price store for one ticker at a time.
// Load returns an empty map when nothing is cached; Save never reports
// failure to callers (a lost cache write only costs a refetch).
type Cache interface {
	Load(ticker string) map[string]float64
	Save(ticker string, prices map[string]float64)
}

// FileCache stores one JSON file per ticker under a cache directory.
type FileCache struct {
	dir    string
	logger *logger.Logger
}

// NewFileCache creates the cache directory if needed and returns the cache.
func NewFileCache(dir string, log *logger.Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, logger: log}, nil
}

// path returns the cache file path for a ticker, sanitized so a ticker can
// never escape the cache directory.
func (c *FileCache) path(ticker string) string {
	safe := strings.ReplaceAll(ticker, "/", "_")
	safe = strings.ReplaceAll(safe, "\\", "_")
	safe = strings.ReplaceAll(safe, "..", "_")
	return filepath.Join(c.dir, safe+".json")
}

// Load reads cached prices for a ticker. Metadata keys are stripped;
// a missing or corrupt file yields an empty map.
func (c *FileCache) Load(ticker string) map[string]float64 {
	prices := make(map[string]float64)

	data, err := os.ReadFile(c.path(ticker))
	if err != nil {
		return prices
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Corrupt price cache file, ignoring")
		return prices
	}

	for k, v := range raw {
		if strings.HasPrefix(k, metaPrefix) {
			continue
		}
		if f, ok := v.(float64); ok {
			prices[k] = f
		}
	}
	return prices
}

// Save writes the full price map for a ticker plus a refresh timestamp.
func (c *FileCache) Save(ticker string, prices map[string]float64) {
	raw := make(map[string]interface{}, len(prices)+1)
	for k, v := range prices {
		raw[k] = v
	}
	raw[metaCachedAt] = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		c.logger.WithError(err).Warn("Could not marshal price cache")
		return
	}

	if err := os.WriteFile(c.path(ticker), data, 0o644); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Could not write price cache")
	}
}
