package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcwatch/dcwatch/pkg/logger"
)

// Writer persists analysis artifacts as indented JSON under the data
// directory.
type Writer struct {
	dataDir string
	logger  *logger.Logger
}

// NewWriter creates a writer rooted at dataDir, creating it if needed.
func NewWriter(dataDir string, log *logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}
	return &Writer{dataDir: dataDir, logger: log}, nil
}

// WriteJSON marshals v and writes it to name under the data directory.
func (w *Writer) WriteJSON(name string, v interface{}) error {
	path := filepath.Join(w.dataDir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w.logger.Infof("Wrote %s (%d bytes)", path, len(data))
	return nil
}
