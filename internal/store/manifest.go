package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the per-run manifest written next to the artifact.
const ManifestName = "manifest.json"

// Manifest records what one processing run produced and at what quality.
type Manifest struct {
	RunID              string            `json:"run_id"`
	Inputs             []string          `json:"inputs"`
	Rows               int               `json:"rows"`
	DroppedRows        int               `json:"dropped_rows"`
	DegradedTimestamps int               `json:"degraded_timestamps"`
	Outputs            map[string]string `json:"outputs"`
	FinishedAt         time.Time         `json:"finished_at"`
}

// NewManifest stamps a fresh run identifier and completion time.
func NewManifest(inputs []string, rows, dropped, degraded int, outputs map[string]string) Manifest {
	return Manifest{
		RunID:              uuid.NewString(),
		Inputs:             inputs,
		Rows:               rows,
		DroppedRows:        dropped,
		DegradedTimestamps: degraded,
		Outputs:            outputs,
		FinishedAt:         time.Now().UTC(),
	}
}

// WriteManifest persists the manifest into the writer's output directory.
func (w *Writer) WriteManifest(m Manifest) error {
	path := filepath.Join(w.dir, ManifestName)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
