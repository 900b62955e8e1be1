// Package reporting renders run results: the JSON artifact consumed by
// downstream delivery, plus markdown and CSV views for humans.
package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"squeeze-radar/internal/domain"
)

// ArtifactFile is the name of the per-run JSON artifact.
const ArtifactFile = "alerts.json"

// WriteArtifact writes the run report JSON into dir.
func WriteArtifact(dir string, report *domain.RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	path := filepath.Join(dir, ArtifactFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}

// ReadArtifact reads a previously written run report from dir.
func ReadArtifact(dir string) (*domain.RunReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, ArtifactFile))
	if err != nil {
		return nil, fmt.Errorf("read run report: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse run report: %w", err)
	}
	return &report, nil
}
