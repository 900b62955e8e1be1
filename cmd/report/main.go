// Package main renders the latest run artifact as markdown and CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"squeeze-radar/internal/reporting"
)

func main() {
	inDir := flag.String("in", "data/output", "Directory containing the run artifact")
	outDir := flag.String("out", "data/output", "Directory for rendered files")
	flag.Parse()

	report, err := reporting.ReadArtifact(*inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading run artifact: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outDir, "ALERTS.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing markdown: %v\n", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outDir, "candidates.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing csv: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendered:\n  - %s\n  - %s\n", mdPath, csvPath)
}
