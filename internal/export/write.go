package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/job-scout/internal/types"
)

// FileName returns the default export name for a run.
func FileName(runID, ext string) string {
	return fmt.Sprintf("jobs_%s.%s", runID, ext)
}

// WriteCSV writes a header row followed by every table row.
func WriteCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteJSON writes the scored jobs as an indented JSON array.
func WriteJSON(w io.Writer, jobs []types.ScoredJob) error {
	if jobs == nil {
		jobs = []types.ScoredJob{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jobs); err != nil {
		return fmt.Errorf("failed to encode jobs: %w", err)
	}
	return nil
}

// SaveFile writes jobs to path, choosing CSV or JSON from the extension.
func SaveFile(path string, jobs []types.ScoredJob) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		err = WriteJSON(f, jobs)
	default:
		err = WriteCSV(f, BuildTable(jobs))
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return err
}
