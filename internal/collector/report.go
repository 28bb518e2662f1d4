package collector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is the machine-readable summary of a collection run, written into
// the output directory alongside the collected images.
type Report struct {
	RunID            string       `json:"run_id"`
	CompletedAt      time.Time    `json:"completed_at"`
	ProcessedMarkers int          `json:"processed_markers"`
	Copied           int          `json:"copied"`
	NotFound         int          `json:"not_found"`
	IndexStale       int          `json:"index_stale"`
	Malformed        int          `json:"malformed"`
	CopyFailed       int          `json:"copy_failed"`
	DurationSeconds  float64      `json:"duration_seconds"`
	Unresolved       []Unresolved `json:"unresolved,omitempty"`
}

// Unresolved names a marker that did not result in a copied image.
type Unresolved struct {
	Marker  string  `json:"marker"`
	ID      string  `json:"id,omitempty"`
	Kind    string  `json:"kind,omitempty"`
	Outcome Outcome `json:"outcome"`
}

// NewReport builds a Report from a run result.
func NewReport(res *RunResult) *Report {
	report := &Report{
		RunID:            res.RunID,
		CompletedAt:      time.Now(),
		ProcessedMarkers: res.Total(),
		Copied:           res.Copied,
		NotFound:         res.NotFound,
		IndexStale:       res.IndexStale,
		Malformed:        res.Malformed,
		CopyFailed:       res.CopyFailed,
		DurationSeconds:  res.Duration.Seconds(),
	}

	for _, item := range res.Items {
		if item.Outcome == OutcomeCopied {
			continue
		}
		report.Unresolved = append(report.Unresolved, Unresolved{
			Marker:  filepath.Base(item.Marker.Path),
			ID:      item.Marker.ID,
			Kind:    item.Marker.Kind,
			Outcome: item.Outcome,
		})
	}

	return report
}

// WriteReport writes collect_report.json and collect_report.md into
// outputDir summarizing the run.
func WriteReport(outputDir string, res *RunResult) error {
	report := NewReport(res)

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	jsonPath := filepath.Join(outputDir, "collect_report.json")
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(outputDir, "collect_report.md")
	if err := os.WriteFile(mdPath, []byte(report.markdown()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", mdPath, err)
	}

	return nil
}

// markdown renders the report as a markdown table.
func (r *Report) markdown() string {
	md := fmt.Sprintf(`# Collect result
| Result | Count |
|--|--|
| Processed markers: | %d |
| Collected images: | %d |
| Not found: | %d |
| Index mismatches: | %d |
| Malformed marker names: | %d |
| Copy failures: | %d |
`, r.ProcessedMarkers, r.Copied, r.NotFound, r.IndexStale, r.Malformed, r.CopyFailed)

	if len(r.Unresolved) > 0 {
		md += "\n# Unresolved markers\n| Marker | Outcome |\n|--|--|\n"
		for _, u := range r.Unresolved {
			md += fmt.Sprintf("| %s | %s |\n", u.Marker, u.Outcome)
		}
	}

	return md
}
