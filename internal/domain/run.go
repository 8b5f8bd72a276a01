package domain

import "time"

// RunSummary describes one successful pipeline run.
type RunSummary struct {
	Pipeline   PipelineName `json:"pipeline"`
	Items      int          `json:"items"`      // Rows written to the pipeline table
	Categories int          `json:"categories"` // Canonical categories written (brands only)
	Scrolls    int          `json:"scrolls"`    // Scrolls performed by the harvester
	Converged  bool         `json:"converged"`  // False when the scroll budget ran out
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}
