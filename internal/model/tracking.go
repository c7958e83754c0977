package model

import "time"

// QuestionResult records what a single question produced
type QuestionResult struct {
	ID        string         `json:"id"`
	Columns   []string       `json:"columns"`
	Rows      int            `json:"rows"`
	Duration  time.Duration  `json:"duration"`
	Artifacts []ExportResult `json:"artifacts"`
}

// RunSummary is the manifest of one complete pipeline run
type RunSummary struct {
	RunID      string           `json:"run_id"`
	Dialect    string           `json:"dialect"`
	ResultsDir string           `json:"results_dir"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	Questions  []QuestionResult `json:"questions"`
}

// Artifacts returns every artifact of the run in production order.
func (s *RunSummary) Artifacts() []ExportResult {
	var out []ExportResult
	for _, q := range s.Questions {
		out = append(out, q.Artifacts...)
	}
	return out
}
