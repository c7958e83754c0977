package pipeline

import (
	"os"
	"time"

	"github.com/goccy/go-json"

	"taxi-report/internal/model"
	"taxi-report/internal/table"
)

// tracker accumulates the run summary as questions complete.
type tracker struct {
	summary model.RunSummary
}

func newTracker(runID, dialect, dir string) *tracker {
	return &tracker{summary: model.RunSummary{
		RunID:      runID,
		Dialect:    dialect,
		ResultsDir: dir,
		StartTime:  time.Now().UTC(),
		Questions:  []model.QuestionResult{},
	}}
}

func (tr *tracker) record(id string, t *table.Table, took time.Duration, artifacts []model.ExportResult) model.QuestionResult {
	res := model.QuestionResult{
		ID:        id,
		Columns:   append([]string(nil), t.Columns...),
		Rows:      t.Len(),
		Duration:  took,
		Artifacts: artifacts,
	}
	tr.summary.Questions = append(tr.summary.Questions, res)
	return res
}

func (tr *tracker) finish() *model.RunSummary {
	tr.summary.EndTime = time.Now().UTC()
	s := tr.summary
	return &s
}

// writeManifest saves the summary as indented JSON.
func writeManifest(path string, s *model.RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
