package pipeline

import (
	"time"

	"taxi-report/internal/chart"
	"taxi-report/internal/model"
	"taxi-report/internal/table"
)

// exportCSV writes the question's table and reloads it from disk. The reloaded
// table is what the rest of the run sees.
func (p *Pipeline) exportCSV(q model.Question, t *table.Table) (*table.Table, model.ExportResult, error) {
	path := p.out.CSVPath(q.ID)
	if err := t.SaveCSV(path); err != nil {
		return nil, model.ExportResult{}, model.Fail(q.ID, "export", model.ErrIO, err)
	}
	res, err := p.artifact(path, t.Len())
	if err != nil {
		return nil, model.ExportResult{}, model.Fail(q.ID, "export", model.ErrIO, err)
	}

	reloaded, err := p.reload(q)
	if err != nil {
		return nil, model.ExportResult{}, err
	}
	return reloaded, res, nil
}

// exportCharts renders every chart the question asks for.
func (p *Pipeline) exportCharts(q model.Question, t *table.Table) ([]model.ExportResult, error) {
	results := make([]model.ExportResult, 0, len(q.Charts))
	for _, spec := range q.Charts {
		path := p.out.ImagePath(q.ID, spec.Suffix)
		if err := chart.Render(t, spec, path); err != nil {
			return results, model.Fail(q.ID, "chart", model.ErrRender, err)
		}
		res, err := p.artifact(path, t.Len())
		if err != nil {
			return results, model.Fail(q.ID, "chart", model.ErrIO, err)
		}
		p.log.Debug().Str("question", q.ID).Str("path", path).Msg("chart written")
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) artifact(path string, records int) (model.ExportResult, error) {
	size, err := p.out.GetFileSize(path)
	if err != nil {
		return model.ExportResult{}, err
	}
	return model.ExportResult{
		Type:        p.out.GetFileType(path),
		Path:        path,
		RecordCount: records,
		Bytes:       size,
		ExportedAt:  time.Now().UTC(),
	}, nil
}
