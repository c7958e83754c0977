package pipeline

import (
	"context"

	"taxi-report/internal/model"
	"taxi-report/internal/query"
	"taxi-report/internal/store"
	"taxi-report/internal/table"
)

// ingest runs the question's query and validates the result's columns.
func (p *Pipeline) ingest(ctx context.Context, q model.Question) (*table.Table, error) {
	def, err := query.Lookup(q.Query)
	if err != nil {
		return nil, model.Fail(q.ID, "query", model.ErrQuery, err)
	}
	sql, err := def.SQL(p.cfg.Database.Dialect)
	if err != nil {
		return nil, model.Fail(q.ID, "query", model.ErrQuery, err)
	}

	p.log.Debug().Str("question", q.ID).Str("query", def.ID).Msg("running query")
	t, err := store.Query(ctx, p.db, q.ID, sql)
	if err != nil {
		return nil, err
	}
	if err := validateSchema(q, def, t); err != nil {
		return nil, err
	}
	return t, nil
}

// reload reads back the CSV just written for a question.
func (p *Pipeline) reload(q model.Question) (*table.Table, error) {
	t, err := table.LoadCSV(q.ID, p.out.CSVPath(q.ID))
	if err != nil {
		return nil, model.Fail(q.ID, "reload", model.ErrIO, err)
	}
	return t, nil
}
