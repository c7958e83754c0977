// Package pipeline runs the taxi trip report: one query per question, each
// result persisted as CSV, reloaded, printed and optionally charted.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taxi-report/internal/config"
	"taxi-report/internal/logging"
	"taxi-report/internal/model"
	"taxi-report/internal/store"
	"taxi-report/internal/table"
	"taxi-report/pkg/utils"
)

// Pipeline executes a question plan against one open database.
type Pipeline struct {
	cfg       *config.Config
	db        *sql.DB
	out       *utils.OutputManager
	questions []model.Question
	stdout    io.Writer
	runID     string
	log       zerolog.Logger

	tables map[string]*table.Table
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithStdout sets where result tables are printed. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(p *Pipeline) { p.stdout = w }
}

// WithQuestions replaces the default question plan.
func WithQuestions(qs []model.Question) Option {
	return func(p *Pipeline) { p.questions = qs }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

// New creates a pipeline over an already-open database.
func New(cfg *config.Config, db *sql.DB, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		db:        db,
		out:       utils.NewOutputManager(cfg.Results.Dir),
		questions: DefaultQuestions(),
		stdout:    os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.log = logging.Logger().With().Str("run_id", p.runID).Logger()
	return p
}

// Execute applies cfg's logging settings, validates cfg, connects, and runs
// every question once.
func Execute(ctx context.Context, cfg *config.Config, opts ...Option) (*model.RunSummary, error) {
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return New(cfg, db, opts...).Run(ctx)
}

// Run executes the plan in order and stops at the first failure. The returned
// summary covers the questions that completed.
func (p *Pipeline) Run(ctx context.Context) (*model.RunSummary, error) {
	if err := validatePlan(p.questions, p.cfg.Database.Dialect); err != nil {
		return nil, model.Fail("", "plan", model.ErrQuery, err)
	}
	if err := p.prepareOutput(); err != nil {
		return nil, err
	}

	p.tables = make(map[string]*table.Table, len(p.questions))
	tr := newTracker(p.runID, p.cfg.Database.Dialect, p.cfg.Results.Dir)
	p.log.Info().
		Str("dialect", p.cfg.Database.Dialect).
		Str("results_dir", p.cfg.Results.Dir).
		Int("questions", len(p.questions)).
		Msg("report started")

	for _, q := range p.questions {
		if err := ctx.Err(); err != nil {
			return tr.finish(), model.Fail(q.ID, "run", model.ErrQuery, err)
		}

		start := time.Now()
		t, artifacts, err := p.runQuestion(ctx, q)
		if err != nil {
			p.log.Error().Err(err).Str("question", q.ID).Msg("question failed")
			return tr.finish(), err
		}
		res := tr.record(q.ID, t, time.Since(start), artifacts)
		p.log.Info().
			Str("question", q.ID).
			Int("rows", res.Rows).
			Int("artifacts", len(res.Artifacts)).
			Dur("duration", res.Duration).
			Msg("question complete")
	}

	summary := tr.finish()
	if p.cfg.Results.Manifest {
		if err := writeManifest(p.out.ManifestPath(), summary); err != nil {
			return summary, model.Fail("", "manifest", model.ErrIO, err)
		}
	}
	p.log.Info().
		Int("artifacts", len(summary.Artifacts())).
		Dur("duration", summary.EndTime.Sub(summary.StartTime)).
		Msg("report complete")
	return summary, nil
}

func (p *Pipeline) prepareOutput() error {
	if p.cfg.Results.CreateDir {
		if err := p.out.EnsureOutputDirExists(); err != nil {
			return model.Fail("", "output", model.ErrIO, err)
		}
	}
	if err := p.out.CheckOutputDir(); err != nil {
		return model.Fail("", "output", model.ErrIO, err)
	}
	return nil
}

// runQuestion produces, persists, reloads, prints and charts one question.
func (p *Pipeline) runQuestion(ctx context.Context, q model.Question) (*table.Table, []model.ExportResult, error) {
	var (
		t   *table.Table
		err error
	)
	if q.Join != nil {
		t, err = p.join(q)
	} else {
		t, err = p.ingest(ctx, q)
	}
	if err != nil {
		return nil, nil, err
	}

	t, csvResult, err := p.exportCSV(q, t)
	if err != nil {
		return nil, nil, err
	}
	p.tables[q.ID] = t
	artifacts := []model.ExportResult{csvResult}

	if !q.Quiet {
		if err := p.print(q, t); err != nil {
			return nil, nil, err
		}
	}

	charts, err := p.exportCharts(q, t)
	artifacts = append(artifacts, charts...)
	if err != nil {
		return nil, nil, err
	}
	return t, artifacts, nil
}

func (p *Pipeline) print(q model.Question, t *table.Table) error {
	if _, err := fmt.Fprintf(p.stdout, "%s\n", q.ID); err != nil {
		return model.Fail(q.ID, "print", model.ErrIO, err)
	}
	if err := t.Render(p.stdout); err != nil {
		return model.Fail(q.ID, "print", model.ErrIO, err)
	}
	if _, err := fmt.Fprintln(p.stdout); err != nil {
		return model.Fail(q.ID, "print", model.ErrIO, err)
	}
	return nil
}
