package pipeline

import (
	"fmt"

	"taxi-report/internal/model"
	"taxi-report/internal/query"
	"taxi-report/internal/table"
)

// validatePlan checks that every question names a known query or joins
// questions that run before it, and that ids are unique.
func validatePlan(questions []model.Question, dialect string) error {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question without id")
		}
		if seen[q.ID] {
			return fmt.Errorf("question %s: duplicate id", q.ID)
		}

		switch {
		case q.Join != nil && q.Query != "":
			return fmt.Errorf("question %s: has both a query and a join", q.ID)
		case q.Join != nil:
			for _, dep := range []string{q.Join.Left, q.Join.Right} {
				if !seen[dep] {
					return fmt.Errorf("question %s: joins %q, which does not run before it", q.ID, dep)
				}
			}
		default:
			def, err := query.Lookup(q.Query)
			if err != nil {
				return fmt.Errorf("question %s: %w", q.ID, err)
			}
			if _, err := def.SQL(dialect); err != nil {
				return fmt.Errorf("question %s: %w", q.ID, err)
			}
		}
		seen[q.ID] = true
	}
	return nil
}

// validateSchema enforces a query's column contract right after execution.
func validateSchema(q model.Question, def query.Definition, t *table.Table) error {
	return model.Fail(q.ID, "schema", model.ErrSchemaMismatch, t.Expect(def.Columns))
}
