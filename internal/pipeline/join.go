package pipeline

import (
	"fmt"
	"time"

	"taxi-report/internal/model"
	"taxi-report/internal/table"
	"taxi-report/pkg/utils"
)

// join combines two tables produced earlier in the run.
func (p *Pipeline) join(q model.Question) (*table.Table, error) {
	spec := q.Join
	left, right := p.tables[spec.Left], p.tables[spec.Right]
	if left == nil || right == nil {
		return nil, model.Fail(q.ID, "join", model.ErrJoinKey,
			fmt.Errorf("inputs %s and %s are not both available", spec.Left, spec.Right))
	}

	if spec.RekeyLeft != nil {
		var err error
		left, err = rekeyDayOfYear(left, *spec.RekeyLeft)
		if err != nil {
			return nil, model.Fail(q.ID, "join", model.ErrJoinKey, err)
		}
	}

	t, err := table.Join(q.ID, left, right, table.JoinOptions{
		On:          spec.On,
		LeftSuffix:  spec.LeftSuffix,
		RightSuffix: spec.RightSuffix,
	})
	if err != nil {
		return nil, model.Fail(q.ID, "join", model.ErrJoinKey, err)
	}
	if len(spec.SortBy) > 0 {
		if err := t.SortBy(spec.SortBy...); err != nil {
			return nil, model.Fail(q.ID, "join", model.ErrJoinKey, err)
		}
	}
	return t, nil
}

// rekeyDayOfYear adds day and month columns computed from a day-of-year column.
func rekeyDayOfYear(t *table.Table, rk model.Rekey) (*table.Table, error) {
	i := t.Index(rk.DayOfYear)
	if i < 0 {
		return nil, fmt.Errorf("table %s has no column %q", t.Name, rk.DayOfYear)
	}
	return t.WithColumns([]string{"day", "month"}, func(row []interface{}) ([]interface{}, error) {
		if row[i] == nil {
			return []interface{}{nil, nil}, nil
		}
		doy, ok := utils.Numeric(row[i])
		if !ok {
			return nil, fmt.Errorf("%s value %v is not a day of the year", rk.DayOfYear, row[i])
		}
		d := time.Date(rk.Year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(doy)-1)
		if d.Year() != rk.Year {
			return nil, fmt.Errorf("day %v is outside %d", row[i], rk.Year)
		}
		return []interface{}{int64(d.Day()), int64(d.Month())}, nil
	})
}
