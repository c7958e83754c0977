package pipeline

import (
	"taxi-report/internal/model"
	"taxi-report/internal/query"
)

const (
	tipsTitle = "Number of rides with tips"
	countAxis = "Count"
)

// DefaultQuestions is the report, in execution order.
func DefaultQuestions() []model.Question {
	return []model.Question{
		{ID: "question1", Query: query.AvgDistance},
		{ID: "question2", Query: query.TopVendors},
		{ID: "question3a", Query: query.CashRides, Quiet: true},
		{ID: "question3b", Query: query.NonCashRides, Quiet: true},
		{
			ID: "question3",
			Join: &model.JoinSpec{
				Left:   "question3a",
				Right:  "question3b",
				On:     []string{"month", "year"},
				SortBy: []string{"year", "month"},
			},
			Charts: []model.ChartSpec{{
				Kind:   model.ChartBar,
				Title:  "Number of rides paid with and without cash",
				XLabel: "(Month, Year)",
				YLabel: countAxis,
				Index:  []string{"month", "year"},
				Series: []string{"cash_only", "not_cash"},
			}},
		},
		{
			ID:    "question4a",
			Query: query.TipsByDayOfYear,
			Charts: tipCharts("# of day of the year", []string{"date"}),
		},
		{
			ID:     "question4b",
			Query:  query.TipsByDayMonth,
			Charts: tipCharts("(Day, Month)", []string{"day", "month"}),
		},
		{
			ID: "question4",
			Join: &model.JoinSpec{
				Left:        "question4a",
				Right:       "question4b",
				On:          []string{"day", "month"},
				SortBy:      []string{"month", "day"},
				LeftSuffix:  "_by_date",
				RightSuffix: "_by_day",
				RekeyLeft:   &model.Rekey{DayOfYear: "date", Year: query.TipsYear},
			},
		},
		{ID: "question5", Query: query.WeekendDuration},
	}
}

func tipCharts(xLabel string, index []string) []model.ChartSpec {
	charts := make([]model.ChartSpec, 0, 2)
	for _, kind := range []model.ChartKind{model.ChartLine, model.ChartBar} {
		charts = append(charts, model.ChartSpec{
			Kind:   kind,
			Suffix: string(kind),
			Title:  tipsTitle,
			XLabel: xLabel,
			YLabel: countAxis,
			Index:  index,
			Series: []string{"tips"},
		})
	}
	return charts
}
