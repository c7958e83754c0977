package model

// ChartKind selects how a result table is drawn.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// ChartSpec describes one image rendered from a result table
type ChartSpec struct {
	Kind   ChartKind `json:"kind"`
	Suffix string    `json:"suffix,omitempty"` // appended to the question id, e.g. "line" -> question4a_line.png
	Title  string    `json:"title"`
	XLabel string    `json:"xLabel"`
	YLabel string    `json:"yLabel"`
	Index  []string  `json:"index"`  // columns forming the x axis labels
	Series []string  `json:"series"` // numeric columns drawn as bars or lines
}

// Rekey derives (day, month) columns from a day-of-year column so a table
// keyed by date can be joined against one keyed by (day, month).
type Rekey struct {
	DayOfYear string `json:"dayOfYear"`
	Year      int    `json:"year"`
}

// JoinSpec combines two previously produced tables
type JoinSpec struct {
	Left        string   `json:"left"`  // question id of the left table
	Right       string   `json:"right"` // question id of the right table
	On          []string `json:"on"`
	SortBy      []string `json:"sortBy"`
	LeftSuffix  string   `json:"leftSuffix,omitempty"`
	RightSuffix string   `json:"rightSuffix,omitempty"`
	RekeyLeft   *Rekey   `json:"rekeyLeft,omitempty"`
}

// Question is one step of the report: either a query or a join of earlier results.
type Question struct {
	ID     string      `json:"id"`    // artifact name, e.g. "question3a"
	Query  string      `json:"query"` // query definition id; empty for joins
	Join   *JoinSpec   `json:"join,omitempty"`
	Quiet  bool        `json:"quiet"` // intermediate table, not printed
	Charts []ChartSpec `json:"charts,omitempty"`
}
