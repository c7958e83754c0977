package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"taxi-report/pkg/utils"
)

// Render prints the table with aligned columns and a leading row number, the
// way a data frame prints. Absent cells print as NULL.
func (t *Table) Render(w io.Writer) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(append([]string{""}, t.Columns...))
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetBorder(false)
	tw.SetHeaderLine(false)
	tw.SetCenterSeparator("")
	tw.SetColumnSeparator("")
	tw.SetRowSeparator("")
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)

	for i, row := range t.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range row {
			if v == nil {
				cells = append(cells, "NULL")
				continue
			}
			cells = append(cells, utils.FormatValue(v))
		}
		tw.Append(cells)
	}
	tw.Render()

	if len(t.Rows) == 0 {
		if _, err := fmt.Fprintf(w, "(%s: 0 rows)\n", t.Name); err != nil {
			return err
		}
	}
	return nil
}
