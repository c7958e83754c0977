package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"taxi-report/pkg/utils"
)

// WriteCSV writes a header row followed by one record per row. A record that
// is a single empty field is written as "" so it is not read back as a blank
// line.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = utils.FormatValue(v)
		}
		if len(record) == 1 && record[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("csv flush: %w", err)
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			continue
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return nil
}

// SaveCSV writes the table to path, replacing any existing file. The parent
// directory is not created.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

// ReadCSV parses a CSV with a header row. Each column gets one type, inferred
// from its cells; empty cells become nil.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv %s: missing header", name)
	}
	if err != nil {
		return nil, fmt.Errorf("csv %s header: %w", name, err)
	}

	var records [][]string
	lineNum := 1
	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", name, lineNum, err)
		}
		records = append(records, record)
	}

	t := New(name, header...)
	t.Rows = make([][]interface{}, len(records))
	for r := range records {
		t.Rows[r] = make([]interface{}, len(header))
	}
	cells := make([]string, len(records))
	for c := range header {
		for r, rec := range records {
			cells[r] = rec[c]
		}
		for r, v := range utils.ParseColumn(cells) {
			t.Rows[r][c] = v
		}
	}
	return t, nil
}

// LoadCSV opens path and parses it with ReadCSV.
func LoadCSV(name, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(name, f)
}
