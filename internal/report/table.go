// Package report holds the tabular form every report is reduced to before
// delivery. The transform to CSV is pure; delivery decides where the bytes
// go and nothing is ever written to disk.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Table is a finished report: a name, a header row and data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Filename is the attachment name for the table's CSV rendering.
func (t Table) Filename() string {
	return t.Name + ".csv"
}

// ToCSV renders the table as CSV bytes, header first. Output is
// deterministic for identical input.
func (t Table) ToCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}

	return buf.Bytes(), nil
}
