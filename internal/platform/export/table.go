// Package export encodes tabular reports as downloadable CSV and XLSX files.
package export

import "github.com/m-mizutani/goerr/v2"

var ErrRaggedTable = goerr.New("row width does not match header")

// Table is a header row followed by data rows of the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Validate checks that every row has one cell per header column.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return goerr.Wrap(ErrRaggedTable, "invalid table",
				goerr.V("row", i), goerr.V("width", len(row)), goerr.V("header_width", len(t.Header)))
		}
	}
	return nil
}
