package export

import (
	"bytes"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 12
	maxColWidth = 60
)

// EncodeXLSX renders the table as a workbook with a single worksheet named
// sheet. The header row is bold, shaded, and frozen.
func EncodeXLSX(sheet string, t *Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	// WriteTo needs the file open; every exit path closes it.
	fail := func(err error, msg string, values ...goerr.Option) ([]byte, error) {
		_ = f.Close()
		return nil, goerr.Wrap(err, msg, values...)
	}

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fail(err, "failed to create sheet", goerr.V("sheet", sheet))
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fail(err, "failed to delete default sheet")
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fail(err, "failed to create header style")
	}

	for col, header := range t.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fail(err, "failed to convert coordinates", goerr.V("col", col+1))
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fail(err, "failed to set header cell", goerr.V("cell", cell))
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fail(err, "failed to set header style", goerr.V("cell", cell))
		}
	}

	for r, row := range t.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return fail(err, "failed to convert coordinates", goerr.V("col", col+1), goerr.V("row", r+2))
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fail(err, "failed to set cell", goerr.V("cell", cell))
			}
		}
	}

	for col := range t.Header {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fail(err, "failed to convert column number", goerr.V("col", col+1))
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(t, col)); err != nil {
			return fail(err, "failed to set column width", goerr.V("col", name))
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fail(err, "failed to freeze header row")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fail(err, "failed to write workbook")
	}
	if err := f.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to close workbook")
	}
	return buf.Bytes(), nil
}

// columnWidth sizes a column to its longest cell. CJK characters take two
// width units.
func columnWidth(t *Table, col int) float64 {
	width := displayWidth(t.Header[col])
	for _, row := range t.Rows {
		if w := displayWidth(row[col]); w > width {
			width = w
		}
	}
	switch {
	case width < minColWidth:
		return minColWidth
	case width > maxColWidth:
		return maxColWidth
	}
	return float64(width)
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if utf8.RuneLen(r) > 1 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
