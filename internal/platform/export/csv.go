package export

import (
	"bytes"
	"encoding/csv"

	"github.com/m-mizutani/goerr/v2"
)

// BOM is the UTF-8 byte order mark. Spreadsheet applications use it to
// detect the encoding of a CSV file.
const BOM = "\xEF\xBB\xBF"

// EncodeCSV renders the table as BOM-prefixed UTF-8 CSV with standard
// quoting.
func EncodeCSV(t *Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, goerr.Wrap(err, "failed to write CSV header")
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, goerr.Wrap(err, "failed to write CSV rows")
	}
	return buf.Bytes(), nil
}
