package export

import (
	"fmt"
	"mime"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Format is a download file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	MIMECSV  = "text/csv; charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUnknownFormat = goerr.New("unknown export format")

// ParseFormat accepts "csv" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", goerr.Wrap(ErrUnknownFormat, "unsupported format", goerr.V("format", s))
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return MIMEXLSX
	}
	return MIMECSV
}

// Filename returns "{reportType}_{name}_{date}.{ext}". Path separators in
// the respondent's name are replaced so the result is a single path
// element.
func Filename(reportType, name, date string, f Format) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return fmt.Sprintf("%s_%s_%s.%s", reportType, name, date, f)
}

// ContentDisposition builds an attachment header value. Non-ASCII names
// are carried in the RFC 5987 filename* parameter.
func ContentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// Encode renders the table in the requested format.
func Encode(f Format, sheet string, t *Table) ([]byte, error) {
	switch f {
	case FormatCSV:
		return EncodeCSV(t)
	case FormatXLSX:
		return EncodeXLSX(sheet, t)
	}
	return nil, goerr.Wrap(ErrUnknownFormat, "unsupported format", goerr.V("format", string(f)))
}
