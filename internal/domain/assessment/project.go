package assessment

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/export"
)

// Project turns flattened rows into a single-row table whose header is the
// catalog's label list. Rows must carry exactly the catalog's labels in
// declaration order.
func Project(cat *catalog.Catalog, rows []FlatRow) (*export.Table, error) {
	labels := cat.Labels()
	if len(rows) != len(labels) {
		return nil, goerr.Wrap(ErrMalformedRecord, "row count does not match catalog",
			goerr.V("rows", len(rows)), goerr.V("fields", len(labels)))
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		if row.Label != labels[i] {
			return nil, goerr.Wrap(ErrMalformedRecord, "unexpected label",
				goerr.V("index", i), goerr.V("label", row.Label), goerr.V("want", labels[i]))
		}
		values[i] = row.Value
	}
	return &export.Table{Header: labels, Rows: [][]string{values}}, nil
}

// Download is an encoded export ready to send.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export projects the record and encodes it in the requested format.
func Export(cat *catalog.Catalog, rec *Record, f export.Format) (*Download, error) {
	tbl, err := Project(cat, rec.Flatten())
	if err != nil {
		return nil, err
	}
	data, err := export.Encode(f, cat.ReportType(), tbl)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode export", goerr.V("format", string(f)))
	}
	name, _ := rec.Value("name")
	date, _ := rec.Value("report_date")
	return &Download{
		Filename:    export.Filename(cat.ReportType(), name, date, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
