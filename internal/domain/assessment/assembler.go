package assessment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tcm/intake/internal/domain/catalog"
)

const (
	complaintSeparator = ", "
	unspecified        = "未指定"
)

// Assemble validates the answers and resolves every catalog field into its
// display string. now supplies the date for fields that default to today.
// When validation fails no record is produced.
func Assemble(cat *catalog.Catalog, a Answers, now time.Time) (*Record, error) {
	if err := Validate(cat, a); err != nil {
		return nil, err
	}

	rec := &Record{Sections: make([]SectionRecord, 0, len(cat.Sections()))}
	for _, s := range cat.Sections() {
		sec := SectionRecord{Name: s.Name, Fields: make([]ResolvedField, 0, len(s.Fields))}
		for _, f := range s.Fields {
			sec.Fields = append(sec.Fields, ResolvedField{
				ID:    f.ID,
				Label: f.Label,
				Value: resolve(cat, f, a, now),
			})
		}
		rec.Sections = append(rec.Sections, sec)
	}
	return rec, nil
}

func resolve(cat *catalog.Catalog, f *catalog.Field, a Answers, now time.Time) string {
	if !cat.Applicable(f.ID, a.Selections) {
		return f.NotApplicable
	}
	v := a[f.ID]

	switch f.Kind {
	case catalog.KindMulti:
		if len(v.Choices) == 0 {
			return f.Default
		}
		return strings.Join(v.Choices, ", ")

	case catalog.KindComplaints:
		return formatComplaints(v.Complaints, f.Default)

	case catalog.KindText:
		if v.Text == nil || strings.TrimSpace(*v.Text) == "" {
			return f.Default
		}
		return *v.Text

	case catalog.KindSingle:
		if v.Text == nil || *v.Text == "" || *v.Text == f.Placeholder {
			return f.Default
		}
		return *v.Text

	case catalog.KindNumber:
		if v.Number != nil {
			return formatNumber(f, *v.Number)
		}
		if n, err := strconv.Atoi(f.Default); err == nil {
			return formatNumber(f, n)
		}
		return f.Default

	case catalog.KindDate:
		if v.Date != nil {
			return v.Date.Format(DateLayout)
		}
		if f.DefaultToday {
			return now.Format(DateLayout)
		}
		return f.Default
	}
	return f.Default
}

func formatNumber(f *catalog.Field, n int) string {
	if f.Format == "" {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf(f.Format, n)
}

// formatComplaints renders the non-blank entries as
// "描述（部位：…，程度：…）" joined by ", ".
func formatComplaints(cs []Complaint, empty string) string {
	var parts []string
	for _, c := range cs {
		if c.Blank() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s（部位：%s，程度：%s）",
			c.Description, orUnspecified(c.Location), orUnspecified(c.Severity)))
	}
	if len(parts) == 0 {
		return empty
	}
	return strings.Join(parts, complaintSeparator)
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return unspecified
	}
	return s
}
