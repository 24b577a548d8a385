package assessment

import (
	"bytes"
	"encoding/json"
)

// Record is the assembled, display-ready form of one accepted submission.
// Sections and fields keep catalog declaration order.
type Record struct {
	Sections []SectionRecord `json:"sections"`
}

// SectionRecord holds the resolved fields of one section.
type SectionRecord struct {
	Name   string          `json:"name"`
	Fields []ResolvedField `json:"fields"`
}

// ResolvedField is a field's final display string.
type ResolvedField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// FlatRow is one "{section}_{label}" / value pair.
type FlatRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Value returns the resolved value of the field with the given id.
func (r *Record) Value(id string) (string, bool) {
	for _, s := range r.Sections {
		for _, f := range s.Fields {
			if f.ID == id {
				return f.Value, true
			}
		}
	}
	return "", false
}

// Lookup returns the value stored under section and label.
func (r *Record) Lookup(section, label string) (string, bool) {
	for _, s := range r.Sections {
		if s.Name != section {
			continue
		}
		for _, f := range s.Fields {
			if f.Label == label {
				return f.Value, true
			}
		}
	}
	return "", false
}

// Flatten returns one row per field, ordered by section then field.
func (r *Record) Flatten() []FlatRow {
	var rows []FlatRow
	for _, s := range r.Sections {
		for _, f := range s.Fields {
			rows = append(rows, FlatRow{Label: s.Name + "_" + f.Label, Value: f.Value})
		}
	}
	return rows
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{Sections: make([]SectionRecord, len(r.Sections))}
	for i, s := range r.Sections {
		out.Sections[i] = SectionRecord{Name: s.Name, Fields: append([]ResolvedField(nil), s.Fields...)}
	}
	return out
}

// MarshalJSON renders the record as a nested object
// {"section": {"label": "value"}} in declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, s.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, f := range s.Fields {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, f.Label); err != nil {
				return nil, err
			}
			v, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	b, err := json.Marshal(k)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}
