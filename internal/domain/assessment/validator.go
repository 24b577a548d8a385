package assessment

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tcm/intake/internal/domain/catalog"
)

// Conform checks every applicable answer against the catalog: choice values
// must be declared options, numbers must be inside their bounds, and the
// complaint list must fit its slots. Answers to fields whose governing
// condition is false are ignored, because they resolve to the
// not-applicable sentinel whatever they contain.
func Conform(cat *catalog.Catalog, a Answers) error {
	for _, f := range cat.Fields() {
		v, ok := a[f.ID]
		if !ok || !cat.Applicable(f.ID, a.Selections) {
			continue
		}
		if err := conformValue(f, v); err != nil {
			return err
		}
	}
	for id := range a {
		if _, ok := cat.Field(id); !ok {
			return goerr.Wrap(ErrInvalidFieldValue, "unknown field", goerr.V("field", id))
		}
	}
	return nil
}

func conformValue(f *catalog.Field, v Value) error {
	invalid := func(msg string, value any) error {
		return goerr.Wrap(ErrInvalidFieldValue, msg, goerr.V("field", f.ID), goerr.V("value", value))
	}

	switch f.Kind {
	case catalog.KindText:
		if v.Choices != nil || v.Number != nil || v.Date != nil || v.Complaints != nil {
			return invalid("text expected", v)
		}
	case catalog.KindSingle:
		if v.Choices != nil || v.Number != nil || v.Date != nil || v.Complaints != nil {
			return invalid("single choice expected", v)
		}
		if v.Text != nil && *v.Text != "" && *v.Text != f.Placeholder && !f.HasOption(*v.Text) {
			return invalid("not an option", *v.Text)
		}
	case catalog.KindMulti:
		if v.Text != nil || v.Number != nil || v.Date != nil || v.Complaints != nil {
			return invalid("multiple choice expected", v)
		}
		seen := make(map[string]bool, len(v.Choices))
		for _, c := range v.Choices {
			if !f.HasOption(c) {
				return invalid("not an option", c)
			}
			if seen[c] {
				return invalid("option selected twice", c)
			}
			seen[c] = true
		}
	case catalog.KindNumber:
		if v.Text != nil || v.Choices != nil || v.Date != nil || v.Complaints != nil {
			return invalid("number expected", v)
		}
		if v.Number != nil && !f.InRange(*v.Number) {
			return invalid("number out of range", *v.Number)
		}
	case catalog.KindDate:
		if v.Text != nil || v.Choices != nil || v.Number != nil || v.Complaints != nil {
			return invalid("date expected", v)
		}
	case catalog.KindComplaints:
		if v.Text != nil || v.Choices != nil || v.Number != nil || v.Date != nil {
			return invalid("complaint list expected", v)
		}
		if len(v.Complaints) > f.Slots {
			return invalid("too many complaints", len(v.Complaints))
		}
		for _, c := range v.Complaints {
			if c.Severity != "" && !f.HasOption(c.Severity) {
				return invalid("unknown severity", c.Severity)
			}
		}
	}
	return nil
}

// Validate is the required-field gate. Every field assigned to a
// validation group must be present; all failing fields and their groups
// are reported together. Validate has no side effects.
func Validate(cat *catalog.Catalog, a Answers) error {
	var missing []string
	failed := make(map[string]bool)
	for _, f := range cat.Fields() {
		if f.Group == "" || !cat.Applicable(f.ID, a.Selections) {
			continue
		}
		if !present(f, a[f.ID]) {
			missing = append(missing, f.ID)
			failed[f.Group] = true
		}
	}
	if len(missing) == 0 {
		return nil
	}

	merr := &MissingFieldsError{Fields: missing}
	for _, g := range cat.Groups() {
		if failed[g.ID] {
			merr.Groups = append(merr.Groups, g)
		}
	}
	return merr
}

// present reports whether v counts as an answer for f. Zero is a valid
// number.
func present(f *catalog.Field, v Value) bool {
	switch f.Kind {
	case catalog.KindText:
		return v.Text != nil && strings.TrimSpace(*v.Text) != ""
	case catalog.KindSingle:
		return v.Text != nil && *v.Text != "" && *v.Text != f.Placeholder
	case catalog.KindMulti:
		return len(v.Choices) > 0
	case catalog.KindNumber:
		return v.Number != nil
	case catalog.KindDate:
		return v.Date != nil
	case catalog.KindComplaints:
		for _, c := range v.Complaints {
			if !c.Blank() {
				return true
			}
		}
	}
	return false
}
