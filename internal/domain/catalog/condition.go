package catalog

// Selector returns the current selections of a field: one element for a
// chosen single-choice value, every element for a multi-choice value, and
// nothing when the field is unanswered.
type Selector func(fieldID string) []string

// Condition is a declarative governing predicate. A leaf condition holds
// when any selection of Field is listed in In; a composite condition holds
// when every member of All holds.
type Condition struct {
	Field string      `toml:"field" json:"field,omitempty"`
	In    []string    `toml:"in" json:"in,omitempty"`
	All   []Condition `toml:"all" json:"all,omitempty"`
}

// Holds evaluates the condition against the current selections.
func (c *Condition) Holds(sel Selector) bool {
	if c == nil {
		return true
	}
	for i := range c.All {
		if !c.All[i].Holds(sel) {
			return false
		}
	}
	if c.Field == "" {
		return true
	}
	for _, got := range sel(c.Field) {
		for _, want := range c.In {
			if got == want {
				return true
			}
		}
	}
	return false
}

// Fields returns the ids of every field the condition reads, in order.
func (c *Condition) Fields() []string {
	if c == nil {
		return nil
	}
	var ids []string
	if c.Field != "" {
		ids = append(ids, c.Field)
	}
	for i := range c.All {
		ids = append(ids, c.All[i].Fields()...)
	}
	return ids
}

// leaves returns the leaf predicates of the condition.
func (c *Condition) leaves() []Condition {
	if c == nil {
		return nil
	}
	var out []Condition
	if c.Field != "" {
		out = append(out, Condition{Field: c.Field, In: c.In})
	}
	for i := range c.All {
		out = append(out, c.All[i].leaves()...)
	}
	return out
}
