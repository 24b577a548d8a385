package catalog

// Kind is the input kind of a field.
type Kind string

const (
	KindText       Kind = "text"
	KindSingle     Kind = "single"
	KindMulti      Kind = "multi"
	KindNumber     Kind = "number"
	KindDate       Kind = "date"
	KindComplaints Kind = "complaints"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindSingle, KindMulti, KindNumber, KindDate, KindComplaints:
		return true
	}
	return false
}

// DefaultComplaintSlots is the number of complaint entries when a
// complaints field does not declare slots.
const DefaultComplaintSlots = 3

// Field is one question of the form.
type Field struct {
	ID            string     `toml:"id" json:"id"`
	Section       string     `toml:"-" json:"section"`
	Label         string     `toml:"label" json:"label"`
	Kind          Kind       `toml:"kind" json:"kind"`
	Options       []string   `toml:"options" json:"options,omitempty"`
	Placeholder   string     `toml:"placeholder" json:"placeholder,omitempty"`
	Required      bool       `toml:"required" json:"required"`
	Group         string     `toml:"group" json:"group,omitempty"`
	Default       string     `toml:"default" json:"default,omitempty"`
	DefaultToday  bool       `toml:"default_today" json:"default_today,omitempty"`
	NotApplicable string     `toml:"not_applicable" json:"not_applicable,omitempty"`
	Format        string     `toml:"format" json:"format,omitempty"`
	Min           *int       `toml:"min" json:"min,omitempty"`
	Max           *int       `toml:"max" json:"max,omitempty"`
	Slots         int        `toml:"slots" json:"slots,omitempty"`
	When          *Condition `toml:"when" json:"when,omitempty"`
}

// Key returns the flattened column label "{section}_{label}".
func (f *Field) Key() string {
	return f.Section + "_" + f.Label
}

// HasOption reports whether v is one of the field's options.
func (f *Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

// InRange reports whether n satisfies the field's numeric bounds.
func (f *Field) InRange(n int) bool {
	if f.Min != nil && n < *f.Min {
		return false
	}
	if f.Max != nil && n > *f.Max {
		return false
	}
	return true
}

// Conditional reports whether the field carries a governing condition.
func (f *Field) Conditional() bool {
	return f.When != nil
}

// Section is a named, ordered group of fields.
type Section struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// Group is a coarse validation group. A submission missing any required
// field of a group is rejected with the group's message.
type Group struct {
	ID      string `toml:"id" json:"id"`
	Label   string `toml:"label" json:"label"`
	Message string `toml:"message" json:"message"`
}
