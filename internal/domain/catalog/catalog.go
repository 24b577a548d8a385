package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var embedded []byte

// DefaultNotApplicable is used when the document does not declare a
// not-applicable sentinel.
const DefaultNotApplicable = "不适用"

type document struct {
	ReportType    string        `toml:"report_type"`
	NotApplicable string        `toml:"not_applicable"`
	Groups        []Group       `toml:"group"`
	Sections      []sectionDocs `toml:"section"`
}

type sectionDocs struct {
	Name   string  `toml:"name"`
	Fields []Field `toml:"field"`
}

// Catalog is the validated, immutable field catalog.
type Catalog struct {
	reportType    string
	notApplicable string
	groups        []Group
	sections      []Section
	fields        []*Field
	byID          map[string]*Field
}

// Load parses the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// LoadFile parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	// #nosec G304 - path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}
	c, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog file", goerr.V("path", path))
	}
	return c, nil
}

// MustLoad is Load for package initialisation and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a TOML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(ErrInvalidCatalog, "failed to parse catalog TOML", goerr.V("error", err.Error()))
	}
	return build(&doc)
}

func build(doc *document) (*Catalog, error) {
	if doc.ReportType == "" {
		return nil, goerr.Wrap(ErrInvalidCatalog, "report_type is required")
	}
	if len(doc.Sections) == 0 {
		return nil, goerr.Wrap(ErrInvalidCatalog, "catalog declares no sections")
	}

	c := &Catalog{
		reportType:    doc.ReportType,
		notApplicable: doc.NotApplicable,
		byID:          make(map[string]*Field),
	}
	if c.notApplicable == "" {
		c.notApplicable = DefaultNotApplicable
	}

	groupIDs := make(map[string]bool)
	for _, g := range doc.Groups {
		if g.ID == "" {
			return nil, goerr.Wrap(ErrInvalidCatalog, "group id is required")
		}
		if groupIDs[g.ID] {
			return nil, goerr.Wrap(ErrInvalidCatalog, "duplicate group ID", goerr.V("id", g.ID))
		}
		groupIDs[g.ID] = true
		c.groups = append(c.groups, g)
	}

	sectionNames := make(map[string]bool)
	keys := make(map[string]bool)
	for _, sd := range doc.Sections {
		if sd.Name == "" {
			return nil, goerr.Wrap(ErrInvalidCatalog, "section name is required")
		}
		if sectionNames[sd.Name] {
			return nil, goerr.Wrap(ErrInvalidCatalog, "duplicate section name", goerr.V("section", sd.Name))
		}
		sectionNames[sd.Name] = true

		sec := Section{Name: sd.Name}
		for i := range sd.Fields {
			f := sd.Fields[i]
			f.Section = sd.Name
			if err := c.validateField(&f, groupIDs); err != nil {
				return nil, err
			}
			if keys[f.Key()] {
				return nil, goerr.Wrap(ErrDuplicateFieldKey, "field label collides", goerr.V("key", f.Key()))
			}
			keys[f.Key()] = true

			fp := &f
			c.byID[f.ID] = fp
			c.fields = append(c.fields, fp)
			sec.Fields = append(sec.Fields, fp)
		}
		c.sections = append(c.sections, sec)
	}
	return c, nil
}

// validateField checks f against the fields declared so far and fills in
// implied settings.
func (c *Catalog) validateField(f *Field, groups map[string]bool) error {
	if f.ID == "" {
		return goerr.Wrap(ErrInvalidCatalog, "field id is required", goerr.V("section", f.Section))
	}
	if _, dup := c.byID[f.ID]; dup {
		return goerr.Wrap(ErrDuplicateFieldID, "field declared twice", goerr.V("id", f.ID))
	}
	if f.Label == "" {
		return goerr.Wrap(ErrInvalidCatalog, "field label is required", goerr.V("id", f.ID))
	}
	if !f.Kind.Valid() {
		return goerr.Wrap(ErrInvalidFieldKind, "unknown kind", goerr.V("id", f.ID), goerr.V("kind", f.Kind))
	}

	switch f.Kind {
	case KindSingle, KindMulti, KindComplaints:
		if len(f.Options) == 0 {
			return goerr.Wrap(ErrMissingOptions, "options are required", goerr.V("id", f.ID), goerr.V("kind", f.Kind))
		}
	case KindNumber:
		if f.Default != "" {
			n, err := strconv.Atoi(f.Default)
			if err != nil || !f.InRange(n) {
				return goerr.Wrap(ErrInvalidFieldDefault, "number default must be an in-range integer",
					goerr.V("id", f.ID), goerr.V("default", f.Default))
			}
		}
	}
	if f.Kind == KindComplaints && f.Slots <= 0 {
		f.Slots = DefaultComplaintSlots
	}

	if f.Group != "" && !groups[f.Group] {
		return goerr.Wrap(ErrUnknownGroup, "group not declared", goerr.V("id", f.ID), goerr.V("group", f.Group))
	}

	if f.When != nil {
		leaves := f.When.leaves()
		if len(leaves) == 0 {
			return goerr.Wrap(ErrInvalidCondition, "empty condition", goerr.V("id", f.ID))
		}
		for _, leaf := range leaves {
			dep, ok := c.byID[leaf.Field]
			if !ok {
				return goerr.Wrap(ErrInvalidCondition, "condition references unknown or later field",
					goerr.V("id", f.ID), goerr.V("field", leaf.Field))
			}
			if dep.Kind != KindSingle && dep.Kind != KindMulti {
				return goerr.Wrap(ErrInvalidCondition, "condition must reference a choice field",
					goerr.V("id", f.ID), goerr.V("field", leaf.Field))
			}
			if len(leaf.In) == 0 {
				return goerr.Wrap(ErrInvalidCondition, "condition lists no values",
					goerr.V("id", f.ID), goerr.V("field", leaf.Field))
			}
		}
		if f.NotApplicable == "" {
			f.NotApplicable = c.notApplicable
		}
	}
	return nil
}

// ReportType is the document title used for sheet names and file names.
func (c *Catalog) ReportType() string { return c.reportType }

// NotApplicable is the catalog-wide not-applicable sentinel.
func (c *Catalog) NotApplicable() string { return c.notApplicable }

// Fields returns every field in declaration order.
func (c *Catalog) Fields() []*Field { return c.fields }

// Field looks up a field by id.
func (c *Catalog) Field(id string) (*Field, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Sections returns the sections in declaration order.
func (c *Catalog) Sections() []Section { return c.sections }

// SectionFields returns the fields of the named section.
func (c *Catalog) SectionFields(name string) ([]*Field, bool) {
	for _, s := range c.sections {
		if s.Name == name {
			return s.Fields, true
		}
	}
	return nil, false
}

// Groups returns the validation groups in declaration order.
func (c *Catalog) Groups() []Group { return c.groups }

// Group looks up a validation group by id.
func (c *Catalog) Group(id string) (Group, bool) {
	for _, g := range c.groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Labels returns the flattened column labels in declaration order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.fields))
	for i, f := range c.fields {
		labels[i] = f.Key()
	}
	return labels
}

// Applicable reports whether the field's governing condition holds, and
// recursively whether every field the condition reads is itself applicable.
func (c *Catalog) Applicable(id string, sel Selector) bool {
	f, ok := c.byID[id]
	if !ok || f.When == nil {
		return true
	}
	for _, dep := range f.When.Fields() {
		if !c.Applicable(dep, sel) {
			return false
		}
	}
	return f.When.Holds(sel)
}

// MarshalJSON renders the catalog for front ends.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReportType    string    `json:"report_type"`
		NotApplicable string    `json:"not_applicable"`
		Groups        []Group   `json:"groups"`
		Sections      []Section `json:"sections"`
	}{c.reportType, c.notApplicable, c.groups, c.sections})
}
