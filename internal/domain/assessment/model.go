package assessment

import (
	"strings"
	"time"
)

// DateLayout is the wire and display format of date answers.
const DateLayout = "2006-01-02"

// Complaint is one entry of the main-complaint list.
type Complaint struct {
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// Blank reports whether the entry carries no description.
func (c Complaint) Blank() bool {
	return strings.TrimSpace(c.Description) == ""
}

// Value is a single raw answer. Exactly one member is meaningful, chosen
// by the kind of the field it answers: Text for free text and single
// choice, Choices for multiple choice, Number, Date, or Complaints. The
// zero Value is an unanswered field.
type Value struct {
	Text       *string
	Choices    []string
	Number     *int
	Date       *time.Time
	Complaints []Complaint
}

func Text(s string) Value { return Value{Text: &s} }

func Choice(s string) Value { return Value{Text: &s} }

func Choices(s ...string) Value { return Value{Choices: s} }

func Number(n int) Value { return Value{Number: &n} }

func Date(t time.Time) Value { return Value{Date: &t} }

func Complaints(c ...Complaint) Value { return Value{Complaints: c} }

// Answers holds the raw values of one submission attempt keyed by field id.
// Missing keys are unanswered fields.
type Answers map[string]Value

// Selections returns the chosen values of a choice field for condition
// evaluation.
func (a Answers) Selections(id string) []string {
	v, ok := a[id]
	if !ok {
		return nil
	}
	if v.Text != nil {
		if *v.Text == "" {
			return nil
		}
		return []string{*v.Text}
	}
	return v.Choices
}

// Session is the state owned by one respondent: whether a record has been
// accepted, and the current record.
type Session struct {
	ID          string     `json:"id"`
	Submitted   bool       `json:"submitted"`
	Record      *Record    `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
}
