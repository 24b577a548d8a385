package assessment

import (
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tcm/intake/internal/domain/catalog"
)

var (
	ErrMissingRequiredField = goerr.New("missing required field")
	ErrInvalidFieldValue    = goerr.New("invalid field value")
	ErrMalformedRecord      = goerr.New("malformed record")
	ErrSessionNotFound      = goerr.New("session not found")
	ErrNotSubmitted         = goerr.New("no record has been submitted")
)

// MissingFieldsError lists every checked field that was empty on a
// submission attempt, together with the validation groups they belong to.
type MissingFieldsError struct {
	Fields []string
	Groups []catalog.Group
}

func (e *MissingFieldsError) Error() string {
	msgs := make([]string, 0, len(e.Groups))
	for _, g := range e.Groups {
		msgs = append(msgs, g.Message)
	}
	if len(msgs) == 0 {
		return ErrMissingRequiredField.Error() + ": " + strings.Join(e.Fields, ", ")
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrMissingRequiredField) hold.
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// FieldOf extracts the field id recorded on an ErrInvalidFieldValue error.
func FieldOf(err error) string {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return ""
	}
	if v, ok := ge.Values()["field"].(string); ok {
		return v
	}
	return ""
}
