package assessment

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/tcm/intake/internal/domain/catalog"
)

// Submission is the request body of a submission attempt. Each answer is
// decoded according to the kind of the field it names.
type Submission struct {
	Answers map[string]json.RawMessage `json:"answers"`
}

// DecodeAnswers converts raw JSON answers into typed values. Unknown field
// ids and values of the wrong JSON shape fail with ErrInvalidFieldValue.
// JSON null is treated as unanswered.
func DecodeAnswers(cat *catalog.Catalog, raw map[string]json.RawMessage) (Answers, error) {
	answers := make(Answers, len(raw))
	for id, msg := range raw {
		f, ok := cat.Field(id)
		if !ok {
			return nil, goerr.Wrap(ErrInvalidFieldValue, "unknown field", goerr.V("field", id))
		}
		if isNull(msg) {
			continue
		}
		v, err := decodeValue(f, msg)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidFieldValue, "cannot decode answer",
				goerr.V("field", id), goerr.V("kind", string(f.Kind)), goerr.V("error", err.Error()))
		}
		answers[id] = v
	}
	return answers, nil
}

func isNull(msg json.RawMessage) bool {
	return len(bytes.TrimSpace(msg)) == 0 || bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func decodeValue(f *catalog.Field, msg json.RawMessage) (Value, error) {
	switch f.Kind {
	case catalog.KindText, catalog.KindSingle:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, err
		}
		return Text(s), nil
	case catalog.KindMulti:
		var ss []string
		if err := json.Unmarshal(msg, &ss); err != nil {
			return Value{}, err
		}
		return Choices(ss...), nil
	case catalog.KindNumber:
		var n int
		if err := json.Unmarshal(msg, &n); err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case catalog.KindDate:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, err
		}
		if s == "" {
			return Value{}, nil
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return Value{}, err
		}
		return Date(t), nil
	case catalog.KindComplaints:
		var cs []Complaint
		if err := json.Unmarshal(msg, &cs); err != nil {
			return Value{}, err
		}
		return Complaints(cs...), nil
	}
	return Value{}, goerr.New("unsupported field kind", goerr.V("kind", string(f.Kind)))
}
