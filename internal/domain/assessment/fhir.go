package assessment

import (
	"fmt"
	"time"

	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/fhir"
)

// ToFHIR renders the record as a completed QuestionnaireResponse. Section
// items mirror the link ids of the published Questionnaire.
func (r *Record) ToFHIR(sessionID string, authored time.Time) *fhir.QuestionnaireResponse {
	qr := &fhir.QuestionnaireResponse{
		ResourceType:  "QuestionnaireResponse",
		ID:            sessionID,
		Meta:          &fhir.Meta{LastUpdated: authored},
		Questionnaire: "Questionnaire/" + catalog.QuestionnaireID,
		Status:        "completed",
		Authored:      authored.UTC().Format(time.RFC3339),
	}
	for i, s := range r.Sections {
		group := fhir.QuestionnaireResponseItem{
			LinkID: fmt.Sprintf("section-%d", i+1),
			Text:   s.Name,
		}
		for _, f := range s.Fields {
			group.Item = append(group.Item, fhir.QuestionnaireResponseItem{
				LinkID: f.ID,
				Text:   f.Label,
				Answer: []fhir.QuestionnaireResponseAnswer{{ValueString: f.Value}},
			})
		}
		qr.Item = append(qr.Item, group)
	}
	return qr
}
