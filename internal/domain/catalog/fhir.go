package catalog

import (
	"fmt"

	"github.com/tcm/intake/internal/platform/fhir"
)

// QuestionnaireID is the logical id of the published Questionnaire.
const QuestionnaireID = "tcm-self-assessment"

// ToFHIRQuestionnaire publishes the catalog as a FHIR Questionnaire with
// one group item per section.
func (c *Catalog) ToFHIRQuestionnaire() *fhir.Questionnaire {
	q := &fhir.Questionnaire{
		ResourceType: "Questionnaire",
		ID:           QuestionnaireID,
		Name:         "TCMSelfAssessment",
		Title:        c.reportType,
		Status:       "active",
		SubjectType:  []string{"Patient"},
	}
	for i, s := range c.sections {
		group := fhir.QuestionnaireItem{
			LinkID: fmt.Sprintf("section-%d", i+1),
			Text:   s.Name,
			Type:   fhir.ItemTypeGroup,
		}
		for _, f := range s.Fields {
			group.Item = append(group.Item, fieldItem(f))
		}
		q.Item = append(q.Item, group)
	}
	return q
}

func fieldItem(f *Field) fhir.QuestionnaireItem {
	item := fhir.QuestionnaireItem{
		LinkID:   f.ID,
		Text:     f.Label,
		Required: f.Required,
	}
	switch f.Kind {
	case KindText:
		item.Type = fhir.ItemTypeString
	case KindSingle, KindMulti:
		item.Type = fhir.ItemTypeChoice
		item.Repeats = f.Kind == KindMulti
		for _, o := range f.Options {
			item.AnswerOption = append(item.AnswerOption, fhir.AnswerOption{ValueString: o})
		}
	case KindNumber:
		item.Type = fhir.ItemTypeInteger
	case KindDate:
		item.Type = fhir.ItemTypeDate
	case KindComplaints:
		item.Type = fhir.ItemTypeGroup
		item.Repeats = true
		severity := fhir.QuestionnaireItem{LinkID: f.ID + ".severity", Text: "程度", Type: fhir.ItemTypeChoice}
		for _, o := range f.Options {
			severity.AnswerOption = append(severity.AnswerOption, fhir.AnswerOption{ValueString: o})
		}
		item.Item = []fhir.QuestionnaireItem{
			{LinkID: f.ID + ".description", Text: "描述", Type: fhir.ItemTypeString},
			{LinkID: f.ID + ".location", Text: "部位", Type: fhir.ItemTypeString},
			severity,
		}
	}
	if f.Default != "" && f.Kind != KindComplaints {
		item.Initial = []fhir.Initial{{ValueString: f.Default}}
	}

	leaves := f.When.leaves()
	for _, leaf := range leaves {
		for _, v := range leaf.In {
			item.EnableWhen = append(item.EnableWhen, fhir.EnableWhen{
				Question:     leaf.Field,
				Operator:     "=",
				AnswerString: v,
			})
		}
	}
	// A single leaf lists alternatives; several leaves must all hold.
	switch {
	case len(leaves) > 1:
		item.EnableBehavior = fhir.EnableBehaviorAll
	case len(item.EnableWhen) > 1:
		item.EnableBehavior = fhir.EnableBehaviorAny
	}
	return item
}
