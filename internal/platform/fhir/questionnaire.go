package fhir

// Questionnaire is the subset of the FHIR R4 Questionnaire resource used to
// publish the intake form definition.
type Questionnaire struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id"`
	Name         string              `json:"name,omitempty"`
	Title        string              `json:"title,omitempty"`
	Status       string              `json:"status"`
	SubjectType  []string            `json:"subjectType,omitempty"`
	Item         []QuestionnaireItem `json:"item"`
}

// QuestionnaireItem is one question or group of a Questionnaire.
type QuestionnaireItem struct {
	LinkID         string              `json:"linkId"`
	Text           string              `json:"text,omitempty"`
	Type           string              `json:"type"`
	Required       bool                `json:"required,omitempty"`
	Repeats        bool                `json:"repeats,omitempty"`
	AnswerOption   []AnswerOption      `json:"answerOption,omitempty"`
	Initial        []Initial           `json:"initial,omitempty"`
	EnableWhen     []EnableWhen        `json:"enableWhen,omitempty"`
	EnableBehavior string              `json:"enableBehavior,omitempty"`
	Item           []QuestionnaireItem `json:"item,omitempty"`
}

type AnswerOption struct {
	ValueString string `json:"valueString"`
}

type Initial struct {
	ValueString string `json:"valueString"`
}

type EnableWhen struct {
	Question     string `json:"question"`
	Operator     string `json:"operator"`
	AnswerString string `json:"answerString"`
}

// Questionnaire item types per FHIR R4.
const (
	ItemTypeGroup   = "group"
	ItemTypeString  = "string"
	ItemTypeText    = "text"
	ItemTypeChoice  = "choice"
	ItemTypeInteger = "integer"
	ItemTypeDate    = "date"
)

// Enable behaviours per FHIR R4.
const (
	EnableBehaviorAll = "all"
	EnableBehaviorAny = "any"
)

// QuestionnaireResponse is the subset of the FHIR R4 QuestionnaireResponse
// resource used to return a submitted record.
type QuestionnaireResponse struct {
	ResourceType  string                      `json:"resourceType"`
	ID            string                      `json:"id,omitempty"`
	Meta          *Meta                       `json:"meta,omitempty"`
	Questionnaire string                      `json:"questionnaire"`
	Status        string                      `json:"status"`
	Authored      string                      `json:"authored,omitempty"`
	Item          []QuestionnaireResponseItem `json:"item"`
}

type QuestionnaireResponseItem struct {
	LinkID string                        `json:"linkId"`
	Text   string                        `json:"text,omitempty"`
	Answer []QuestionnaireResponseAnswer `json:"answer,omitempty"`
	Item   []QuestionnaireResponseItem   `json:"item,omitempty"`
}

type QuestionnaireResponseAnswer struct {
	ValueString string `json:"valueString"`
}
