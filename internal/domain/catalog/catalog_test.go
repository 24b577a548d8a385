package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ReportType() != "中医症状自评报告" {
		t.Errorf("ReportType = %q", c.ReportType())
	}
	if c.NotApplicable() != "不适用" {
		t.Errorf("NotApplicable = %q", c.NotApplicable())
	}

	wantSections := []string{"基本信息", "核心症状", "望诊", "问诊_头面五官", "问诊_饮食二便", "问诊_睡眠情绪", "问诊_女性专属", "体质环境", "总结诉求"}
	secs := c.Sections()
	if len(secs) != len(wantSections) {
		t.Fatalf("expected %d sections, got %d", len(wantSections), len(secs))
	}
	for i, name := range wantSections {
		if secs[i].Name != name {
			t.Errorf("section %d = %q, want %q", i, secs[i].Name, name)
		}
	}
}

func TestCatalog_LabelsFollowDeclarationOrder(t *testing.T) {
	c := MustLoad()
	labels := c.Labels()
	if len(labels) != len(c.Fields()) {
		t.Fatalf("labels %d != fields %d", len(labels), len(c.Fields()))
	}
	if labels[0] != "基本信息_姓名" {
		t.Errorf("first label = %q", labels[0])
	}
	if labels[len(labels)-1] != "总结诉求_补充说明" {
		t.Errorf("last label = %q", labels[len(labels)-1])
	}
	seen := make(map[string]bool)
	for _, l := range labels {
		if seen[l] {
			t.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
}

func TestCatalog_FieldLookup(t *testing.T) {
	c := MustLoad()

	f, ok := c.Field("after_meal")
	if !ok {
		t.Fatal("after_meal not found")
	}
	if f.Kind != KindMulti || f.Default != "舒适" || f.Key() != "问诊_饮食二便_饭后感觉" {
		t.Errorf("unexpected after_meal: %+v", f)
	}

	g, ok := c.Field("gender")
	if !ok {
		t.Fatal("gender not found")
	}
	if g.Placeholder != "请选择" || !g.HasOption("女") || g.HasOption("请选择") {
		t.Errorf("unexpected gender: %+v", g)
	}

	if _, ok := c.Field("nope"); ok {
		t.Error("expected unknown field lookup to fail")
	}
}

func TestCatalog_ConditionalFieldsGetSentinel(t *testing.T) {
	c := MustLoad()
	fields, ok := c.SectionFields("问诊_女性专属")
	if !ok {
		t.Fatal("section not found")
	}
	for _, f := range fields {
		if !f.Conditional() {
			t.Errorf("%s should be conditional", f.ID)
		}
		if f.NotApplicable != "不适用" {
			t.Errorf("%s NotApplicable = %q", f.ID, f.NotApplicable)
		}
	}
}

func TestCatalog_Groups(t *testing.T) {
	c := MustLoad()
	groups := c.Groups()
	if len(groups) != 2 || groups[0].ID != "basic_info" || groups[1].ID != "core_symptoms" {
		t.Fatalf("unexpected groups: %+v", groups)
	}

	members := map[string][]string{}
	for _, f := range c.Fields() {
		if f.Group != "" {
			members[f.Group] = append(members[f.Group], f.ID)
		}
	}
	if got := strings.Join(members["basic_info"], ","); got != "name,gender,age" {
		t.Errorf("basic_info members = %s", got)
	}
	if got := strings.Join(members["core_symptoms"], ","); got != "energy_level,temperature_preference" {
		t.Errorf("core_symptoms members = %s", got)
	}
}

func TestCatalog_Applicable(t *testing.T) {
	c := MustLoad()
	answers := map[string][]string{}
	sel := func(id string) []string { return answers[id] }

	if !c.Applicable("name", sel) {
		t.Error("unconditional field must be applicable")
	}
	if c.Applicable("menstrual_cycle", sel) {
		t.Error("menstrual_cycle applicable without gender")
	}

	answers["gender"] = []string{"女"}
	if !c.Applicable("menstrual_cycle", sel) {
		t.Error("menstrual_cycle should be applicable for 女")
	}
	if c.Applicable("menstrual_cycle_days", sel) {
		t.Error("cycle days applicable without an early or late cycle")
	}

	answers["menstrual_cycle"] = []string{"提前"}
	if !c.Applicable("menstrual_cycle_days", sel) {
		t.Error("cycle days should be applicable for 提前")
	}

	// The governing field itself becomes inapplicable; its dependents follow.
	answers["gender"] = []string{"男"}
	if c.Applicable("menstrual_cycle_days", sel) {
		t.Error("cycle days applicable for 男")
	}
}

func TestCondition_All(t *testing.T) {
	cond := &Condition{All: []Condition{
		{Field: "a", In: []string{"x"}},
		{Field: "b", In: []string{"y", "z"}},
	}}
	answers := map[string][]string{"a": {"x"}, "b": {"q", "z"}}
	sel := func(id string) []string { return answers[id] }
	if !cond.Holds(sel) {
		t.Error("expected condition to hold")
	}
	answers["a"] = nil
	if cond.Holds(sel) {
		t.Error("expected condition to fail")
	}
	if got := strings.Join(cond.Fields(), ","); got != "a,b" {
		t.Errorf("Fields = %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "malformed toml",
			doc:     "report_type = ",
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "no sections",
			doc:     `report_type = "r"`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "duplicate id",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "text"
[[section.field]]
id = "a"
label = "B"
kind = "text"`,
			wantErr: ErrDuplicateFieldID,
		},
		{
			name: "duplicate label",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "text"
[[section.field]]
id = "b"
label = "A"
kind = "text"`,
			wantErr: ErrDuplicateFieldKey,
		},
		{
			name: "unknown kind",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "slider"`,
			wantErr: ErrInvalidFieldKind,
		},
		{
			name: "single without options",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "single"`,
			wantErr: ErrMissingOptions,
		},
		{
			name: "undeclared group",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "text"
group = "g"`,
			wantErr: ErrUnknownGroup,
		},
		{
			name: "forward condition",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "text"
when = { field = "b", in = ["x"] }
[[section.field]]
id = "b"
label = "B"
kind = "single"
options = ["x"]`,
			wantErr: ErrInvalidCondition,
		},
		{
			name: "condition on text field",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "text"
[[section.field]]
id = "b"
label = "B"
kind = "text"
when = { field = "a", in = ["x"] }`,
			wantErr: ErrInvalidCondition,
		},
		{
			name: "number default out of range",
			doc: `report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "a"
label = "A"
kind = "number"
max = 5
default = "9"`,
			wantErr: ErrInvalidFieldDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_ComplaintSlotsDefault(t *testing.T) {
	c, err := Parse([]byte(`report_type = "r"
[[section]]
name = "s"
[[section.field]]
id = "c"
label = "C"
kind = "complaints"
options = ["轻"]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f, _ := c.Field("c")
	if f.Slots != DefaultComplaintSlots {
		t.Errorf("Slots = %d", f.Slots)
	}
	if c.NotApplicable() != DefaultNotApplicable {
		t.Errorf("NotApplicable = %q", c.NotApplicable())
	}
}

func TestCatalog_MarshalJSON(t *testing.T) {
	c := MustLoad()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out struct {
		ReportType string `json:"report_type"`
		Sections   []struct {
			Name   string `json:"name"`
			Fields []struct {
				ID   string     `json:"id"`
				When *Condition `json:"when"`
			} `json:"fields"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.ReportType != "中医症状自评报告" || len(out.Sections) != 9 {
		t.Fatalf("unexpected catalog JSON: %s", data)
	}
	women := out.Sections[6]
	if women.Fields[0].When == nil || women.Fields[0].When.Field != "gender" {
		t.Errorf("expected gender condition on %s", women.Fields[0].ID)
	}
}

func TestCatalog_ToFHIRQuestionnaire(t *testing.T) {
	q := MustLoad().ToFHIRQuestionnaire()
	if q.ResourceType != "Questionnaire" || q.ID != QuestionnaireID {
		t.Fatalf("unexpected questionnaire header: %+v", q)
	}
	if len(q.Item) != 9 {
		t.Fatalf("expected 9 section groups, got %d", len(q.Item))
	}

	women := q.Item[6]
	cycle := women.Item[0]
	if cycle.LinkID != "menstrual_cycle" || len(cycle.EnableWhen) != 1 {
		t.Fatalf("unexpected cycle item: %+v", cycle)
	}
	if cycle.EnableWhen[0].Question != "gender" || cycle.EnableWhen[0].AnswerString != "女" {
		t.Errorf("unexpected enableWhen: %+v", cycle.EnableWhen[0])
	}

	days := women.Item[1]
	if days.LinkID != "menstrual_cycle_days" || days.EnableBehavior != "any" || len(days.EnableWhen) != 2 {
		t.Errorf("unexpected cycle days item: %+v", days)
	}

	basics := q.Item[0]
	if basics.Item[1].Type != "choice" || !basics.Item[1].Required || len(basics.Item[1].AnswerOption) != 3 {
		t.Errorf("unexpected gender item: %+v", basics.Item[1])
	}
}
