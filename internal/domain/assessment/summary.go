package assessment

// Advisory notes shown with every summary.
var AdvisoryNotes = []string{
	"本自评报告仅为自我健康管理及就医时提供线索参考，不能替代专业中医师的\"望闻问切\"四诊合参。",
	"中医辨证复杂，症状常虚实夹杂、寒热交错，建议携带此报告咨询合格中医师，进行综合诊断和个性化调理。",
	"症状如有加重或出现急症，请及时就医。",
}

const (
	noComplaint    = "未描述"
	noConstitution = "未选择"
)

// Summary is the short human-readable view of a record.
type Summary struct {
	Name                  string   `json:"name"`
	Gender                string   `json:"gender"`
	Age                   string   `json:"age"`
	MainComplaint         string   `json:"main_complaint,omitempty"`
	Energy                string   `json:"energy"`
	TemperaturePreference string   `json:"temperature_preference"`
	Sweat                 string   `json:"sweat"`
	BodyTemperature       string   `json:"body_temperature"`
	Constitution          string   `json:"constitution,omitempty"`
	Notes                 []string `json:"notes"`
}

// Summary extracts the respondent details and key symptoms. The main
// complaint and constitution are left empty when the respondent gave none.
func (r *Record) Summary() *Summary {
	get := func(id string) string {
		v, _ := r.Value(id)
		return v
	}
	s := &Summary{
		Name:                  get("name"),
		Gender:                get("gender"),
		Age:                   get("age"),
		Energy:                get("energy_level"),
		TemperaturePreference: get("temperature_preference"),
		Sweat:                 get("sweat_pattern"),
		BodyTemperature:       get("body_temperature"),
		Notes:                 append([]string(nil), AdvisoryNotes...),
	}
	if v := get("discomforts"); v != noComplaint {
		s.MainComplaint = v
	}
	if v := get("constitution_types"); v != noConstitution {
		s.Constitution = v
	}
	return s
}
