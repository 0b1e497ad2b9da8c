package review

import (
	"encoding/json"
	"strings"

	"github.com/Wraptron/incubation-backend/src/api/types"
)

// TeamMemberList accepts either a native JSON array or a JSON-encoded
// string containing one (legacy clients send the latter). An unparseable
// value decodes to an empty list rather than failing the request.
type TeamMemberList []types.TeamMember

func (l *TeamMemberList) UnmarshalJSON(b []byte) error {
	var members []types.TeamMember
	if err := json.Unmarshal(b, &members); err == nil {
		*l = members
		return nil
	}
	var encoded string
	if err := json.Unmarshal(b, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &members); err == nil {
			*l = members
			return nil
		}
	}
	*l = nil
	return nil
}

// YesNo normalizes boolean-like input ("Yes"/"no"/true/"TRUE"...) to a
// bool. Anything unrecognized is false.
type YesNo bool

func (y *YesNo) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*y = YesNo(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "true", "1":
			*y = true
			return nil
		}
	}
	*y = false
	return nil
}

// ApplicationForm is the client-facing shape of a submission or draft save.
type ApplicationForm struct {
	FounderName  string         `json:"founderName"`
	FounderEmail string         `json:"founderEmail"`
	FounderPhone string         `json:"founderPhone"`
	StartupName  string         `json:"startupName"`
	Description  string         `json:"description"`
	Problem      string         `json:"problem"`
	Solution     string         `json:"solution"`
	TargetMarket string         `json:"targetMarket"`
	RevenueModel string         `json:"revenueModel"`
	Competition  string         `json:"competition"`
	TeamMembers  TeamMemberList `json:"teamMembers"`
	Incorporated YesNo          `json:"incorporated"`
}

// requiredFields is the submission checklist, checked in order so the error
// names the first missing field.
var requiredFields = []struct {
	name string
	get  func(f *ApplicationForm) string
}{
	{"founderName", func(f *ApplicationForm) string { return f.FounderName }},
	{"founderEmail", func(f *ApplicationForm) string { return f.FounderEmail }},
	{"founderPhone", func(f *ApplicationForm) string { return f.FounderPhone }},
	{"startupName", func(f *ApplicationForm) string { return f.StartupName }},
	{"description", func(f *ApplicationForm) string { return f.Description }},
	{"problem", func(f *ApplicationForm) string { return f.Problem }},
	{"solution", func(f *ApplicationForm) string { return f.Solution }},
	{"targetMarket", func(f *ApplicationForm) string { return f.TargetMarket }},
	{"revenueModel", func(f *ApplicationForm) string { return f.RevenueModel }},
}
