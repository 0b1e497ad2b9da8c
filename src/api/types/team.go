package types

import "encoding/json"

// EncodeTeamMembers serializes a team list for the JSON column. An empty
// list encodes as "[]" so the column is never NULL.
func EncodeTeamMembers(members []TeamMember) string {
	if len(members) == 0 {
		return "[]"
	}
	b, err := json.Marshal(members)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeTeamMembers parses the JSON column back into a list, tolerating
// legacy rows where the value was double-encoded as a JSON string.
func DecodeTeamMembers(raw string) []TeamMember {
	if raw == "" {
		return nil
	}
	var members []TeamMember
	if err := json.Unmarshal([]byte(raw), &members); err == nil {
		return members
	}
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &members); err == nil {
			return members
		}
	}
	return nil
}
