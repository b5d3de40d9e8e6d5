package models

import (
	"encoding/json"
	"strings"
)

// StringList ensures tag fields can be decoded whether the platform sends a
// single string, a comma-joined string, or an array of strings.
type StringList []string

// UnmarshalJSON accepts both string and array values, allowing legacy
// records to be decoded without failing the entire response.
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*s = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*s = out
	return nil
}

// MarshalJSON always writes the list as an array, keeping new submissions
// consistent even when the decoded source used a string value.
func (s StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(s))
}
