package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Skills is an ordered list of skill names. It travels as a JSON array and is
// stored as the serialized text of that array.
type Skills []string

// ParseSkills decodes the stored representation produced by Serialize.
func ParseSkills(serialized string) (Skills, error) {
	var raw []string
	if err := json.Unmarshal([]byte(serialized), &raw); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	return clean(raw), nil
}

// Serialize returns the storage form of the list. An empty list serializes to "[]".
func (s Skills) Serialize() string {
	if len(s) == 0 {
		return "[]"
	}
	b, _ := json.Marshal([]string(s))
	return string(b)
}

// String joins the skills for display.
func (s Skills) String() string {
	return strings.Join(s, ", ")
}

// NormalizeSkills accepts either a list of strings or a free-form string and
// returns the canonical list. A string holding a serialized list is decoded;
// any other string is split on commas. Tokens are trimmed and empty tokens
// dropped, so normalizing an already normalized value is a no-op.
func NormalizeSkills(raw any) (Skills, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case Skills:
		return clean(v), nil
	case []string:
		return clean(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("skills[%d] must be a string", i)
			}
			out = append(out, s)
		}
		return clean(out), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			if parsed, err := ParseSkills(trimmed); err == nil {
				return parsed, nil
			}
		}
		return clean(strings.Split(v, ",")), nil
	default:
		return nil, fmt.Errorf("skills must be a list or a comma-separated string, got %T", raw)
	}
}

// UnmarshalJSON normalizes either accepted wire form into the canonical list.
func (s *Skills) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	normalized, err := NormalizeSkills(raw)
	if err != nil {
		return err
	}
	*s = normalized
	return nil
}

// MarshalJSON always emits an array, never null.
func (s Skills) MarshalJSON() ([]byte, error) {
	return []byte(s.Serialize()), nil
}

// ParseSkillTokens splits a comma-separated filter value into trimmed,
// non-empty tokens.
func ParseSkillTokens(csv string) []string {
	if csv == "" {
		return nil
	}
	return clean(strings.Split(csv, ","))
}

func clean(in []string) Skills {
	out := make(Skills, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
