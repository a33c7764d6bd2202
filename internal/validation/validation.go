package validation

import (
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}

// RequiredDate parses a date that must be present and well formed. Accepted
// layouts match what the dashboard sends: RFC3339 or plain "2006-01-02".
func RequiredDate(field, value string, v Violations) *time.Time {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
		return nil
	}
	t, err := ParseDate(value)
	if err != nil {
		v[field] = "invalid_date"
		return nil
	}
	return &t
}

func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
