package shared

import (
	"strconv"
	"strings"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Hours parses a requested-hours field. Presence and syntax are validated
// here; positivity is the engine's call.
func (v *Validator) Hours(field, raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, "is required")
		return 0, false
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Add(field, "must be a number of hours")
		return 0, false
	}
	return parsed, true
}

func (v *Validator) OK() bool {
	return len(v.issues) == 0
}

func (v *Validator) Issues() []ValidationIssue {
	return v.issues
}

func (v *Validator) Message() string {
	if len(v.issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.issues))
	for _, issue := range v.issues {
		if issue.Field != "" {
			parts = append(parts, issue.Field+" "+issue.Reason)
			continue
		}
		parts = append(parts, issue.Reason)
	}
	return strings.Join(parts, "; ")
}
