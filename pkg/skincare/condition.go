// Package skincare turns ingredient lists into advice for a skin condition and
// classifies the trend between journal observations. Everything here is pure
// and safe for concurrent use.
package skincare

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCondition = errors.New("unknown skin condition")

// Condition is the skin type advice is generated for.
type Condition string

const (
	AcneProne Condition = "Acne-Prone"
	Dry       Condition = "Dry"
	Oily      Condition = "Oily"
	Sensitive Condition = "Sensitive"
	Normal    Condition = "Normal" // the "no issues" classification
)

// AllConditions lists every condition in display order.
var AllConditions = []Condition{AcneProne, Dry, Oily, Sensitive, Normal}

func (c Condition) String() string {
	return string(c)
}

// Valid reports whether c is one of AllConditions.
func (c Condition) Valid() bool {
	for _, known := range AllConditions {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCondition accepts either the display value ("Acne-Prone") or a
// compact identifier ("acneprone", "acne_prone"), case-insensitively.
func ParseCondition(s string) (Condition, error) {
	wanted := compactConditionName(s)
	for _, c := range AllConditions {
		if compactConditionName(string(c)) == wanted {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCondition, s)
}

func compactConditionName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// ConditionRule maps classifier output containing Contains to Condition.
type ConditionRule struct {
	Contains  string    `yaml:"contains" json:"contains"`
	Condition Condition `yaml:"condition" json:"condition"`
}

// DefaultConditionRules is the mapping used by the classifier integration
// when nothing else is configured.
var DefaultConditionRules = []ConditionRule{
	{Contains: "acne", Condition: AcneProne},
	{Contains: "no issues", Condition: Normal},
}

// ConditionMapper turns raw classifier output into a Condition. Rules are
// checked in order with case-insensitive substring containment; the first
// hit wins and Fallback is returned when none match.
type ConditionMapper struct {
	Rules    []ConditionRule
	Fallback Condition
}

// NewConditionMapper returns a mapper with DefaultConditionRules followed by
// extra.
func NewConditionMapper(extra ...ConditionRule) ConditionMapper {
	rules := make([]ConditionRule, 0, len(DefaultConditionRules)+len(extra))
	rules = append(rules, DefaultConditionRules...)
	rules = append(rules, extra...)
	return ConditionMapper{Rules: rules, Fallback: Normal}
}

// Map returns the condition for a classifier label such as "Acne" or
// "no issues".
func (m ConditionMapper) Map(prediction string) Condition {
	lowered := strings.ToLower(prediction)
	for _, rule := range m.Rules {
		if rule.Contains == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(rule.Contains)) {
			return rule.Condition
		}
	}
	if m.Fallback == "" {
		return Normal
	}
	return m.Fallback
}
