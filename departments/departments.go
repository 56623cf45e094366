// Package departments holds the canonical department table shared by the
// dispatcher, the resolver, request validation and database seeding.
package departments

import "strings"

// Canonical department display names. Order matters: label inference walks this
// list front to back and the first containment hit wins.
var names = []string{
	"Revenue & Disaster Management",
	"Health Department",
	"Education Department",
	"Agriculture Department",
	"Police Department",
	"Rural Development",
	"Public Works (PWD)",
	"Transport Department",
	"Social Welfare",
	"Electricity & Water Board",
}

// General is the label used when nothing else identifies a department.
const General = "General Department"

// KeywordRule maps any of Keywords, found in a message, to Department.
type KeywordRule struct {
	Keywords   []string
	Department string
}

// Keyword fallback rules, evaluated in order.
var keywordRules = []KeywordRule{
	{Keywords: []string{"Health", "Medical"}, Department: "Health Department"},
	{Keywords: []string{"Police", "Security"}, Department: "Police Department"},
	{Keywords: []string{"Education", "School"}, Department: "Education Department"},
	{Keywords: []string{"Road", "PWD"}, Department: "Public Works (PWD)"},
	{Keywords: []string{"Revenue", "Tax"}, Department: "Revenue & Disaster Management"},
}

// Names returns a copy of the canonical department names in declaration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// KeywordRules returns a copy of the keyword fallback table in evaluation order.
func KeywordRules() []KeywordRule {
	out := make([]KeywordRule, len(keywordRules))
	copy(out, keywordRules)
	return out
}

// IsKnown reports whether name is exactly one of the canonical departments.
func IsKnown(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Canonical maps a case/whitespace variant of a department name onto its
// canonical spelling. ok is false for names outside the table.
func Canonical(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, n := range names {
		if strings.EqualFold(n, trimmed) {
			return n, true
		}
	}
	return "", false
}

// MatchName returns the first canonical name contained in any of texts. Each
// department is tried against every text before moving to the next department.
func MatchName(texts ...string) (string, bool) {
	for _, n := range names {
		for _, t := range texts {
			if t != "" && strings.Contains(t, n) {
				return n, true
			}
		}
	}
	return "", false
}

// MatchKeyword applies the keyword fallback table to message, ignoring case.
func MatchKeyword(message string) (string, bool) {
	if message == "" {
		return "", false
	}
	lower := strings.ToLower(message)
	for _, rule := range keywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Department, true
			}
		}
	}
	return "", false
}
