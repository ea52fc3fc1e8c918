// pdp/engine/matcher.go
package engine

import (
	"strings"

	"github.com/peacprotocol/peac-engine/model"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
)

// ruleMatches checks if a rule matches the given context.
// All specified constraints must match (AND logic); omitted rule fields are
// wildcards. A missing context field never satisfies a positive constraint.
func ruleMatches(rule *model.PolicyRule, context *pdp_model.EvaluationContext) bool {
	if rule.Subject != nil && !matchesSubject(context.Subject, rule.Subject) {
		return false
	}

	if len(rule.Purpose) > 0 && !matchesPurpose(context.Purpose, rule.Purpose) {
		return false
	}

	if len(rule.LicensingMode) > 0 && !matchesLicensingMode(context.LicensingMode, rule.LicensingMode) {
		return false
	}

	return true
}

// matchesSubject checks if a subject matches the given matcher.
func matchesSubject(subject *pdp_model.Subject, matcher *model.SubjectMatcher) bool {
	if subject == nil {
		// A matcher with no constraints is still a wildcard.
		return len(matcher.Type) == 0 && len(matcher.Labels) == 0 && matcher.ID == ""
	}

	if len(matcher.Type) > 0 && !matchesSubjectType(subject.Type, matcher.Type) {
		return false
	}

	// Subject must have ALL required labels (subset, not overlap).
	if len(matcher.Labels) > 0 && !hasAllLabels(subject.Labels, matcher.Labels) {
		return false
	}

	if matcher.ID != "" && !matchesIDPattern(subject.ID, matcher.ID) {
		return false
	}

	return true
}

// matchesSubjectType checks membership of a type in the allowed set.
func matchesSubjectType(st model.SubjectType, allowed model.SubjectTypes) bool {
	if st == "" {
		return false
	}
	for _, t := range allowed {
		if t == st {
			return true
		}
	}
	return false
}

// hasAllLabels checks if subjectLabels contains all required labels.
func hasAllLabels(subjectLabels []string, requiredLabels []string) bool {
	if len(requiredLabels) == 0 {
		return true
	}
	if len(subjectLabels) == 0 {
		return false
	}

	labelSet := make(map[string]bool, len(subjectLabels))
	for _, label := range subjectLabels {
		labelSet[label] = true
	}

	for _, required := range requiredLabels {
		if !labelSet[required] {
			return false
		}
	}
	return true
}

// matchesIDPattern checks if an ID matches a pattern: exact match, or
// prefix match when the pattern ends with *.
func matchesIDPattern(id string, pattern string) bool {
	if pattern == "" {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(id, prefix)
	}

	return id == pattern
}

// matchesPurpose checks if a purpose is in the allowed set.
func matchesPurpose(purpose model.ControlPurpose, allowed model.Purposes) bool {
	if len(allowed) == 0 {
		return true
	}
	if purpose == "" {
		return false
	}

	for _, p := range allowed {
		if p == purpose {
			return true
		}
	}
	return false
}

// matchesLicensingMode checks if a mode is in the allowed set.
func matchesLicensingMode(mode model.ControlLicensingMode, allowed model.LicensingModes) bool {
	if len(allowed) == 0 {
		return true
	}
	if mode == "" {
		return false
	}

	for _, m := range allowed {
		if m == mode {
			return true
		}
	}
	return false
}
