// compiler/artifacts.go

// Package compiler renders deterministic text artifacts (peac.txt,
// robots.txt, markdown) from a policy document. Renderers read the
// document but never mutate it; any display ordering is applied to copies.
package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/purpose"
)

// CompilePeacTxt renders the machine-readable peac.txt artifact. Rules are
// listed in declaration order because order is the evaluation semantics.
func CompilePeacTxt(doc *model.PolicyDocument, profileID string) string {
	var b strings.Builder

	b.WriteString("# peac.txt (generated)\n")
	fmt.Fprintf(&b, "version: %s\n", doc.Version)
	if doc.Name != "" {
		fmt.Fprintf(&b, "policy: %s\n", doc.Name)
	}
	if profileID != "" {
		fmt.Fprintf(&b, "profile: %s\n", profileID)
	}
	fmt.Fprintf(&b, "default: %s\n", doc.Defaults.Decision)

	for i := range doc.Rules {
		rule := &doc.Rules[i]
		fmt.Fprintf(&b, "rule: %s decision=%s", rule.Name, rule.Decision)
		if len(rule.Purpose) > 0 {
			fmt.Fprintf(&b, " purpose=%s", joinPurposes(rule.Purpose))
		}
		if len(rule.LicensingMode) > 0 {
			fmt.Fprintf(&b, " licensing_mode=%s", joinModes(rule.LicensingMode))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// CompileRobotsTxt renders a robots.txt approximation of the policy: a
// crawler is told to stay out unless some rule allows the index purpose or
// the policy default allows.
func CompileRobotsTxt(doc *model.PolicyDocument) string {
	var b strings.Builder
	b.WriteString("# robots.txt (generated from PEAC policy)\n")
	b.WriteString("User-agent: *\n")

	if indexingAllowed(doc) {
		b.WriteString("Allow: /\n")
	} else {
		b.WriteString("Disallow: /\n")
	}

	return b.String()
}

func indexingAllowed(doc *model.PolicyDocument) bool {
	for i := range doc.Rules {
		rule := &doc.Rules[i]
		if rule.Decision != model.Allow {
			continue
		}
		if len(rule.Purpose) == 0 {
			return true
		}
		for _, p := range rule.Purpose {
			if p == model.PurposeIndex || p == model.PurposeCrawl || p == model.PurposeAiIndex {
				return true
			}
		}
	}
	return doc.Defaults.Decision == model.Allow
}

// CompileMarkdown renders a human-readable summary. Rules are sorted
// alphabetically for readability; the sort operates on a copy so the
// document's evaluation order is untouched.
func CompileMarkdown(doc *model.PolicyDocument) string {
	var b strings.Builder

	title := doc.Name
	if title == "" {
		title = "Access Policy"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Format: `%s`\n\n", doc.Version)
	fmt.Fprintf(&b, "Default decision: **%s**", doc.Defaults.Decision)
	if doc.Defaults.Reason != "" {
		fmt.Fprintf(&b, " (%s)", doc.Defaults.Reason)
	}
	b.WriteString("\n\n")

	sorted := make([]model.PolicyRule, len(doc.Rules))
	copy(sorted, doc.Rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	b.WriteString("| Rule | Decision | Purpose | Licensing | Reason |\n")
	b.WriteString("|------|----------|---------|-----------|--------|\n")
	for i := range sorted {
		rule := &sorted[i]
		purposeCol := "any"
		if len(rule.Purpose) > 0 {
			purposeCol = joinPurposes(rule.Purpose)
		}
		modeCol := "any"
		if len(rule.LicensingMode) > 0 {
			modeCol = joinModes(rule.LicensingMode)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			rule.Name, rule.Decision, purposeCol, modeCol, rule.Reason)
	}

	return b.String()
}

// CompileProfileSummary renders a one-profile summary block for peac.txt
// consumers that only use canned profiles.
func CompileProfileSummary(profile *purpose.EnforcementProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "profile: %s\n", profile.ID)
	fmt.Fprintf(&b, "undeclared: %s\n", profile.UndeclaredDecision)
	fmt.Fprintf(&b, "unknown: %s\n", profile.UnknownDecision)
	fmt.Fprintf(&b, "receipts: %s\n", profile.Receipts)
	if profile.DefaultConstraints != nil && profile.DefaultConstraints.RateLimit != nil {
		fmt.Fprintf(&b, "rate_limit: rpm=%d retry_after_s=%d\n",
			profile.DefaultConstraints.RateLimit.RequestsPerMinute,
			profile.DefaultConstraints.RateLimit.RetryAfterSeconds)
	}
	return b.String()
}

func joinPurposes(purposes model.Purposes) string {
	parts := make([]string, len(purposes))
	for i, p := range purposes {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func joinModes(modes model.LicensingModes) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
