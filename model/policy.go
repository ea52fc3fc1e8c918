// model/policy.go

// Package model defines the PEAC policy document model. Documents are
// created by the loader and treated as read-only by every other package;
// rule order is semantically significant and is never resorted.
package model

// Decision represents a policy decision.
type Decision string

const (
	// Allow unconditionally permits access.
	Allow Decision = "allow"
	// Deny unconditionally forbids access.
	Deny Decision = "deny"
	// Review requires a condition (typically a valid receipt) to be met.
	Review Decision = "review"
)

// SubjectType represents the type of subject making a request.
type SubjectType string

const (
	Human SubjectType = "human"
	Agent SubjectType = "agent"
	Org   SubjectType = "org"
)

// ControlPurpose represents the declared purpose of access. Both canonical
// and legacy tokens are valid purposes inside policy rules; the purpose
// package owns the canonical/legacy taxonomy.
type ControlPurpose string

const (
	PurposeTrain      ControlPurpose = "train"
	PurposeSearch     ControlPurpose = "search"
	PurposeUserAction ControlPurpose = "user_action"
	PurposeInference  ControlPurpose = "inference"
	PurposeIndex      ControlPurpose = "index"

	// Deprecated legacy purposes, each mapped to a canonical purpose.
	PurposeCrawl   ControlPurpose = "crawl"
	PurposeAiInput ControlPurpose = "ai_input"
	PurposeAiIndex ControlPurpose = "ai_index"
)

// ControlLicensingMode represents the licensing arrangement.
type ControlLicensingMode string

const (
	LicensingSubscription    ControlLicensingMode = "subscription"
	LicensingPayPerInference ControlLicensingMode = "pay_per_inference"
	LicensingPayPerCrawl     ControlLicensingMode = "pay_per_crawl"
)

// PolicyVersion is the supported policy format version. Documents with any
// other version value are rejected before evaluation.
const PolicyVersion = "peac-policy/0.1"

// PolicyDocument represents a PEAC policy document.
type PolicyDocument struct {
	// Version of the policy format (must be "peac-policy/0.1")
	Version string `json:"version" yaml:"version"`

	// Name is an optional human-readable name for the policy.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Defaults specifies fallback values when no rule matches.
	Defaults PolicyDefaults `json:"defaults" yaml:"defaults"`

	// Rules are evaluated in order; first match wins.
	Rules []PolicyRule `json:"rules" yaml:"rules"`
}

// PolicyDefaults specifies the default decision when no rule matches.
type PolicyDefaults struct {
	Decision Decision `json:"decision" yaml:"decision"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// PolicyRule represents a single rule in a policy.
type PolicyRule struct {
	// Name identifies the rule (required, unique within a policy).
	Name string `json:"name" yaml:"name"`

	// Subject specifies constraints on who is making the request.
	// If omitted, matches any subject.
	Subject *SubjectMatcher `json:"subject,omitempty" yaml:"subject,omitempty"`

	// Purpose specifies which purposes this rule applies to.
	// Accepts a single purpose or an array. If omitted, matches any purpose.
	Purpose Purposes `json:"purpose,omitempty" yaml:"purpose,omitempty"`

	// LicensingMode specifies which licensing modes this rule applies to.
	// Accepts a single mode or an array. If omitted, matches any mode.
	LicensingMode LicensingModes `json:"licensing_mode,omitempty" yaml:"licensing_mode,omitempty"`

	// Decision is the outcome if this rule matches (required).
	Decision Decision `json:"decision" yaml:"decision"`

	// Reason explains why this decision was made.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// SubjectMatcher specifies constraints for matching a subject. All
// specified fields must match (AND); omitted fields are wildcards.
type SubjectMatcher struct {
	// Type constrains subject type. Accepts a single type or an array.
	Type SubjectTypes `json:"type,omitempty" yaml:"type,omitempty"`

	// Labels the subject must have (ALL required, subset semantics).
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// ID pattern for matching subject ID. Supports prefix matching with a
	// trailing * (e.g. "internal:*").
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Purposes represents one or more purposes (single-or-array on the wire).
type Purposes []ControlPurpose

// LicensingModes represents one or more licensing modes (single-or-array on
// the wire).
type LicensingModes []ControlLicensingMode

// SubjectTypes represents one or more subject types (single-or-array on the
// wire).
type SubjectTypes []SubjectType
