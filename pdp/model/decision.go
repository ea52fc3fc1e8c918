// pdp/model/decision.go
package model

import (
	"net/http"

	"github.com/peacprotocol/peac-engine/model"
)

// EvaluationResult contains the result of a policy evaluation.
type EvaluationResult struct {
	// Decision is the policy outcome.
	Decision model.Decision `json:"decision"`

	// MatchedRule is the name of the rule that matched (empty if default).
	MatchedRule string `json:"matched_rule,omitempty"`

	// Reason explains the decision.
	Reason string `json:"reason,omitempty"`

	// IsDefault indicates whether the policy default was applied.
	IsDefault bool `json:"is_default"`
}

// DefaultRuleSentinel is the rule-name sentinel ExplainMatches returns when
// no rule matches and the policy default applies.
const DefaultRuleSentinel = "[default]"

// SatisfactionContext carries the caller's knowledge about whether the
// requirement attached to a review decision has been met. Nil pointers mean
// "not indicated".
type SatisfactionContext struct {
	// ReceiptVerified reports whether a PEAC receipt was presented and
	// verified by the receipt collaborator.
	ReceiptVerified *bool `json:"receipt_verified,omitempty"`

	// HumanAttested reports whether a human attestation was presented.
	HumanAttested *bool `json:"human_attested,omitempty"`

	// CustomRequirementMet reports a deployment-specific requirement.
	// Takes priority over ReceiptVerified and HumanAttested when set.
	CustomRequirementMet *bool `json:"custom_requirement_met,omitempty"`
}

// EnforcementResult is the HTTP-shaped outcome of enforcing a decision.
type EnforcementResult struct {
	// Allowed indicates whether access is permitted.
	Allowed bool `json:"allowed"`

	// StatusCode is the HTTP status code to return.
	StatusCode int `json:"status_code"`

	// Reason explains the outcome.
	Reason string `json:"reason,omitempty"`

	// Challenge indicates whether a receipt challenge is being issued.
	Challenge bool `json:"challenge"`

	// Decision echoes the decision that was enforced.
	Decision model.Decision `json:"decision"`
}

// HTTPResponse is the composed wire outcome: status plus headers.
type HTTPResponse struct {
	Status  int         `json:"status"`
	Headers http.Header `json:"headers"`
	Allowed bool        `json:"allowed"`
	Reason  string      `json:"reason,omitempty"`
}
