// pdp/engine/evaluator.go

// Package engine implements first-match-wins evaluation of PEAC policy
// documents. Every method is a pure function over its arguments: the
// evaluator holds no state, never mutates the document, and is safe for
// concurrent use.
package engine

import (
	"github.com/peacprotocol/peac-engine/model"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
)

// ReasonNilPolicy is the reason returned when evaluating a nil policy.
const ReasonNilPolicy = "nil policy"

type PolicyEvaluator struct{}

func NewPolicyEvaluator() *PolicyEvaluator {
	return &PolicyEvaluator{}
}

// Evaluate walks policy.Rules in declaration order and returns the first
// match; if no rule matches, the policy defaults apply with IsDefault set.
// The scan never treats deny specially: the contract is first syntactic
// match, not first negative match.
//
// A nil policy evaluates to deny with reason ReasonNilPolicy. A nil context
// is treated as empty.
func (pe *PolicyEvaluator) Evaluate(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) *pdp_model.EvaluationResult {
	if policy == nil {
		return &pdp_model.EvaluationResult{
			Decision:  model.Deny,
			Reason:    ReasonNilPolicy,
			IsDefault: true,
		}
	}

	if context == nil {
		context = &pdp_model.EvaluationContext{}
	}

	for i := range policy.Rules {
		if ruleMatches(&policy.Rules[i], context) {
			return &pdp_model.EvaluationResult{
				Decision:    policy.Rules[i].Decision,
				MatchedRule: policy.Rules[i].Name,
				Reason:      policy.Rules[i].Reason,
				IsDefault:   false,
			}
		}
	}

	return &pdp_model.EvaluationResult{
		Decision:  policy.Defaults.Decision,
		Reason:    policy.Defaults.Reason,
		IsDefault: true,
	}
}

// IsAllowed returns true if the policy allows the context.
func (pe *PolicyEvaluator) IsAllowed(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) bool {
	return pe.Evaluate(policy, context).Decision == model.Allow
}

// IsDenied returns true if the policy denies the context.
func (pe *PolicyEvaluator) IsDenied(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) bool {
	return pe.Evaluate(policy, context).Decision == model.Deny
}

// RequiresReview returns true if the policy requires review for the context.
func (pe *PolicyEvaluator) RequiresReview(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) bool {
	return pe.Evaluate(policy, context).Decision == model.Review
}

// ExplainMatches collects the names of ALL rules that would match the
// context, in declaration order. Returns ["[default]"] when none match.
// Intended for debugging; Evaluate remains the authoritative single result.
func (pe *PolicyEvaluator) ExplainMatches(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) []string {
	if policy == nil {
		return []string{pdp_model.DefaultRuleSentinel}
	}
	if context == nil {
		context = &pdp_model.EvaluationContext{}
	}

	var names []string
	for i := range policy.Rules {
		if ruleMatches(&policy.Rules[i], context) {
			names = append(names, policy.Rules[i].Name)
		}
	}

	if len(names) == 0 {
		return []string{pdp_model.DefaultRuleSentinel}
	}
	return names
}

// FindEffectiveRule runs the same scan as Evaluate but returns the matching
// rule itself, or nil when the default applies.
func (pe *PolicyEvaluator) FindEffectiveRule(policy *model.PolicyDocument, context *pdp_model.EvaluationContext) *model.PolicyRule {
	if policy == nil {
		return nil
	}
	if context == nil {
		context = &pdp_model.EvaluationContext{}
	}

	for i := range policy.Rules {
		if ruleMatches(&policy.Rules[i], context) {
			return &policy.Rules[i]
		}
	}
	return nil
}

// EvaluateBatch evaluates a policy against multiple contexts, preserving
// order. Contexts are independent; no cross-context memoization.
func (pe *PolicyEvaluator) EvaluateBatch(policy *model.PolicyDocument, contexts []*pdp_model.EvaluationContext) []*pdp_model.EvaluationResult {
	results := make([]*pdp_model.EvaluationResult, len(contexts))
	for i, ctx := range contexts {
		results[i] = pe.Evaluate(policy, ctx)
	}
	return results
}
