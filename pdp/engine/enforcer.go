// pdp/engine/enforcer.go
package engine

import (
	"fmt"
	"net/http"

	"github.com/peacprotocol/peac-engine/model"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
)

// ChallengeHeaderValue is the WWW-Authenticate value issued with a receipt
// challenge. This is the only wire-format string the engine emits.
const ChallengeHeaderValue = `PEAC realm="receipt", error="receipt_required"`

// Enforcement reasons.
const (
	ReasonAllowed              = "allowed"
	ReasonDenied               = "denied"
	ReasonRequirementSatisfied = "review_requirement_satisfied"
	ReasonReceiptRequired      = "receipt_required"
	ReasonAttestationRequired  = "attestation_required"
)

// EnforceDecision turns a decision plus the caller's satisfaction context
// into an HTTP-shaped outcome. Deny ignores the context entirely. For
// review, the first defined field wins, in priority order
// CustomRequirementMet > ReceiptVerified > HumanAttested, defaulting to
// unmet.
//
// The 402/401 split on an unmet review: when the caller never indicated
// receipt status, or explicitly indicated no receipt, the expected remedy
// is a receipt and the status is 402. 401 covers the remaining case where a
// verified receipt was presented yet a higher-priority requirement still
// failed, so asking for payment again would be the wrong remedy.
func EnforceDecision(decision model.Decision, sctx *pdp_model.SatisfactionContext) *pdp_model.EnforcementResult {
	if sctx == nil {
		sctx = &pdp_model.SatisfactionContext{}
	}

	switch decision {
	case model.Allow:
		return &pdp_model.EnforcementResult{
			Allowed:    true,
			StatusCode: http.StatusOK,
			Reason:     ReasonAllowed,
			Challenge:  false,
			Decision:   decision,
		}

	case model.Deny:
		return &pdp_model.EnforcementResult{
			Allowed:    false,
			StatusCode: http.StatusForbidden,
			Reason:     ReasonDenied,
			Challenge:  false,
			Decision:   decision,
		}

	case model.Review:
		if requirementMet(sctx) {
			return &pdp_model.EnforcementResult{
				Allowed:    true,
				StatusCode: http.StatusOK,
				Reason:     ReasonRequirementSatisfied,
				Challenge:  false,
				Decision:   decision,
			}
		}

		expectsReceipt := sctx.ReceiptVerified == nil || !*sctx.ReceiptVerified
		if expectsReceipt {
			return &pdp_model.EnforcementResult{
				Allowed:    false,
				StatusCode: http.StatusPaymentRequired,
				Reason:     ReasonReceiptRequired,
				Challenge:  true,
				Decision:   decision,
			}
		}
		return &pdp_model.EnforcementResult{
			Allowed:    false,
			StatusCode: http.StatusUnauthorized,
			Reason:     ReasonAttestationRequired,
			Challenge:  true,
			Decision:   decision,
		}

	default:
		// Only reachable if the decision enum itself is corrupted; that is
		// a programming error, not a runtime condition.
		panic(fmt.Sprintf("enforce: invalid decision %q", decision))
	}
}

// requirementMet resolves the review requirement: first defined field wins.
func requirementMet(sctx *pdp_model.SatisfactionContext) bool {
	if sctx.CustomRequirementMet != nil {
		return *sctx.CustomRequirementMet
	}
	if sctx.ReceiptVerified != nil {
		return *sctx.ReceiptVerified
	}
	if sctx.HumanAttested != nil {
		return *sctx.HumanAttested
	}
	return false
}

// GetChallengeHeader returns the WWW-Authenticate value for a challenged
// result, or "" when no challenge is being issued.
func GetChallengeHeader(result *pdp_model.EnforcementResult) string {
	if result != nil && result.Challenge {
		return ChallengeHeaderValue
	}
	return ""
}

// EnforceForHTTP composes EnforceDecision and GetChallengeHeader into a
// ready-to-write response shape.
func EnforceForHTTP(decision model.Decision, sctx *pdp_model.SatisfactionContext) *pdp_model.HTTPResponse {
	result := EnforceDecision(decision, sctx)

	headers := make(http.Header)
	if header := GetChallengeHeader(result); header != "" {
		headers.Set("WWW-Authenticate", header)
	}

	return &pdp_model.HTTPResponse{
		Status:  result.StatusCode,
		Headers: headers,
		Allowed: result.Allowed,
		Reason:  result.Reason,
	}
}
