// purpose/profiles.go
package purpose

import (
	"net/http"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
)

// ReceiptsPolicy says whether a profile expects receipts on review flows.
type ReceiptsPolicy string

const (
	ReceiptsRequired ReceiptsPolicy = "required"
	ReceiptsOptional ReceiptsPolicy = "optional"
)

// RateLimit is the default rate constraint a profile attaches to review
// outcomes.
type RateLimit struct {
	RequestsPerMinute int `json:"rpm,omitempty"`
	RetryAfterSeconds int `json:"retry_after_s"`
}

// Constraints bundle the enforceable limits attached to a decision.
type Constraints struct {
	RateLimit *RateLimit `json:"rate_limit,omitempty"`
}

// EnforcementProfile is a named bundle of default decisions for undeclared
// and unknown purposes. The three instances below are fixed; callers must
// treat them as read-only.
type EnforcementProfile struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	UndeclaredDecision model.Decision `json:"undeclared_decision"`
	UnknownDecision    model.Decision `json:"unknown_decision"`
	PurposeReason      string         `json:"purpose_reason"`
	DefaultConstraints *Constraints   `json:"default_constraints,omitempty"`
	Receipts           ReceiptsPolicy `json:"receipts"`
}

// Profile ids.
const (
	ProfileStrict   = "strict"
	ProfileBalanced = "balanced"
	ProfileOpen     = "open"
)

// DefaultProfileID is used when a caller does not choose a profile.
const DefaultProfileID = ProfileBalanced

var enforcementProfiles = map[string]*EnforcementProfile{
	ProfileStrict: {
		ID:                 ProfileStrict,
		Name:               "Strict",
		Description:        "Deny anything that does not declare a recognized purpose.",
		UndeclaredDecision: model.Deny,
		UnknownDecision:    model.Deny,
		PurposeReason:      "purpose declaration is mandatory",
		DefaultConstraints: &Constraints{
			RateLimit: &RateLimit{RequestsPerMinute: 10, RetryAfterSeconds: 60},
		},
		Receipts: ReceiptsRequired,
	},
	ProfileBalanced: {
		ID:                 ProfileBalanced,
		Name:               "Balanced",
		Description:        "Review undeclared and unknown purposes instead of denying outright.",
		UndeclaredDecision: model.Review,
		UnknownDecision:    model.Review,
		PurposeReason:      "undeclared and unknown purposes are held for review",
		DefaultConstraints: &Constraints{
			RateLimit: &RateLimit{RequestsPerMinute: 30, RetryAfterSeconds: 30},
		},
		Receipts: ReceiptsOptional,
	},
	ProfileOpen: {
		ID:                 ProfileOpen,
		Name:               "Open",
		Description:        "Allow everything; purpose declarations are informational.",
		UndeclaredDecision: model.Allow,
		UnknownDecision:    model.Allow,
		PurposeReason:      "all purposes are permitted",
		Receipts:           ReceiptsOptional,
	},
}

// GetEnforcementProfile looks up a profile by id. Unknown ids are a hard
// failure, never a silent fallback to the default profile.
func GetEnforcementProfile(id string) (*EnforcementProfile, error) {
	profile, ok := enforcementProfiles[id]
	if !ok {
		return nil, &peac_errors.UnknownProfileError{ID: id}
	}
	return profile, nil
}

// Reason codes carried on PurposeEvaluationResult.
const (
	ReasonUndeclaredDefault = "undeclared_default"
	ReasonUnknownPreserved  = "unknown_preserved"
	ReasonAllowed           = "allowed"
)

// PurposeEvaluationResult is the outcome of evaluating a declared purpose
// list against an enforcement profile.
type PurposeEvaluationResult struct {
	Decision model.Decision `json:"decision"`

	// PurposeEnforced is the canonical purpose enforcement applies to:
	// the first declared canonical token, or the canonical mapping of the
	// first declared legacy token. Empty when nothing recognized was
	// declared.
	PurposeEnforced model.ControlPurpose `json:"purpose_enforced,omitempty"`

	// PurposeReason is one of the reason codes above.
	PurposeReason string `json:"purpose_reason"`

	// Constraints are attached only to review outcomes.
	Constraints *Constraints `json:"constraints,omitempty"`

	// DeclaredPurposes echoes the declared token list.
	DeclaredPurposes []string `json:"declared_purposes,omitempty"`

	// UnknownTokens are grammar-valid tokens that are neither canonical nor
	// legacy, preserved verbatim for forward compatibility.
	UnknownTokens []string `json:"unknown_tokens,omitempty"`

	// Profile is the id of the profile that was applied.
	Profile string `json:"profile"`
}

// EvaluatePurpose evaluates declared purposes against a profile:
//
//  1. No declared purposes: the profile's undeclared decision applies.
//  2. Only unrecognized tokens: the profile's unknown decision applies.
//  3. At least one canonical or legacy token: allow, with canonical tokens
//     taking priority over legacy regardless of declaration order.
//
// Unknown tokens never block an otherwise-valid allow; they are preserved
// in the result. Constraints attach only to review decisions.
func EvaluatePurpose(declaredPurposes []string, profileID string) (*PurposeEvaluationResult, error) {
	if profileID == "" {
		profileID = DefaultProfileID
	}
	profile, err := GetEnforcementProfile(profileID)
	if err != nil {
		return nil, err
	}

	if len(declaredPurposes) == 0 {
		result := &PurposeEvaluationResult{
			Decision:      profile.UndeclaredDecision,
			PurposeReason: ReasonUndeclaredDefault,
			Profile:       profile.ID,
		}
		if result.Decision == model.Review {
			result.Constraints = profile.DefaultConstraints
		}
		return result, nil
	}

	var canonicalTokens, legacyTokens []model.ControlPurpose
	var unknownTokens []string
	for _, token := range declaredPurposes {
		p := model.ControlPurpose(token)
		switch {
		case IsCanonical(p):
			canonicalTokens = append(canonicalTokens, p)
		case IsLegacy(p):
			legacyTokens = append(legacyTokens, p)
		default:
			unknownTokens = append(unknownTokens, token)
		}
	}

	if len(canonicalTokens) == 0 && len(legacyTokens) == 0 {
		result := &PurposeEvaluationResult{
			Decision:         profile.UnknownDecision,
			PurposeReason:    ReasonUnknownPreserved,
			DeclaredPurposes: declaredPurposes,
			UnknownTokens:    unknownTokens,
			Profile:          profile.ID,
		}
		if result.Decision == model.Review {
			result.Constraints = profile.DefaultConstraints
		}
		return result, nil
	}

	// Something recognized was declared; the request is allowed and the
	// enforced purpose is pinned, canonical before legacy.
	enforced := model.ControlPurpose("")
	if len(canonicalTokens) > 0 {
		enforced = canonicalTokens[0]
	} else {
		mapping, _ := MapLegacyToCanonical(legacyTokens[0])
		enforced = mapping.Canonical
	}

	reason := ReasonAllowed
	if len(unknownTokens) > 0 {
		reason = ReasonUnknownPreserved
	}

	return &PurposeEvaluationResult{
		Decision:         model.Allow,
		PurposeEnforced:  enforced,
		PurposeReason:    reason,
		DeclaredPurposes: declaredPurposes,
		UnknownTokens:    unknownTokens,
		Profile:          profile.ID,
	}, nil
}

// GetPurposeStatusCode maps a purpose decision to an HTTP status. Review
// and deny both map to 403: 402 is reserved exclusively for receipt flows
// and a purpose decision must never look like a payment challenge.
func GetPurposeStatusCode(result *PurposeEvaluationResult) int {
	if result != nil && result.Decision == model.Allow {
		return http.StatusOK
	}
	return http.StatusForbidden
}

// GetRetryAfter reads the retry-after seconds from a constraint set. The
// second return is false when no rate limit is attached.
func GetRetryAfter(constraints *Constraints) (int, bool) {
	if constraints == nil || constraints.RateLimit == nil {
		return 0, false
	}
	return constraints.RateLimit.RetryAfterSeconds, true
}
