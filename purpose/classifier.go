// purpose/classifier.go

// Package purpose validates and classifies PEAC purpose tokens and
// evaluates declared purposes against enforcement profiles. Everything in
// this package is a pure function over fixed tables.
package purpose

import (
	"regexp"
	"strings"

	"github.com/peacprotocol/peac-engine/model"
)

// UndeclaredToken is the internal sentinel for "no purpose header sent".
// It is never valid as literal wire input.
const UndeclaredToken = "undeclared"

// MaxTokenLength bounds a purpose token on the wire.
const MaxTokenLength = 64

// Token grammar: lowercase start, [a-z0-9_-] body, optional single
// vendor-prefix segment separated by one colon. Hyphens permitted for
// interop.
var tokenPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*(?::[a-z][a-z0-9_-]*)?$`)

// CanonicalPurposes are the tokens PEAC defines enforcement semantics for,
// in documentation order.
var CanonicalPurposes = []model.ControlPurpose{
	model.PurposeTrain,
	model.PurposeSearch,
	model.PurposeUserAction,
	model.PurposeInference,
	model.PurposeIndex,
}

// LegacyMapping resolves a deprecated purpose token to its canonical
// replacement.
type LegacyMapping struct {
	Canonical   model.ControlPurpose `json:"canonical"`
	MappingNote string               `json:"mapping_note"`
}

var canonicalSet = map[model.ControlPurpose]bool{
	model.PurposeTrain:      true,
	model.PurposeSearch:     true,
	model.PurposeUserAction: true,
	model.PurposeInference:  true,
	model.PurposeIndex:      true,
}

// legacyToCanonical is the fixed, total mapping for the three deprecated
// tokens.
var legacyToCanonical = map[model.ControlPurpose]LegacyMapping{
	model.PurposeCrawl:   {Canonical: model.PurposeIndex, MappingNote: "crawl is deprecated; mapped to index"},
	model.PurposeAiInput: {Canonical: model.PurposeInference, MappingNote: "ai_input is deprecated; mapped to inference"},
	model.PurposeAiIndex: {Canonical: model.PurposeIndex, MappingNote: "ai_index is deprecated; mapped to index"},
}

// IsValidPurposeToken reports whether a token satisfies the purpose
// grammar.
func IsValidPurposeToken(token string) bool {
	if len(token) == 0 || len(token) > MaxTokenLength {
		return false
	}
	return tokenPattern.MatchString(token)
}

// IsCanonical reports whether a token is one of the five canonical
// purposes.
func IsCanonical(token model.ControlPurpose) bool {
	return canonicalSet[token]
}

// IsLegacy reports whether a token is a deprecated legacy purpose.
func IsLegacy(token model.ControlPurpose) bool {
	_, ok := legacyToCanonical[token]
	return ok
}

// MapLegacyToCanonical resolves a legacy token via the fixed table. The
// second return is false for tokens that are not legacy purposes.
func MapLegacyToCanonical(legacy model.ControlPurpose) (LegacyMapping, bool) {
	mapping, ok := legacyToCanonical[legacy]
	return mapping, ok
}

// ParsePurposeHeader splits a comma-separated PEAC-Purpose header into an
// ordered, deduplicated token list. Tokens are trimmed and lowercased,
// empties dropped, first-seen order preserved. An empty header yields an
// empty list.
func ParsePurposeHeader(raw string) []string {
	if raw == "" {
		return nil
	}

	seen := make(map[string]bool)
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// TokenValidation is the outcome of validating a declared token list.
type TokenValidation struct {
	// Valid is false if any token fails the grammar or the reserved
	// "undeclared" sentinel was sent explicitly.
	Valid bool `json:"valid"`

	// InvalidTokens lists the tokens that failed the grammar.
	InvalidTokens []string `json:"invalid_tokens,omitempty"`

	// UndeclaredPresent reports an explicit "undeclared" on the wire.
	UndeclaredPresent bool `json:"undeclared_present"`
}

// ValidatePurposeTokens checks every token against the grammar and rejects
// the reserved internal sentinel. Unknown-but-grammar-valid tokens pass:
// forward compatibility takes precedence over strictness there.
func ValidatePurposeTokens(tokens []string) TokenValidation {
	result := TokenValidation{Valid: true}

	for _, token := range tokens {
		if token == UndeclaredToken {
			result.UndeclaredPresent = true
			result.Valid = false
			continue
		}
		if !IsValidPurposeToken(token) {
			result.InvalidTokens = append(result.InvalidTokens, token)
			result.Valid = false
		}
	}

	return result
}

// DeriveKnownPurposes filters a token list down to the canonical purposes,
// preserving declaration order.
func DeriveKnownPurposes(tokens []string) []model.ControlPurpose {
	var known []model.ControlPurpose
	for _, token := range tokens {
		if p := model.ControlPurpose(token); canonicalSet[p] {
			known = append(known, p)
		}
	}
	return known
}
