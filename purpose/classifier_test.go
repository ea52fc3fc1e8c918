package purpose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/peacprotocol/peac-engine/model"
)

func TestIsValidPurposeToken(t *testing.T) {
	valid := []string{
		"train",
		"search",
		"user_action",
		"vendor:custom",
		"a",
		"ai-index",
		"x9_-z:b2",
	}
	for _, token := range valid {
		assert.True(t, IsValidPurposeToken(token), "expected %q to be valid", token)
	}

	invalid := []string{
		"",
		"Train",
		"9train",
		"_train",
		"-train",
		"train:",
		":train",
		"a:b:c",
		"vendor:Custom",
		"has space",
		"träin",
	}
	for _, token := range invalid {
		assert.False(t, IsValidPurposeToken(token), "expected %q to be invalid", token)
	}
}

func TestIsValidPurposeToken_MaxLength(t *testing.T) {
	token := "a"
	for len(token) < MaxTokenLength {
		token += "x"
	}
	assert.Len(t, token, MaxTokenLength)
	assert.True(t, IsValidPurposeToken(token))
	assert.False(t, IsValidPurposeToken(token+"x"))
}

func TestParsePurposeHeader(t *testing.T) {
	// Lowercased, trimmed, deduped, empties dropped, order preserved.
	assert.Equal(t,
		[]string{"train", "search"},
		ParsePurposeHeader("TRAIN, train ,search,,search"))

	assert.Empty(t, ParsePurposeHeader(""))
	assert.Empty(t, ParsePurposeHeader("  ,  ,"))

	assert.Equal(t,
		[]string{"crawl", "vendor:custom", "train"},
		ParsePurposeHeader("crawl, vendor:custom, train"))
}

func TestValidatePurposeTokens(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		result := ValidatePurposeTokens([]string{"train", "vendor:custom"})
		assert.True(t, result.Valid)
		assert.Empty(t, result.InvalidTokens)
		assert.False(t, result.UndeclaredPresent)
	})

	t.Run("grammar failures reported", func(t *testing.T) {
		result := ValidatePurposeTokens([]string{"train", "Bad", "9x"})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"Bad", "9x"}, result.InvalidTokens)
	})

	t.Run("reserved undeclared rejected on the wire", func(t *testing.T) {
		result := ValidatePurposeTokens([]string{"undeclared"})
		assert.False(t, result.Valid)
		assert.True(t, result.UndeclaredPresent)
		assert.Empty(t, result.InvalidTokens)
	})

	t.Run("empty list is valid", func(t *testing.T) {
		assert.True(t, ValidatePurposeTokens(nil).Valid)
	})
}

func TestMapLegacyToCanonical_Totality(t *testing.T) {
	legacy := []model.ControlPurpose{
		model.PurposeCrawl,
		model.PurposeAiInput,
		model.PurposeAiIndex,
	}
	for _, token := range legacy {
		mapping, ok := MapLegacyToCanonical(token)
		assert.True(t, ok, "mapping must be total over %q", token)
		assert.True(t, IsCanonical(mapping.Canonical))
		assert.NotEmpty(t, mapping.MappingNote)
	}

	_, ok := MapLegacyToCanonical(model.PurposeTrain)
	assert.False(t, ok)
	_, ok = MapLegacyToCanonical("vendor:custom")
	assert.False(t, ok)
}

func TestClassification_ExactlyOneBucket(t *testing.T) {
	// Every grammar-valid token is exactly one of canonical, legacy, unknown.
	tokens := []string{"train", "search", "user_action", "inference", "index",
		"crawl", "ai_input", "ai_index", "vendor:custom", "unknown_thing"}

	for _, token := range tokens {
		p := model.ControlPurpose(token)
		buckets := 0
		if IsCanonical(p) {
			buckets++
		}
		if IsLegacy(p) {
			buckets++
		}
		assert.LessOrEqual(t, buckets, 1, "token %q in more than one bucket", token)
	}
}

func TestDeriveKnownPurposes(t *testing.T) {
	known := DeriveKnownPurposes([]string{"crawl", "search", "vendor:x", "train"})
	assert.Equal(t, []model.ControlPurpose{model.PurposeSearch, model.PurposeTrain}, known)

	assert.Empty(t, DeriveKnownPurposes([]string{"crawl", "vendor:x"}))
	assert.Empty(t, DeriveKnownPurposes(nil))
}
