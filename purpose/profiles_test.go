package purpose

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
)

func TestGetEnforcementProfile(t *testing.T) {
	for _, id := range []string{ProfileStrict, ProfileBalanced, ProfileOpen} {
		profile, err := GetEnforcementProfile(id)
		require.NoError(t, err)
		assert.Equal(t, id, profile.ID)
	}
}

func TestGetEnforcementProfile_UnknownIsHardFailure(t *testing.T) {
	profile, err := GetEnforcementProfile("lenient")
	assert.Nil(t, profile)

	var unknownErr *peac_errors.UnknownProfileError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "lenient", unknownErr.ID)
}

func TestEvaluatePurpose_Undeclared(t *testing.T) {
	t.Run("strict denies", func(t *testing.T) {
		result, err := EvaluatePurpose(nil, ProfileStrict)
		require.NoError(t, err)
		assert.Equal(t, model.Deny, result.Decision)
		assert.Equal(t, ReasonUndeclaredDefault, result.PurposeReason)
		// Constraints attach only to review outcomes.
		assert.Nil(t, result.Constraints)
	})

	t.Run("balanced reviews with constraints", func(t *testing.T) {
		result, err := EvaluatePurpose(nil, ProfileBalanced)
		require.NoError(t, err)
		assert.Equal(t, model.Review, result.Decision)
		assert.Equal(t, ReasonUndeclaredDefault, result.PurposeReason)
		require.NotNil(t, result.Constraints)
		require.NotNil(t, result.Constraints.RateLimit)
		assert.Equal(t, 30, result.Constraints.RateLimit.RetryAfterSeconds)
	})

	t.Run("open allows", func(t *testing.T) {
		result, err := EvaluatePurpose(nil, ProfileOpen)
		require.NoError(t, err)
		assert.Equal(t, model.Allow, result.Decision)
		assert.Nil(t, result.Constraints)
	})
}

func TestEvaluatePurpose_AllUnknown(t *testing.T) {
	result, err := EvaluatePurpose([]string{"vendor:custom"}, ProfileStrict)
	require.NoError(t, err)
	assert.Equal(t, model.Deny, result.Decision)
	assert.Equal(t, ReasonUnknownPreserved, result.PurposeReason)
	assert.Equal(t, []string{"vendor:custom"}, result.UnknownTokens)
	assert.Empty(t, result.PurposeEnforced)

	result, err = EvaluatePurpose([]string{"vendor:custom", "other:thing"}, ProfileBalanced)
	require.NoError(t, err)
	assert.Equal(t, model.Review, result.Decision)
	assert.NotNil(t, result.Constraints)
}

func TestEvaluatePurpose_CanonicalBeatsLegacy(t *testing.T) {
	// crawl is declared first, but a canonical token wins regardless of
	// declaration order.
	result, err := EvaluatePurpose([]string{"crawl", "train"}, ProfileBalanced)
	require.NoError(t, err)
	assert.Equal(t, model.Allow, result.Decision)
	assert.Equal(t, model.PurposeTrain, result.PurposeEnforced)
	assert.Equal(t, ReasonAllowed, result.PurposeReason)
	assert.Empty(t, result.UnknownTokens)
}

func TestEvaluatePurpose_LegacyOnly(t *testing.T) {
	result, err := EvaluatePurpose([]string{"ai_input"}, ProfileStrict)
	require.NoError(t, err)
	assert.Equal(t, model.Allow, result.Decision)
	assert.Equal(t, model.PurposeInference, result.PurposeEnforced)
	assert.Equal(t, ReasonAllowed, result.PurposeReason)
}

func TestEvaluatePurpose_UnknownNeverBlocksAllow(t *testing.T) {
	result, err := EvaluatePurpose([]string{"vendor:custom", "search"}, ProfileStrict)
	require.NoError(t, err)
	assert.Equal(t, model.Allow, result.Decision)
	assert.Equal(t, model.PurposeSearch, result.PurposeEnforced)
	assert.Equal(t, ReasonUnknownPreserved, result.PurposeReason)
	assert.Equal(t, []string{"vendor:custom"}, result.UnknownTokens)
}

func TestEvaluatePurpose_DefaultProfile(t *testing.T) {
	result, err := EvaluatePurpose(nil, "")
	require.NoError(t, err)
	assert.Equal(t, ProfileBalanced, result.Profile)
}

func TestEvaluatePurpose_UnknownProfileID(t *testing.T) {
	result, err := EvaluatePurpose([]string{"train"}, "bogus")
	assert.Nil(t, result)
	var unknownErr *peac_errors.UnknownProfileError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestGetPurposeStatusCode_Never402(t *testing.T) {
	cases := []struct {
		decision model.Decision
		want     int
	}{
		{model.Allow, http.StatusOK},
		{model.Review, http.StatusForbidden},
		{model.Deny, http.StatusForbidden},
	}
	for _, tc := range cases {
		got := GetPurposeStatusCode(&PurposeEvaluationResult{Decision: tc.decision})
		assert.Equal(t, tc.want, got)
		assert.NotEqual(t, http.StatusPaymentRequired, got)
	}

	assert.Equal(t, http.StatusForbidden, GetPurposeStatusCode(nil))
}

func TestGetRetryAfter(t *testing.T) {
	retry, ok := GetRetryAfter(&Constraints{RateLimit: &RateLimit{RetryAfterSeconds: 60}})
	assert.True(t, ok)
	assert.Equal(t, 60, retry)

	_, ok = GetRetryAfter(&Constraints{})
	assert.False(t, ok)
	_, ok = GetRetryAfter(nil)
	assert.False(t, ok)
}
