// controller/purpose_controller_test.go
package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/purpose"
	mocks "github.com/peacprotocol/peac-engine/test/mock"
)

func setupPurposeRouter(svc *mocks.MockDecisionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewPurposeController(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestValidateTokensEndpoint(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", []string{"train", "robots.txt"}).
		Return(purpose.TokenValidation{
			Valid:         false,
			InvalidTokens: []string{"robots.txt"},
		})

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/validate", gin.H{
		"tokens": []string{"train", "robots.txt"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var validation purpose.TokenValidation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validation))
	assert.False(t, validation.Valid)
	assert.Equal(t, []string{"robots.txt"}, validation.InvalidTokens)
}

func TestEvaluatePurposeEndpoint(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", []string{"train"}).
		Return(purpose.TokenValidation{Valid: true})
	svc.On("EvaluatePurpose", mock.Anything, []string{"train"}, "strict").
		Return(&purpose.PurposeEvaluationResult{
			Decision:         model.Allow,
			PurposeEnforced:  model.PurposeTrain,
			PurposeReason:    purpose.ReasonAllowed,
			DeclaredPurposes: []string{"train"},
			Profile:          purpose.ProfileStrict,
		}, nil)

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/evaluate", gin.H{
		"purposes": []string{"train"},
		"profile":  "strict",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))

	var body struct {
		Result     *purpose.PurposeEvaluationResult `json:"result"`
		StatusCode int                              `json:"status_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.Allow, body.Result.Decision)
	assert.Equal(t, model.PurposeTrain, body.Result.PurposeEnforced)
	assert.Equal(t, http.StatusOK, body.StatusCode)
	svc.AssertExpectations(t)
}

func TestEvaluatePurposeEndpoint_HeaderInput(t *testing.T) {
	// The raw header value is parsed server-side when no token list is
	// given; the service sees the normalized tokens.
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", []string{"train", "search"}).
		Return(purpose.TokenValidation{Valid: true})
	svc.On("EvaluatePurpose", mock.Anything, []string{"train", "search"}, "").
		Return(&purpose.PurposeEvaluationResult{
			Decision:        model.Allow,
			PurposeEnforced: model.PurposeTrain,
			PurposeReason:   purpose.ReasonAllowed,
			Profile:         purpose.ProfileBalanced,
		}, nil)

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/evaluate", gin.H{
		"header": "TRAIN, train ,search,,search",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestEvaluatePurposeEndpoint_InvalidTokens(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", []string{"undeclared"}).
		Return(purpose.TokenValidation{
			Valid:             false,
			InvalidTokens:     []string{"undeclared"},
			UndeclaredPresent: true,
		})

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/evaluate", gin.H{
		"purposes": []string{"undeclared"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "EvaluatePurpose")
}

func TestEvaluatePurposeEndpoint_RetryAfter(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", mock.Anything).
		Return(purpose.TokenValidation{Valid: true})
	svc.On("EvaluatePurpose", mock.Anything, mock.Anything, "balanced").
		Return(&purpose.PurposeEvaluationResult{
			Decision:      model.Review,
			PurposeReason: purpose.ReasonUndeclaredDefault,
			Constraints: &purpose.Constraints{
				RateLimit: &purpose.RateLimit{RequestsPerMinute: 30, RetryAfterSeconds: 30},
			},
			Profile: purpose.ProfileBalanced,
		}, nil)

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/evaluate", gin.H{
		"profile": "balanced",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	var body struct {
		StatusCode int `json:"status_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.StatusCode)
}

func TestEvaluatePurposeEndpoint_UnknownProfile(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	svc.On("ValidateTokens", mock.Anything).
		Return(purpose.TokenValidation{Valid: true})
	svc.On("EvaluatePurpose", mock.Anything, mock.Anything, "paranoid").
		Return(nil, &peac_errors.UnknownProfileError{ID: "paranoid"})

	w := postJSON(t, setupPurposeRouter(svc), "/api/v1/purposes/evaluate", gin.H{
		"purposes": []string{"train"},
		"profile":  "paranoid",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProfileEndpoint(t *testing.T) {
	svc := new(mocks.MockDecisionService)
	r := setupPurposeRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/strict", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var profile purpose.EnforcementProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, purpose.ProfileStrict, profile.ID)
	assert.Equal(t, model.Deny, profile.UndeclaredDecision)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/paranoid", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
