// test/mock/decision_service.go

// Package mocks provides hand-written testify mocks for the service
// interfaces used by the controller tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/peacprotocol/peac-engine/model"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
	"github.com/peacprotocol/peac-engine/purpose"
)

// MockDecisionService implements service.IDecisionService.
type MockDecisionService struct {
	mock.Mock
}

func (m *MockDecisionService) Evaluate(ctx context.Context, ec *pdp_model.EvaluationContext) (*pdp_model.EvaluationResult, error) {
	args := m.Called(ctx, ec)
	if result := args.Get(0); result != nil {
		return result.(*pdp_model.EvaluationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDecisionService) EvaluateBatch(ctx context.Context, contexts []*pdp_model.EvaluationContext) ([]*pdp_model.EvaluationResult, error) {
	args := m.Called(ctx, contexts)
	if results := args.Get(0); results != nil {
		return results.([]*pdp_model.EvaluationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDecisionService) Explain(ctx context.Context, ec *pdp_model.EvaluationContext) ([]string, error) {
	args := m.Called(ctx, ec)
	if matches := args.Get(0); matches != nil {
		return matches.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDecisionService) Enforce(ctx context.Context, decision model.Decision, sctx *pdp_model.SatisfactionContext) (*pdp_model.EnforcementResult, error) {
	args := m.Called(ctx, decision, sctx)
	if result := args.Get(0); result != nil {
		return result.(*pdp_model.EnforcementResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDecisionService) EvaluatePurpose(ctx context.Context, tokens []string, profileID string) (*purpose.PurposeEvaluationResult, error) {
	args := m.Called(ctx, tokens, profileID)
	if result := args.Get(0); result != nil {
		return result.(*purpose.PurposeEvaluationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDecisionService) ValidateTokens(tokens []string) purpose.TokenValidation {
	args := m.Called(tokens)
	return args.Get(0).(purpose.TokenValidation)
}
