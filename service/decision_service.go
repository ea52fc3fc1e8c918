// service/decision_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peacprotocol/peac-engine/audit"
	"github.com/peacprotocol/peac-engine/db"
	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/pdp/engine"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
	"github.com/peacprotocol/peac-engine/purpose"
	"github.com/peacprotocol/peac-engine/util"
)

// IDecisionService is the business-logic surface the controllers call.
type IDecisionService interface {
	Evaluate(ctx context.Context, ec *pdp_model.EvaluationContext) (*pdp_model.EvaluationResult, error)
	EvaluateBatch(ctx context.Context, contexts []*pdp_model.EvaluationContext) ([]*pdp_model.EvaluationResult, error)
	Explain(ctx context.Context, ec *pdp_model.EvaluationContext) ([]string, error)
	Enforce(ctx context.Context, decision model.Decision, sctx *pdp_model.SatisfactionContext) (*pdp_model.EnforcementResult, error)
	EvaluatePurpose(ctx context.Context, tokens []string, profileID string) (*purpose.PurposeEvaluationResult, error)
	ValidateTokens(tokens []string) purpose.TokenValidation
}

// DecisionService orchestrates evaluation: engine call, decision cache,
// audit trail, event publication.
type DecisionService struct {
	provider     *PolicyProvider
	evaluator    *engine.PolicyEvaluator
	auditSvc     audit.Service
	eventBus     *util.EventBus
	cacheEnabled bool
}

// NewDecisionService creates the service and wires the audit subscriber to
// decision events so audit writes never sit on the request path.
func NewDecisionService(provider *PolicyProvider, auditSvc audit.Service, eventBus *util.EventBus, cacheEnabled bool) *DecisionService {
	s := &DecisionService{
		provider:     provider,
		evaluator:    engine.NewPolicyEvaluator(),
		auditSvc:     auditSvc,
		eventBus:     eventBus,
		cacheEnabled: cacheEnabled,
	}

	eventBus.Subscribe(util.EventDecisionEvaluated, s.handleDecisionEvaluated)
	eventBus.Subscribe(util.EventPurposeEvaluated, s.handlePurposeEvaluated)

	return s
}

func (s *DecisionService) handleDecisionEvaluated(ctx context.Context, event util.Event) error {
	record, ok := event.Payload.(audit.DecisionRecord)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	return s.auditSvc.LogDecision(ctx, record)
}

func (s *DecisionService) handlePurposeEvaluated(ctx context.Context, event util.Event) error {
	record, ok := event.Payload.(audit.DecisionRecord)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	return s.auditSvc.LogDecision(ctx, record)
}

// Evaluate runs a single policy evaluation, consulting the decision cache
// first. Cache failures degrade to a direct evaluation.
func (s *DecisionService) Evaluate(ctx context.Context, ec *pdp_model.EvaluationContext) (*pdp_model.EvaluationResult, error) {
	policy, err := s.provider.Current()
	if err != nil {
		return nil, err
	}

	cacheKey := cacheKeyFor(ec)
	if s.cacheEnabled {
		if cached, err := db.GetCachedDecision(ctx, cacheKey); err == nil && cached != nil {
			logger.Debug("Decision cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	result := s.evaluator.Evaluate(policy, ec)

	if s.cacheEnabled {
		if err := db.CacheDecision(ctx, cacheKey, result); err != nil {
			logger.Warn("Failed to cache decision", zap.Error(err), zap.String("key", cacheKey))
		}
	}

	s.publishDecision(ctx, ec, result)
	return result, nil
}

// EvaluateBatch evaluates every context against the current document.
// Contexts are independent, so the batch fans out across goroutines;
// results keep the request order.
func (s *DecisionService) EvaluateBatch(ctx context.Context, contexts []*pdp_model.EvaluationContext) ([]*pdp_model.EvaluationResult, error) {
	policy, err := s.provider.Current()
	if err != nil {
		return nil, err
	}

	results := make([]*pdp_model.EvaluationResult, len(contexts))
	g, _ := errgroup.WithContext(ctx)
	for i, ec := range contexts {
		i, ec := i, ec
		g.Go(func() error {
			results[i] = s.evaluator.Evaluate(policy, ec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Explain returns all rule names that would match the context.
func (s *DecisionService) Explain(ctx context.Context, ec *pdp_model.EvaluationContext) ([]string, error) {
	policy, err := s.provider.Current()
	if err != nil {
		return nil, err
	}
	return s.evaluator.ExplainMatches(policy, ec), nil
}

// Enforce maps a decision plus satisfaction context to an HTTP-shaped
// outcome. The decision value is validated here so the engine's corruption
// guard stays unreachable from wire input.
func (s *DecisionService) Enforce(ctx context.Context, decision model.Decision, sctx *pdp_model.SatisfactionContext) (*pdp_model.EnforcementResult, error) {
	switch decision {
	case model.Allow, model.Deny, model.Review:
	default:
		return nil, fmt.Errorf("invalid decision: %q", decision)
	}
	return engine.EnforceDecision(decision, sctx), nil
}

// EvaluatePurpose evaluates declared purpose tokens against an enforcement
// profile.
func (s *DecisionService) EvaluatePurpose(ctx context.Context, tokens []string, profileID string) (*purpose.PurposeEvaluationResult, error) {
	result, err := purpose.EvaluatePurpose(tokens, profileID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventPurposeEvaluated, audit.DecisionRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Purpose:    strings.Join(tokens, ","),
		Decision:   string(result.Decision),
		Profile:    result.Profile,
		Reason:     result.PurposeReason,
		StatusCode: purpose.GetPurposeStatusCode(result),
	})

	return result, nil
}

// ValidateTokens checks declared tokens against the purpose grammar.
func (s *DecisionService) ValidateTokens(tokens []string) purpose.TokenValidation {
	return purpose.ValidatePurposeTokens(tokens)
}

func (s *DecisionService) publishDecision(ctx context.Context, ec *pdp_model.EvaluationContext, result *pdp_model.EvaluationResult) {
	record := audit.DecisionRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Purpose:     string(ec.Purpose),
		Decision:    string(result.Decision),
		MatchedRule: result.MatchedRule,
		IsDefault:   result.IsDefault,
		Reason:      result.Reason,
	}
	if ec.Subject != nil {
		record.SubjectID = ec.Subject.ID
		record.SubjectType = string(ec.Subject.Type)
	}

	s.eventBus.Publish(ctx, util.EventDecisionEvaluated, record)
}

// cacheKeyFor derives a deterministic cache key from the evaluation
// context. Labels are part of the key because they affect matching.
func cacheKeyFor(ec *pdp_model.EvaluationContext) string {
	if ec == nil {
		return "::"
	}

	var subjectID, subjectType, labels string
	if ec.Subject != nil {
		subjectID = ec.Subject.ID
		subjectType = string(ec.Subject.Type)
		labels = strings.Join(ec.Subject.Labels, "+")
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", subjectID, subjectType, labels, ec.Purpose, ec.LicensingMode)
}
