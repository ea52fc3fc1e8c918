// controller/decision_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/pdp/engine"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
	"github.com/peacprotocol/peac-engine/service"
	"github.com/peacprotocol/peac-engine/util"
)

type DecisionController struct {
	decisionService service.IDecisionService
}

func NewDecisionController(decisionService service.IDecisionService) *DecisionController {
	return &DecisionController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	decisions := r.Group("/decisions")
	{
		decisions.POST("/evaluate", dc.Evaluate)
		decisions.POST("/evaluate/batch", dc.EvaluateBatch)
		decisions.POST("/explain", dc.Explain)
		decisions.POST("/enforce", dc.Enforce)
	}
}

// Evaluate endpoint
func (dc *DecisionController) Evaluate(c *gin.Context) {
	var ec pdp_model.EvaluationContext
	if err := c.ShouldBindJSON(&ec); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid evaluation context", peac_errors.ErrInvalidContext)
		return
	}

	result, err := dc.decisionService.Evaluate(c, &ec)
	if err != nil {
		if errors.Is(err, peac_errors.ErrPolicyNotLoaded) {
			util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate", peac_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// EvaluateBatch endpoint
func (dc *DecisionController) EvaluateBatch(c *gin.Context) {
	var req pdp_model.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid batch request", peac_errors.ErrInvalidContext)
		return
	}

	results, err := dc.decisionService.EvaluateBatch(c, req.Contexts)
	if err != nil {
		if errors.Is(err, peac_errors.ErrPolicyNotLoaded) {
			util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate batch", peac_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Explain endpoint: lists every rule that would match, for debugging.
func (dc *DecisionController) Explain(c *gin.Context) {
	var ec pdp_model.EvaluationContext
	if err := c.ShouldBindJSON(&ec); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid evaluation context", peac_errors.ErrInvalidContext)
		return
	}

	matches, err := dc.decisionService.Explain(c, &ec)
	if err != nil {
		if errors.Is(err, peac_errors.ErrPolicyNotLoaded) {
			util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to explain", peac_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// EnforceRequest is the body for the enforce endpoint.
type EnforceRequest struct {
	Decision model.Decision                 `json:"decision" binding:"required"`
	Context  *pdp_model.SatisfactionContext `json:"context,omitempty"`
}

// Enforce endpoint: maps a decision plus satisfaction context to an
// HTTP-shaped outcome. A challenged result also carries the
// WWW-Authenticate value in the response headers.
func (dc *DecisionController) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid enforce request", peac_errors.ErrInvalidContext)
		return
	}

	result, err := dc.decisionService.Enforce(c, req.Decision, req.Context)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid decision value", err)
		return
	}

	if header := engine.GetChallengeHeader(result); header != "" {
		c.Header("WWW-Authenticate", header)
	}
	c.JSON(http.StatusOK, result)
}
