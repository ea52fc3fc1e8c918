// controller/purpose_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/purpose"
	"github.com/peacprotocol/peac-engine/service"
	"github.com/peacprotocol/peac-engine/util"
)

type PurposeController struct {
	decisionService service.IDecisionService
}

func NewPurposeController(decisionService service.IDecisionService) *PurposeController {
	return &PurposeController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PurposeController) RegisterRoutes(r *gin.RouterGroup) {
	purposes := r.Group("/purposes")
	{
		purposes.POST("/validate", pc.ValidateTokens)
		purposes.POST("/evaluate", pc.EvaluatePurpose)
	}

	profiles := r.Group("/profiles")
	{
		profiles.GET("/:id", pc.GetProfile)
	}
}

// ValidateRequest is the body for the validate endpoint.
type ValidateRequest struct {
	Tokens []string `json:"tokens"`
}

// ValidateTokens endpoint
func (pc *PurposeController) ValidateTokens(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c.JSON(http.StatusOK, pc.decisionService.ValidateTokens(req.Tokens))
}

// PurposeEvaluateRequest is the body for the purpose evaluate endpoint.
// Either a parsed token list or a raw PEAC-Purpose header value may be
// supplied; the header takes effect when the list is empty.
type PurposeEvaluateRequest struct {
	Purposes []string `json:"purposes,omitempty"`
	Header   string   `json:"header,omitempty"`
	Profile  string   `json:"profile,omitempty"`
}

// EvaluatePurpose endpoint
func (pc *PurposeController) EvaluatePurpose(c *gin.Context) {
	var req PurposeEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tokens := req.Purposes
	if len(tokens) == 0 && req.Header != "" {
		tokens = purpose.ParsePurposeHeader(req.Header)
	}

	if validation := pc.decisionService.ValidateTokens(tokens); !validation.Valid {
		c.JSON(http.StatusBadRequest, validation)
		return
	}

	result, err := pc.decisionService.EvaluatePurpose(c, tokens, req.Profile)
	if err != nil {
		var unknownProfile *peac_errors.UnknownProfileError
		if errors.As(err, &unknownProfile) {
			util.RespondWithError(c, http.StatusNotFound, "Unknown enforcement profile", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate purposes", peac_errors.ErrInternalServer)
		}
		return
	}

	if retryAfter, ok := purpose.GetRetryAfter(result.Constraints); ok {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
	c.JSON(http.StatusOK, gin.H{
		"result":      result,
		"status_code": purpose.GetPurposeStatusCode(result),
	})
}

// GetProfile endpoint
func (pc *PurposeController) GetProfile(c *gin.Context) {
	profile, err := purpose.GetEnforcementProfile(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusNotFound, "Unknown enforcement profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
