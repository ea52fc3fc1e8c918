// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peacprotocol/peac-engine/compiler"
	"github.com/peacprotocol/peac-engine/config"
	"github.com/peacprotocol/peac-engine/db"
	peac_errors "github.com/peacprotocol/peac-engine/errors"
	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/service"
	"github.com/peacprotocol/peac-engine/util"
)

type PolicyController struct {
	provider *service.PolicyProvider
	eventBus *util.EventBus
}

func NewPolicyController(provider *service.PolicyProvider, eventBus *util.EventBus) *PolicyController {
	return &PolicyController{
		provider: provider,
		eventBus: eventBus,
	}
}

// RegisterRoutes registers the API routes
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup) {
	policy := r.Group("/policy")
	{
		policy.GET("", pc.GetPolicy)
		policy.POST("/reload", pc.ReloadPolicy)
	}

	artifacts := r.Group("/artifacts")
	{
		artifacts.GET("/peac.txt", pc.GetPeacTxt)
		artifacts.GET("/robots.txt", pc.GetRobotsTxt)
		artifacts.GET("/policy.md", pc.GetMarkdown)
	}
}

// GetPolicy endpoint
func (pc *PolicyController) GetPolicy(c *gin.Context) {
	doc, err := pc.provider.Current()
	if err != nil {
		util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ReloadPolicy endpoint
func (pc *PolicyController) ReloadPolicy(c *gin.Context) {
	if err := pc.provider.Reload(); err != nil {
		var validation *peac_errors.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Policy validation failed",
				"code":  validation.Code,
				"field": validation.Field,
			})
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to reload policy", err)
		return
	}

	// Cached decisions were computed against the old document.
	if err := db.InvalidateDecisions(c); err != nil {
		logger.Warn("Failed to invalidate decision cache after reload", zap.Error(err))
	}

	doc, _ := pc.provider.Current()
	pc.eventBus.Publish(c, util.EventPolicyReloaded, doc)

	c.Status(http.StatusNoContent)
}

// GetPeacTxt endpoint
func (pc *PolicyController) GetPeacTxt(c *gin.Context) {
	doc, err := pc.provider.Current()
	if err != nil {
		util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		return
	}

	profileID := config.GetString("enforcement.profile")
	c.String(http.StatusOK, compiler.CompilePeacTxt(doc, profileID))
}

// GetRobotsTxt endpoint
func (pc *PolicyController) GetRobotsTxt(c *gin.Context) {
	doc, err := pc.provider.Current()
	if err != nil {
		util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		return
	}

	c.String(http.StatusOK, compiler.CompileRobotsTxt(doc))
}

// GetMarkdown endpoint
func (pc *PolicyController) GetMarkdown(c *gin.Context) {
	doc, err := pc.provider.Current()
	if err != nil {
		util.RespondWithError(c, http.StatusServiceUnavailable, "No policy loaded", err)
		return
	}

	c.String(http.StatusOK, compiler.CompileMarkdown(doc))
}
