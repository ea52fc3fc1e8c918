// controller/audit_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peacprotocol/peac-engine/audit"
	"github.com/peacprotocol/peac-engine/util"
	helper_util "github.com/peacprotocol/peac-engine/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit/decisions", ac.QueryDecisions)
}

// QueryDecisions endpoint
func (ac *AuditController) QueryDecisions(c *gin.Context) {
	from, to, err := helper_util.GetTimeRangeParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range parameters", err)
		return
	}

	records, err := ac.auditService.QueryDecisions(c, from, to, c.Query("subject_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit trail", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
