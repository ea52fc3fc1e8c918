// middleware/purpose_gate.go

package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/purpose"
)

// PurposeHeader is the request header carrying declared purposes.
const PurposeHeader = "PEAC-Purpose"

// PurposeContextKey is the gin context key holding the purpose evaluation
// result for downstream handlers.
const PurposeContextKey = "peac_purpose_result"

// PurposeGate admits or rejects requests based on their declared purposes
// under the given enforcement profile. Malformed tokens are a 400; a deny
// or review outcome is a 403 (never 402: payment challenges belong to the
// receipt flow, not purpose handling).
func PurposeGate(profileID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := purpose.ParsePurposeHeader(c.GetHeader(PurposeHeader))

		if validation := purpose.ValidatePurposeTokens(tokens); !validation.Valid {
			logger.Warn("Malformed purpose declaration",
				zap.Strings("invalid_tokens", validation.InvalidTokens),
				zap.Bool("undeclared_present", validation.UndeclaredPresent),
				zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusBadRequest, validation)
			c.Abort()
			return
		}

		result, err := purpose.EvaluatePurpose(tokens, profileID)
		if err != nil {
			// Profile ids come from configuration, not the request; an
			// unknown id here is a deployment error.
			logger.Error("Purpose evaluation failed", zap.Error(err), zap.String("profile", profileID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Purpose evaluation failed"})
			c.Abort()
			return
		}

		c.Set(PurposeContextKey, result)

		status := purpose.GetPurposeStatusCode(result)
		if status != http.StatusOK {
			if retryAfter, ok := purpose.GetRetryAfter(result.Constraints); ok {
				c.Header("Retry-After", strconv.Itoa(retryAfter))
			}
			c.JSON(status, gin.H{
				"error":          "Purpose not permitted",
				"purpose_reason": result.PurposeReason,
				"unknown_tokens": result.UnknownTokens,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
