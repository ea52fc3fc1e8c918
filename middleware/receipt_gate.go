// middleware/receipt_gate.go

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/model"
	"github.com/peacprotocol/peac-engine/pdp/engine"
	pdp_model "github.com/peacprotocol/peac-engine/pdp/model"
)

// ReceiptHeader is the request header carrying a PEAC receipt.
const ReceiptHeader = "PEAC-Receipt"

// ReceiptContextKey is the gin context key holding the verified flag for
// downstream handlers.
const ReceiptContextKey = "peac_receipt_verified"

// ReceiptVerifier checks a presented receipt. Verification itself is a
// collaborator concern (signature, issuer, audience); the gate only
// enforces the outcome.
type ReceiptVerifier func(c *gin.Context, receipt string) bool

// ReceiptGate enforces a review decision against the PEAC-Receipt header.
// A verified receipt admits the request; anything else gets the receipt
// challenge (402 plus WWW-Authenticate). With optional set, requests
// without a receipt pass through unverified.
func ReceiptGate(verifier ReceiptVerifier, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipt := strings.TrimPrefix(c.GetHeader(ReceiptHeader), "Bearer ")

		if receipt == "" && optional {
			c.Set(ReceiptContextKey, false)
			c.Next()
			return
		}

		verified := receipt != "" && verifier(c, receipt)
		c.Set(ReceiptContextKey, verified)

		response := engine.EnforceForHTTP(model.Review, &pdp_model.SatisfactionContext{
			ReceiptVerified: &verified,
		})

		if !response.Allowed {
			logger.Warn("Receipt challenge issued",
				zap.String("ip", c.ClientIP()),
				zap.Bool("receipt_presented", receipt != ""))
			for key, values := range response.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.JSON(response.Status, gin.H{"error": response.Reason})
			c.Abort()
			return
		}

		c.Next()
	}
}
