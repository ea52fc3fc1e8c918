// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peacprotocol/peac-engine/controller"
	"github.com/peacprotocol/peac-engine/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Decision.RegisterRoutes(api)
	controllers.Purpose.RegisterRoutes(api)
	controllers.Policy.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
