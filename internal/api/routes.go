package api

import (
	"net/http"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the substitution endpoints onto the router. When
// jwtSecret is empty the API runs unauthenticated (local development and
// tests); otherwise every /api/v1 route requires a platform-issued bearer
// token with an athlete or coach scope.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	substitutionService service.SubstitutionService,
) {
	substitutionHandler := NewSubstitutionHandler(substitutionService)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	if jwtSecret != "" {
		apiV1.Use(AuthMiddleware(jwtSecret), ScopeMiddleware("athlete", "coach"))
	}
	{
		substitutionGroup := apiV1.Group("/substitutions")
		{
			// POST /api/v1/substitutions - suggest up to 3 equivalent workouts
			substitutionGroup.POST("", substitutionHandler.SuggestSubstitutions)

			// GET /api/v1/substitutions/rules - canonical conversion tables
			substitutionGroup.GET("/rules", substitutionHandler.GetEquivalenceRules)
		}
	}
}
