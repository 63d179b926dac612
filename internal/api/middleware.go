package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextScopeKey     = "scope"
	ContextRequestIDKey = "requestID"
)

// jwtClaims defines the structure expected in tokens minted by the
// surrounding platform's auth service.
type jwtClaims struct {
	UserID string `json:"uid"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication. Tokens are
// validated here but issued elsewhere; this service has no login endpoints.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextScopeKey, claims.Scope)
		c.Next()
	}
}

// ScopeMiddleware checks that the token carries one of the allowed scopes.
// Must run AFTER AuthMiddleware.
func ScopeMiddleware(allowedScopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopeRaw, exists := c.Get(ContextScopeKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "Scope not found in context")
			return
		}
		scope, ok := scopeRaw.(string)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid scope type in context")
			return
		}

		for _, allowed := range allowedScopes {
			if scope == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: scope '%s' does not have permission", scope))
	}
}

// RequestIDMiddleware assigns each request a UUID, echoed in the response
// header and surfaced in the response metadata.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": message})
}

// getRequestID returns the request ID set by RequestIDMiddleware.
func getRequestID(c *gin.Context) string {
	if id, ok := c.Get(ContextRequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
