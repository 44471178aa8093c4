package middleware

import (
	"net/http"
	"strings"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/brokerage/backend/internal/infrastructure/auth"
	"github.com/brokerage/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	// ActorIDKey is the gin context key carrying the authenticated advisor ID
	ActorIDKey = "actor_id"
	// ActorUsernameKey is the gin context key carrying the advisor username
	ActorUsernameKey = "actor_username"
)

// Auth validates the bearer token and requires the advisor behind it to still
// exist and be active. The resolved advisor ID becomes the acting advisor of
// the request.
func Auth(jwtService *auth.JWTService, res *resolver.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Authorization header must be a bearer token")
			return
		}

		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if _, err := res.ActiveAdvisor(c.Request.Context(), claims.AdvisorID); err != nil {
			if shared.IsCode(err, shared.CodeForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponse(shared.CodeForbidden, "Advisor account is deactivated"))
				return
			}
			abortUnauthorized(c, "Advisor behind this token no longer exists")
			return
		}

		c.Set(ActorIDKey, claims.AdvisorID)
		c.Set(ActorUsernameKey, claims.Username)
		c.Next()
	}
}

// GetActorID returns the authenticated advisor ID set by Auth
func GetActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthorized, message))
}
