package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/service"
	"github.com/scorebox/scorebox/web/token"
)

const actorKey = "ACTOR"

// Actor resolves the request identity from the Authorization header.
// The user is loaded from the store on every request, never from the
// token, so role changes apply immediately. Requests without a token
// proceed as anonymous; a token that fails verification is rejected.
func Actor(tokens *token.Manager, userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			abortUnauthorized(c, "authorization header must carry a bearer token")
			return
		}

		userId, err := tokens.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := userService.GetUserById(userId)
		if err != nil {
			// Token for a since-deleted user.
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(actorKey, access.Actor{User: user})
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.NewError(common.NewUnauthorized(msg)))
}

// GetActor returns the resolved actor; anonymous when no token was sent.
func GetActor(c *gin.Context) access.Actor {
	if value, ok := c.Get(actorKey); ok {
		if actor, ok := value.(access.Actor); ok {
			return actor
		}
	}
	return access.Actor{}
}
