// Package controller provides the HTTP handlers of the scorebox API:
// authentication, user administration, the catalog and the review graph.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/middleware"
)

// BaseController carries the permission check shared by all handlers.
type BaseController struct{}

// authorize runs the permission evaluator for the current request and
// writes the refusal when access is denied. Unauthenticated refusals of
// mutating requests are distinguished from authenticated ones so the
// client knows whether presenting a token could help.
func (a *BaseController) authorize(c *gin.Context, resource access.Resource, obj access.Authored) bool {
	actor := middleware.GetActor(c)
	if access.Decide(actor, c.Request.Method, resource, obj) {
		return true
	}
	if !actor.Authenticated() {
		c.JSON(http.StatusUnauthorized, entity.NewError(common.NewUnauthorized("authentication required")))
		return false
	}
	c.JSON(http.StatusForbidden, entity.NewError(common.NewForbidden("permission denied")))
	return false
}
