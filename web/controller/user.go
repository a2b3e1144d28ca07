package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/middleware"
	"github.com/scorebox/scorebox/web/service"
)

// UserController handles user administration (admin-only, reads
// included) and the self-profile endpoints, which any authenticated
// user reaches for their own record with role changes stripped.
type UserController struct {
	BaseController
	userService service.UserService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.GET("/users/me", a.getProfile)
	g.PATCH("/users/me", a.updateProfile)

	g.GET("/users", a.getUsers)
	g.POST("/users", a.addUser)
	g.GET("/users/:username", a.getUser)
	g.PATCH("/users/:username", a.updateUser)
	g.DELETE("/users/:username", a.delUser)
}

func (a *UserController) getUsers(c *gin.Context) {
	if !a.authorize(c, access.ResourceUser, nil) {
		return
	}

	limit, offset := pageParams(c)
	users, count, err := a.userService.GetUsers(c.Query("search"), limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonPage(c, count, limit, offset, users)
}

func (a *UserController) getUser(c *gin.Context) {
	if !a.authorize(c, access.ResourceUser, nil) {
		return
	}

	user, err := a.userService.GetUser(c.Param("username"))
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, user)
}

func (a *UserController) addUser(c *gin.Context) {
	if !a.authorize(c, access.ResourceUser, nil) {
		return
	}

	user := &model.User{}
	if err := c.ShouldBindJSON(user); err != nil {
		jsonError(c, common.NewValidationf("malformed user payload"))
		return
	}
	if err := a.userService.CreateUser(user); err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, user)
}

func (a *UserController) updateUser(c *gin.Context) {
	if !a.authorize(c, access.ResourceUser, nil) {
		return
	}

	patch := &service.UserPatch{}
	if err := c.ShouldBindJSON(patch); err != nil {
		jsonError(c, common.NewValidationf("malformed user payload"))
		return
	}
	user, err := a.userService.UpdateUser(c.Param("username"), patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, user)
}

func (a *UserController) delUser(c *gin.Context) {
	if !a.authorize(c, access.ResourceUser, nil) {
		return
	}

	if err := a.userService.DeleteUser(c.Param("username")); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getProfile returns the caller's own record; authentication is the
// only requirement.
func (a *UserController) getProfile(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !actor.Authenticated() {
		c.JSON(http.StatusUnauthorized, entity.NewError(common.NewUnauthorized("authentication required")))
		return
	}
	jsonObj(c, http.StatusOK, actor.User)
}

// updateProfile patches the caller's own record. The service re-applies
// the prior role, so a role value in the payload changes nothing.
func (a *UserController) updateProfile(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !actor.Authenticated() {
		c.JSON(http.StatusUnauthorized, entity.NewError(common.NewUnauthorized("authentication required")))
		return
	}

	patch := &service.UserPatch{}
	if err := c.ShouldBindJSON(patch); err != nil {
		jsonError(c, common.NewValidationf("malformed profile payload"))
		return
	}
	user, err := a.userService.UpdateProfile(actor.User, patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, user)
}
