package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/service"
)

// AuthController exposes the two-step confirmation handshake.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService) *AuthController {
	a := &AuthController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/auth/signup", a.signup)
	g.POST("/auth/token", a.exchange)
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// signup registers the pair or re-issues the code for an existing exact
// match; either way the response only echoes the pair.
func (a *AuthController) signup(c *gin.Context) {
	req := signupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, common.NewValidationf("malformed signup payload"))
		return
	}

	_, user, err := a.authService.Register(req.Username, req.Email)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.Signup{Username: user.Username, Email: user.Email})
}

type exchangeRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (a *AuthController) exchange(c *gin.Context) {
	req := exchangeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, common.NewValidationf("malformed token payload"))
		return
	}
	if req.Username == "" || req.ConfirmationCode == "" {
		jsonError(c, common.NewValidationf("username and confirmation_code are required"))
		return
	}

	signed, err := a.authService.Exchange(req.Username, req.ConfirmationCode)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.Token{Token: signed})
}
