package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/service"
)

// GenreController handles the genre endpoints.
type GenreController struct {
	BaseController
	genreService service.GenreService
}

func NewGenreController(g *gin.RouterGroup) *GenreController {
	a := &GenreController{}
	a.initRouter(g)
	return a
}

func (a *GenreController) initRouter(g *gin.RouterGroup) {
	g.GET("/genres", a.getGenres)
	g.POST("/genres", a.addGenre)
	g.DELETE("/genres/:slug", a.delGenre)
}

func (a *GenreController) getGenres(c *gin.Context) {
	limit, offset := pageParams(c)
	genres, count, err := a.genreService.GetGenres(c.Query("search"), limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonPage(c, count, limit, offset, genres)
}

func (a *GenreController) addGenre(c *gin.Context) {
	if !a.authorize(c, access.ResourceGenre, nil) {
		return
	}

	genre := &model.Genre{}
	if err := c.ShouldBindJSON(genre); err != nil {
		jsonError(c, common.NewValidationf("malformed genre payload"))
		return
	}
	if err := a.genreService.CreateGenre(genre); err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, genre)
}

func (a *GenreController) delGenre(c *gin.Context) {
	if !a.authorize(c, access.ResourceGenre, nil) {
		return
	}
	if err := a.genreService.DeleteGenre(c.Param("slug")); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
