package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/service"
)

// TitleController handles the title endpoints with the annotated rating.
type TitleController struct {
	BaseController
	titleService service.TitleService
}

func NewTitleController(g *gin.RouterGroup) *TitleController {
	a := &TitleController{}
	a.initRouter(g)
	return a
}

func (a *TitleController) initRouter(g *gin.RouterGroup) {
	g.GET("/titles", a.getTitles)
	g.POST("/titles", a.addTitle)
	g.GET("/titles/:id", a.getTitle)
	g.PATCH("/titles/:id", a.updateTitle)
	g.DELETE("/titles/:id", a.delTitle)
}

func titleView(rated *service.RatedTitle) entity.TitleView {
	return entity.TitleView{
		Id:          rated.Title.Id,
		Name:        rated.Title.Name,
		Year:        rated.Title.Year,
		Description: rated.Title.Description,
		Rating:      rated.Rating,
		Category:    rated.Title.Category,
		Genre:       rated.Title.Genres,
	}
}

func (a *TitleController) getTitles(c *gin.Context) {
	limit, offset := pageParams(c)
	filter := service.TitleFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(c, common.NewValidationf("year must be an integer"))
			return
		}
		filter.Year = year
	}

	rated, count, err := a.titleService.GetTitles(filter)
	if err != nil {
		jsonError(c, err)
		return
	}

	views := make([]entity.TitleView, len(rated))
	for i := range rated {
		views[i] = titleView(&rated[i])
	}
	jsonPage(c, count, limit, offset, views)
}

func (a *TitleController) getTitle(c *gin.Context) {
	id, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	rated, err := a.titleService.GetTitle(id)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, titleView(rated))
}

func (a *TitleController) addTitle(c *gin.Context) {
	if !a.authorize(c, access.ResourceTitle, nil) {
		return
	}

	in := &service.TitleInput{}
	if err := c.ShouldBindJSON(in); err != nil {
		jsonError(c, common.NewValidationf("malformed title payload"))
		return
	}
	rated, err := a.titleService.CreateTitle(in)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, titleView(rated))
}

func (a *TitleController) updateTitle(c *gin.Context) {
	if !a.authorize(c, access.ResourceTitle, nil) {
		return
	}

	id, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	in := &service.TitleInput{}
	if err := c.ShouldBindJSON(in); err != nil {
		jsonError(c, common.NewValidationf("malformed title payload"))
		return
	}
	rated, err := a.titleService.UpdateTitle(id, in)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, titleView(rated))
}

func (a *TitleController) delTitle(c *gin.Context) {
	if !a.authorize(c, access.ResourceTitle, nil) {
		return
	}

	id, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	if err := a.titleService.DeleteTitle(id); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
