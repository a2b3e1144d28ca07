package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/service"
)

// CategoryController handles the category endpoints. Reads are open to
// anyone; mutations are admin-only through the evaluator.
type CategoryController struct {
	BaseController
	categoryService service.CategoryService
}

func NewCategoryController(g *gin.RouterGroup) *CategoryController {
	a := &CategoryController{}
	a.initRouter(g)
	return a
}

func (a *CategoryController) initRouter(g *gin.RouterGroup) {
	g.GET("/categories", a.getCategories)
	g.POST("/categories", a.addCategory)
	g.DELETE("/categories/:slug", a.delCategory)
}

func (a *CategoryController) getCategories(c *gin.Context) {
	limit, offset := pageParams(c)
	categories, count, err := a.categoryService.GetCategories(c.Query("search"), limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonPage(c, count, limit, offset, categories)
}

func (a *CategoryController) addCategory(c *gin.Context) {
	if !a.authorize(c, access.ResourceCategory, nil) {
		return
	}

	category := &model.Category{}
	if err := c.ShouldBindJSON(category); err != nil {
		jsonError(c, common.NewValidationf("malformed category payload"))
		return
	}
	if err := a.categoryService.CreateCategory(category); err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, category)
}

func (a *CategoryController) delCategory(c *gin.Context) {
	if !a.authorize(c, access.ResourceCategory, nil) {
		return
	}
	if err := a.categoryService.DeleteCategory(c.Param("slug")); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
