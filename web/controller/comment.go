package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/access"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/middleware"
	"github.com/scorebox/scorebox/web/service"
)

// CommentController handles comments nested under reviews.
type CommentController struct {
	BaseController
	commentService service.CommentService
}

func NewCommentController(g *gin.RouterGroup) *CommentController {
	a := &CommentController{}
	a.initRouter(g)
	return a
}

func (a *CommentController) initRouter(g *gin.RouterGroup) {
	g.GET("/titles/:id/reviews/:reviewId/comments", a.getComments)
	g.POST("/titles/:id/reviews/:reviewId/comments", a.addComment)
	g.GET("/titles/:id/reviews/:reviewId/comments/:commentId", a.getComment)
	g.PATCH("/titles/:id/reviews/:reviewId/comments/:commentId", a.updateComment)
	g.DELETE("/titles/:id/reviews/:reviewId/comments/:commentId", a.delComment)
}

// commentPath parses the nested path ids.
func commentPath(c *gin.Context, withComment bool) (titleId, reviewId, commentId int, err error) {
	if titleId, err = pathId(c, "id"); err != nil {
		return
	}
	if reviewId, err = pathId(c, "reviewId"); err != nil {
		return
	}
	if withComment {
		commentId, err = pathId(c, "commentId")
	}
	return
}

func (a *CommentController) getComments(c *gin.Context) {
	titleId, reviewId, _, err := commentPath(c, false)
	if err != nil {
		jsonError(c, err)
		return
	}

	limit, offset := pageParams(c)
	comments, count, err := a.commentService.GetComments(titleId, reviewId, limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}

	views := make([]entity.CommentView, len(comments))
	for i := range comments {
		views[i] = entity.NewCommentView(&comments[i])
	}
	jsonPage(c, count, limit, offset, views)
}

func (a *CommentController) getComment(c *gin.Context) {
	titleId, reviewId, commentId, err := commentPath(c, true)
	if err != nil {
		jsonError(c, err)
		return
	}

	comment, err := a.commentService.GetComment(titleId, reviewId, commentId)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.NewCommentView(comment))
}

type commentRequest struct {
	Text string `json:"text"`
}

func (a *CommentController) addComment(c *gin.Context) {
	if !a.authorize(c, access.ResourceComment, nil) {
		return
	}

	titleId, reviewId, _, err := commentPath(c, false)
	if err != nil {
		jsonError(c, err)
		return
	}
	req := commentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, common.NewValidationf("malformed comment payload"))
		return
	}

	actor := middleware.GetActor(c)
	comment, err := a.commentService.CreateComment(titleId, reviewId, actor.User, req.Text)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, entity.NewCommentView(comment))
}

func (a *CommentController) updateComment(c *gin.Context) {
	titleId, reviewId, commentId, err := commentPath(c, true)
	if err != nil {
		jsonError(c, err)
		return
	}

	comment, err := a.commentService.GetComment(titleId, reviewId, commentId)
	if err != nil {
		jsonError(c, err)
		return
	}
	if !a.authorize(c, access.ResourceComment, comment) {
		return
	}

	patch := &service.CommentPatch{}
	if err := c.ShouldBindJSON(patch); err != nil {
		jsonError(c, common.NewValidationf("malformed comment payload"))
		return
	}
	updated, err := a.commentService.UpdateComment(titleId, reviewId, commentId, patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.NewCommentView(updated))
}

func (a *CommentController) delComment(c *gin.Context) {
	titleId, reviewId, commentId, err := commentPath(c, true)
	if err != nil {
		jsonError(c, err)
		return
	}

	comment, err := a.commentService.GetComment(titleId, reviewId, commentId)
	if err != nil {
		jsonError(c, err)
		return
	}
	if !a.authorize(c, access.ResourceComment, comment) {
		return
	}

	if err := a.commentService.DeleteComment(titleId, reviewId, commentId); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
