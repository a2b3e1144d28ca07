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

// ReviewController handles reviews nested under titles. Creation is
// open to any authenticated user; update and delete require authorship,
// moderator or admin capability, decided per object.
type ReviewController struct {
	BaseController
	reviewService service.ReviewService
}

func NewReviewController(g *gin.RouterGroup) *ReviewController {
	a := &ReviewController{}
	a.initRouter(g)
	return a
}

func (a *ReviewController) initRouter(g *gin.RouterGroup) {
	g.GET("/titles/:id/reviews", a.getReviews)
	g.POST("/titles/:id/reviews", a.addReview)
	g.GET("/titles/:id/reviews/:reviewId", a.getReview)
	g.PATCH("/titles/:id/reviews/:reviewId", a.updateReview)
	g.DELETE("/titles/:id/reviews/:reviewId", a.delReview)
}

func (a *ReviewController) getReviews(c *gin.Context) {
	titleId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}

	limit, offset := pageParams(c)
	reviews, count, err := a.reviewService.GetReviews(titleId, limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}

	views := make([]entity.ReviewView, len(reviews))
	for i := range reviews {
		views[i] = entity.NewReviewView(&reviews[i])
	}
	jsonPage(c, count, limit, offset, views)
}

func (a *ReviewController) getReview(c *gin.Context) {
	titleId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	reviewId, err := pathId(c, "reviewId")
	if err != nil {
		jsonError(c, err)
		return
	}

	review, err := a.reviewService.GetReview(titleId, reviewId)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.NewReviewView(review))
}

type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func (a *ReviewController) addReview(c *gin.Context) {
	if !a.authorize(c, access.ResourceReview, nil) {
		return
	}

	titleId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	req := reviewRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, common.NewValidationf("malformed review payload"))
		return
	}

	actor := middleware.GetActor(c)
	review, err := a.reviewService.CreateReview(titleId, actor.User, req.Text, req.Score)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, entity.NewReviewView(review))
}

func (a *ReviewController) updateReview(c *gin.Context) {
	titleId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	reviewId, err := pathId(c, "reviewId")
	if err != nil {
		jsonError(c, err)
		return
	}

	review, err := a.reviewService.GetReview(titleId, reviewId)
	if err != nil {
		jsonError(c, err)
		return
	}
	if !a.authorize(c, access.ResourceReview, review) {
		return
	}

	patch := &service.ReviewPatch{}
	if err := c.ShouldBindJSON(patch); err != nil {
		jsonError(c, common.NewValidationf("malformed review payload"))
		return
	}
	updated, err := a.reviewService.UpdateReview(titleId, reviewId, patch)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonObj(c, http.StatusOK, entity.NewReviewView(updated))
}

func (a *ReviewController) delReview(c *gin.Context) {
	titleId, err := pathId(c, "id")
	if err != nil {
		jsonError(c, err)
		return
	}
	reviewId, err := pathId(c, "reviewId")
	if err != nil {
		jsonError(c, err)
		return
	}

	review, err := a.reviewService.GetReview(titleId, reviewId)
	if err != nil {
		jsonError(c, err)
		return
	}
	if !a.authorize(c, access.ResourceReview, review) {
		return
	}

	if err := a.reviewService.DeleteReview(titleId, reviewId); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
