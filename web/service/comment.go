package service

import (
	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

// CommentService manages comments nested under reviews.
type CommentService struct {
	reviewService ReviewService
}

// CommentPatch is a partial comment update.
type CommentPatch struct {
	Text *string `json:"text"`
}

func (s *CommentService) GetComments(titleId, reviewId, limit, offset int) ([]model.Comment, int64, error) {
	if _, err := s.reviewService.GetReview(titleId, reviewId); err != nil {
		return nil, 0, err
	}

	db := database.GetDB().Model(&model.Comment{}).Where("review_id = ?", reviewId)

	var count int64
	if err := db.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := db.Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, count, err
}

func (s *CommentService) GetComment(titleId, reviewId, commentId int) (*model.Comment, error) {
	if _, err := s.reviewService.GetReview(titleId, reviewId); err != nil {
		return nil, err
	}

	comment := &model.Comment{}
	err := database.GetDB().Preload("Author").
		Where("review_id = ?", reviewId).
		First(comment, commentId).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("comment %d not found for review %d", commentId, reviewId)
	} else if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateComment writes a comment authored by the acting user.
func (s *CommentService) CreateComment(titleId, reviewId int, author *model.User, text string) (*model.Comment, error) {
	if text == "" {
		return nil, common.NewValidationf("text is required")
	}
	if _, err := s.reviewService.GetReview(titleId, reviewId); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:     text,
		ReviewId: reviewId,
		AuthorId: author.Id,
	}
	if err := database.GetDB().Create(comment).Error; err != nil {
		return nil, err
	}
	comment.Author = author
	return comment, nil
}

func (s *CommentService) UpdateComment(titleId, reviewId, commentId int, patch *CommentPatch) (*model.Comment, error) {
	comment, err := s.GetComment(titleId, reviewId, commentId)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		if *patch.Text == "" {
			return nil, common.NewValidationf("text must not be empty")
		}
		comment.Text = *patch.Text
	}

	if err := database.GetDB().Model(comment).Update("text", comment.Text).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(titleId, reviewId, commentId int) error {
	comment, err := s.GetComment(titleId, reviewId, commentId)
	if err != nil {
		return err
	}
	return database.GetDB().Delete(comment).Error
}
