package service

import (
	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

const (
	minScore = 1
	maxScore = 10
)

// ReviewService manages reviews nested under titles. The one review per
// (title, author) rule is enforced by the store's unique index, so two
// concurrent creates resolve to exactly one winner.
type ReviewService struct {
	titleService TitleService
}

// ReviewPatch is a partial review update.
type ReviewPatch struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func validateScore(score int) error {
	if score < minScore || score > maxScore {
		return common.NewValidationf("score must be between %d and %d", minScore, maxScore)
	}
	return nil
}

func (s *ReviewService) GetReviews(titleId, limit, offset int) ([]model.Review, int64, error) {
	if _, err := s.titleService.GetTitle(titleId); err != nil {
		return nil, 0, err
	}

	db := database.GetDB().Model(&model.Review{}).Where("title_id = ?", titleId)

	var count int64
	if err := db.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := db.Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error
	return reviews, count, err
}

func (s *ReviewService) GetReview(titleId, reviewId int) (*model.Review, error) {
	review := &model.Review{}
	err := database.GetDB().Preload("Author").
		Where("title_id = ?", titleId).
		First(review, reviewId).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("review %d not found for title %d", reviewId, titleId)
	} else if err != nil {
		return nil, err
	}
	return review, nil
}

// CreateReview writes the acting user's review. The author is the
// actor, never a client-supplied value.
func (s *ReviewService) CreateReview(titleId int, author *model.User, text string, score int) (*model.Review, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if _, err := s.titleService.GetTitle(titleId); err != nil {
		return nil, err
	}

	review := &model.Review{
		Text:     text,
		Score:    score,
		TitleId:  titleId,
		AuthorId: author.Id,
	}
	if err := database.GetDB().Create(review).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, common.NewConflictf("user %q already reviewed title %d", author.Username, titleId)
		}
		return nil, err
	}
	review.Author = author
	return review, nil
}

func (s *ReviewService) UpdateReview(titleId, reviewId int, patch *ReviewPatch) (*model.Review, error) {
	review, err := s.GetReview(titleId, reviewId)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		if err := validateScore(*patch.Score); err != nil {
			return nil, err
		}
		review.Score = *patch.Score
	}

	err = database.GetDB().Model(review).
		Updates(map[string]any{"text": review.Text, "score": review.Score}).Error
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the review and cascades over its comments.
func (s *ReviewService) DeleteReview(titleId, reviewId int) error {
	review, err := s.GetReview(titleId, reviewId)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.Id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(review).Error
	})
}
