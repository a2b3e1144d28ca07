package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

func seedReviewGraph(t *testing.T) (titleId int, alice, bob *model.User) {
	t.Helper()
	titles := TitleService{}
	users := UserService{}

	rated, err := titles.CreateTitle(&TitleInput{Name: strPtr("Reviewed"), Year: intPtr(2010)})
	require.NoError(t, err)

	alice = &model.User{Username: "alice", Email: "alice@example.com"}
	bob = &model.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, users.CreateUser(alice))
	require.NoError(t, users.CreateUser(bob))
	return rated.Title.Id, alice, bob
}

func TestReviewScoreBounds(t *testing.T) {
	setupTestDB(t)
	titleId, alice, bob := seedReviewGraph(t)
	s := ReviewService{}

	_, err := s.CreateReview(titleId, alice, "too low", 0)
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, err = s.CreateReview(titleId, alice, "too high", 11)
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, err = s.CreateReview(titleId, alice, "bottom of range", 1)
	assert.NoError(t, err)

	_, err = s.CreateReview(titleId, bob, "top of range", 10)
	assert.NoError(t, err)
}

func TestReviewUnknownTitle(t *testing.T) {
	setupTestDB(t)
	_, alice, _ := seedReviewGraph(t)
	s := ReviewService{}

	_, err := s.CreateReview(9999, alice, "nowhere", 5)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestDuplicateReviewRejected(t *testing.T) {
	setupTestDB(t)
	titleId, alice, _ := seedReviewGraph(t)
	s := ReviewService{}

	_, err := s.CreateReview(titleId, alice, "first take", 8)
	require.NoError(t, err)

	_, err = s.CreateReview(titleId, alice, "second take", 3)
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	_, count, err := s.GetReviews(titleId, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestConcurrentDuplicateReview(t *testing.T) {
	setupTestDB(t)
	titleId, alice, _ := seedReviewGraph(t)
	s := ReviewService{}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateReview(titleId, alice, "race entry", 6)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case common.KindOf(err) == common.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestReviewsNewestFirst(t *testing.T) {
	setupTestDB(t)
	titleId, alice, bob := seedReviewGraph(t)
	s := ReviewService{}

	_, err := s.CreateReview(titleId, alice, "earlier", 5)
	require.NoError(t, err)
	later, err := s.CreateReview(titleId, bob, "later", 6)
	require.NoError(t, err)

	reviews, _, err := s.GetReviews(titleId, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, later.Id, reviews[0].Id)
}

func TestReviewUpdateRevalidatesScore(t *testing.T) {
	setupTestDB(t)
	titleId, alice, _ := seedReviewGraph(t)
	s := ReviewService{}

	review, err := s.CreateReview(titleId, alice, "fine", 5)
	require.NoError(t, err)

	_, err = s.UpdateReview(titleId, review.Id, &ReviewPatch{Score: intPtr(12)})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	updated, err := s.UpdateReview(titleId, review.Id, &ReviewPatch{Score: intPtr(9), Text: strPtr("better")})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)
	assert.Equal(t, "better", updated.Text)
}

func TestDeleteCascades(t *testing.T) {
	setupTestDB(t)
	titleId, alice, bob := seedReviewGraph(t)
	titles := TitleService{}
	reviews := ReviewService{}
	comments := CommentService{}

	review, err := reviews.CreateReview(titleId, alice, "with comments", 7)
	require.NoError(t, err)
	_, err = comments.CreateComment(titleId, review.Id, bob, "agreed")
	require.NoError(t, err)
	_, err = comments.CreateComment(titleId, review.Id, alice, "thanks")
	require.NoError(t, err)

	// Review delete takes its comments with it.
	require.NoError(t, reviews.DeleteReview(titleId, review.Id))
	var commentCount int64
	require.NoError(t, countRows(&model.Comment{}, &commentCount))
	assert.EqualValues(t, 0, commentCount)

	// Title delete takes reviews and, transitively, comments.
	review, err = reviews.CreateReview(titleId, alice, "again", 7)
	require.NoError(t, err)
	_, err = comments.CreateComment(titleId, review.Id, bob, "again too")
	require.NoError(t, err)

	require.NoError(t, titles.DeleteTitle(titleId))

	var reviewCount int64
	require.NoError(t, countRows(&model.Review{}, &reviewCount))
	require.NoError(t, countRows(&model.Comment{}, &commentCount))
	assert.EqualValues(t, 0, reviewCount)
	assert.EqualValues(t, 0, commentCount)
}

func TestCommentRequiresExistingReview(t *testing.T) {
	setupTestDB(t)
	titleId, alice, _ := seedReviewGraph(t)
	s := CommentService{}

	_, err := s.CreateComment(titleId, 9999, alice, "into the void")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}
