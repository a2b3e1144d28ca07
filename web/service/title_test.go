package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func seedCatalog(t *testing.T) (CategoryService, GenreService) {
	t.Helper()
	categories := CategoryService{}
	genres := GenreService{}
	require.NoError(t, categories.CreateCategory(&model.Category{Name: "Movies", Slug: "movies"}))
	require.NoError(t, genres.CreateGenre(&model.Genre{Name: "Drama", Slug: "drama"}))
	return categories, genres
}

func TestTitleYearValidation(t *testing.T) {
	setupTestDB(t)
	s := TitleService{}
	current := time.Now().Year()

	_, err := s.CreateTitle(&TitleInput{Name: strPtr("From The Future"), Year: intPtr(current + 1)})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	rated, err := s.CreateTitle(&TitleInput{Name: strPtr("Fresh Release"), Year: intPtr(current)})
	require.NoError(t, err)
	assert.Equal(t, current, rated.Title.Year)
	assert.Nil(t, rated.Rating)
}

func TestTitleUnknownReferences(t *testing.T) {
	setupTestDB(t)
	seedCatalog(t)
	s := TitleService{}

	_, err := s.CreateTitle(&TitleInput{
		Name:     strPtr("Orphan"),
		Year:     intPtr(2001),
		Category: strPtr("missing"),
	})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, err = s.CreateTitle(&TitleInput{
		Name:  strPtr("Orphan"),
		Year:  intPtr(2001),
		Genre: &[]string{"missing"},
	})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestTitleReferencesResolve(t *testing.T) {
	setupTestDB(t)
	seedCatalog(t)
	s := TitleService{}

	rated, err := s.CreateTitle(&TitleInput{
		Name:     strPtr("Resolved"),
		Year:     intPtr(1999),
		Category: strPtr("movies"),
		Genre:    &[]string{"drama"},
	})
	require.NoError(t, err)
	require.NotNil(t, rated.Title.Category)
	assert.Equal(t, "movies", rated.Title.Category.Slug)
	require.Len(t, rated.Title.Genres, 1)
	assert.Equal(t, "drama", rated.Title.Genres[0].Slug)
}

func TestCategoryDeleteDetachesTitles(t *testing.T) {
	setupTestDB(t)
	categories, _ := seedCatalog(t)
	s := TitleService{}

	var ids []int
	for _, name := range []string{"First", "Second", "Third"} {
		rated, err := s.CreateTitle(&TitleInput{
			Name:     strPtr(name),
			Year:     intPtr(1990),
			Category: strPtr("movies"),
		})
		require.NoError(t, err)
		ids = append(ids, rated.Title.Id)
	}

	require.NoError(t, categories.DeleteCategory("movies"))

	for _, id := range ids {
		rated, err := s.GetTitle(id)
		require.NoError(t, err)
		assert.Nil(t, rated.Title.Category)
		assert.Nil(t, rated.Title.CategoryId)
	}
}

func TestTitleRatingAnnotation(t *testing.T) {
	setupTestDB(t)
	titles := TitleService{}
	reviews := ReviewService{}
	users := UserService{}

	rated, err := titles.CreateTitle(&TitleInput{Name: strPtr("Scored"), Year: intPtr(2000)})
	require.NoError(t, err)
	titleId := rated.Title.Id

	alice := &model.User{Username: "alice", Email: "alice@example.com"}
	bob := &model.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, users.CreateUser(alice))
	require.NoError(t, users.CreateUser(bob))

	_, err = reviews.CreateReview(titleId, alice, "decent", 4)
	require.NoError(t, err)
	_, err = reviews.CreateReview(titleId, bob, "great", 7)
	require.NoError(t, err)

	rated, err = titles.GetTitle(titleId)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	// 5.5 truncated toward zero.
	assert.Equal(t, 5, *rated.Rating)
}

func TestTitleFilters(t *testing.T) {
	setupTestDB(t)
	seedCatalog(t)
	s := TitleService{}

	_, err := s.CreateTitle(&TitleInput{
		Name:     strPtr("Filtered"),
		Year:     intPtr(1985),
		Category: strPtr("movies"),
		Genre:    &[]string{"drama"},
	})
	require.NoError(t, err)
	_, err = s.CreateTitle(&TitleInput{Name: strPtr("Other"), Year: intPtr(2002)})
	require.NoError(t, err)

	rated, count, err := s.GetTitles(TitleFilter{Genre: "drama", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, rated, 1)
	assert.Equal(t, "Filtered", rated[0].Title.Name)

	_, count, err = s.GetTitles(TitleFilter{Year: 2002, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, count, err = s.GetTitles(TitleFilter{Category: "movies", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTitleUpdate(t *testing.T) {
	setupTestDB(t)
	seedCatalog(t)
	s := TitleService{}

	rated, err := s.CreateTitle(&TitleInput{Name: strPtr("Before"), Year: intPtr(2000)})
	require.NoError(t, err)

	updated, err := s.UpdateTitle(rated.Title.Id, &TitleInput{
		Name:     strPtr("After"),
		Category: strPtr("movies"),
		Genre:    &[]string{"drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title.Name)
	assert.Equal(t, 2000, updated.Title.Year)
	require.NotNil(t, updated.Title.Category)
	assert.Equal(t, "movies", updated.Title.Category.Slug)

	_, err = s.UpdateTitle(rated.Title.Id, &TitleInput{Year: intPtr(time.Now().Year() + 5)})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}
