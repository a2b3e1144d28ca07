package service

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

// TitleService manages titles and their catalog references.
type TitleService struct {
	categoryService CategoryService
	genreService    GenreService
}

// TitleInput is the write payload. Category and Genre carry slugs; nil
// fields stay untouched on update.
type TitleInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleFilter narrows the title listing.
type TitleFilter struct {
	Name     string
	Year     int
	Category string
	Genre    string
	Limit    int
	Offset   int
}

// RatedTitle pairs a title with its derived average score. Rating is
// nil when the title has no reviews.
type RatedTitle struct {
	Title  model.Title
	Rating *int
}

func (s *TitleService) GetTitles(filter TitleFilter) ([]RatedTitle, int64, error) {
	db := database.GetDB().Model(&model.Title{})
	if filter.Name != "" {
		db = db.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		db = db.Where("titles.year = ?", filter.Year)
	}
	if filter.Category != "" {
		db = db.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Genre != "" {
		db = db.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.Genre)
	}

	var count int64
	if err := db.Session(&gorm.Session{}).Distinct("titles.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var titles []model.Title
	err := db.Distinct("titles.*").
		Preload("Category").Preload("Genres").
		Order("titles.name").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}

	rated, err := s.annotate(titles)
	return rated, count, err
}

func (s *TitleService) GetTitle(id int) (*RatedTitle, error) {
	title := model.Title{}
	err := database.GetDB().Preload("Category").Preload("Genres").First(&title, id).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("title %d not found", id)
	} else if err != nil {
		return nil, err
	}

	rated, err := s.annotate([]model.Title{title})
	if err != nil {
		return nil, err
	}
	return &rated[0], nil
}

// annotate attaches average review scores to the given titles.
func (s *TitleService) annotate(titles []model.Title) ([]RatedTitle, error) {
	rated := make([]RatedTitle, len(titles))
	if len(titles) == 0 {
		return rated, nil
	}

	ids := make([]int, len(titles))
	for i, t := range titles {
		rated[i] = RatedTitle{Title: t}
		ids[i] = t.Id
	}

	var rows []struct {
		TitleId int
		Avg     float64
	}
	err := database.GetDB().Model(&model.Review{}).
		Select("title_id, AVG(score) AS avg").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byTitle := make(map[int]int, len(rows))
	for _, row := range rows {
		byTitle[row.TitleId] = int(math.Trunc(row.Avg))
	}
	for i := range rated {
		if avg, ok := byTitle[rated[i].Title.Id]; ok {
			value := avg
			rated[i].Rating = &value
		}
	}
	return rated, nil
}

func (s *TitleService) CreateTitle(in *TitleInput) (*RatedTitle, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, common.NewValidationf("name is required")
	}
	if in.Year == nil {
		return nil, common.NewValidationf("year is required")
	}

	title := &model.Title{Name: *in.Name, Year: *in.Year}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if err := s.applyReferences(title, in); err != nil {
		return nil, err
	}
	if err := validateYear(title.Year); err != nil {
		return nil, err
	}

	if err := database.GetDB().Create(title).Error; err != nil {
		return nil, err
	}
	return s.GetTitle(title.Id)
}

func (s *TitleService) UpdateTitle(id int, in *TitleInput) (*RatedTitle, error) {
	rated, err := s.GetTitle(id)
	if err != nil {
		return nil, err
	}
	title := &rated.Title

	if in.Name != nil {
		if *in.Name == "" {
			return nil, common.NewValidationf("name must not be empty")
		}
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if err := validateYear(title.Year); err != nil {
		return nil, err
	}

	var genres *[]model.Genre
	if in.Genre != nil {
		resolved, err := s.resolveGenres(*in.Genre)
		if err != nil {
			return nil, err
		}
		genres = &resolved
	}
	if in.Category != nil {
		if err := s.applyCategory(title, *in.Category); err != nil {
			return nil, err
		}
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		err := tx.Model(title).Select("name", "year", "description", "category_id").
			Updates(map[string]any{
				"name":        title.Name,
				"year":        title.Year,
				"description": title.Description,
				"category_id": title.CategoryId,
			}).Error
		if err != nil {
			return err
		}
		if genres != nil {
			return tx.Model(title).Association("Genres").Replace(*genres)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(id)
}

// DeleteTitle removes the title with its reviews and their comments.
func (s *TitleService) DeleteTitle(id int) error {
	rated, err := s.GetTitle(id)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM comments WHERE review_id IN (SELECT id FROM reviews WHERE title_id = ?)", id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&rated.Title).Error
	})
}

func (s *TitleService) applyReferences(title *model.Title, in *TitleInput) error {
	if in.Category != nil {
		if err := s.applyCategory(title, *in.Category); err != nil {
			return err
		}
	}
	if in.Genre != nil {
		genres, err := s.resolveGenres(*in.Genre)
		if err != nil {
			return err
		}
		title.Genres = genres
	}
	return nil
}

// applyCategory resolves a category slug; the empty slug clears the
// reference.
func (s *TitleService) applyCategory(title *model.Title, slugValue string) error {
	if slugValue == "" {
		title.CategoryId = nil
		title.Category = nil
		return nil
	}
	category, err := s.categoryService.GetCategory(slugValue)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return common.NewValidationf("unknown category %q", slugValue)
		}
		return err
	}
	title.CategoryId = &category.Id
	title.Category = category
	return nil
}

func (s *TitleService) resolveGenres(slugs []string) ([]model.Genre, error) {
	genres := make([]model.Genre, 0, len(slugs))
	for _, slugValue := range slugs {
		genre, err := s.genreService.GetGenre(slugValue)
		if err != nil {
			if common.KindOf(err) == common.KindNotFound {
				return nil, common.NewValidationf("unknown genre %q", slugValue)
			}
			return nil, err
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

// validateYear rejects years after the current calendar year; the
// current year itself is allowed.
func validateYear(year int) error {
	if current := time.Now().Year(); year > current {
		return common.NewValidationf("year %d is after the current year %d", year, current)
	}
	return nil
}
