package service

import (
	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

// GenreService manages the genre side of the catalog.
type GenreService struct{}

func (s *GenreService) GetGenres(search string, limit, offset int) ([]model.Genre, int64, error) {
	db := database.GetDB().Model(&model.Genre{})
	if search != "" {
		db = db.Where("name = ?", search)
	}

	var count int64
	if err := db.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var genres []model.Genre
	err := db.Order("slug").Limit(limit).Offset(offset).Find(&genres).Error
	return genres, count, err
}

func (s *GenreService) GetGenre(slugValue string) (*model.Genre, error) {
	genre := &model.Genre{}
	err := database.GetDB().Where("slug = ?", slugValue).First(genre).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("genre %q not found", slugValue)
	} else if err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *GenreService) CreateGenre(genre *model.Genre) error {
	if err := validateCatalogEntry(&genre.Name, &genre.Slug); err != nil {
		return err
	}
	if err := database.GetDB().Create(genre).Error; err != nil {
		if database.IsDuplicate(err) {
			return common.NewConflictf("genre slug %q already exists", genre.Slug)
		}
		return err
	}
	return nil
}

// DeleteGenre removes the genre and its title associations; the titles
// themselves are untouched.
func (s *GenreService) DeleteGenre(slugValue string) error {
	genre, err := s.GetGenre(slugValue)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.Id).Error; err != nil {
			return err
		}
		return tx.Delete(genre).Error
	})
}
