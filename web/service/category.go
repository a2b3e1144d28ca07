package service

import (
	"gorm.io/gorm"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/util/slug"
)

// CategoryService manages the category side of the catalog. Slugs are
// the lookup identity and never change after creation.
type CategoryService struct{}

func (s *CategoryService) GetCategories(search string, limit, offset int) ([]model.Category, int64, error) {
	db := database.GetDB().Model(&model.Category{})
	if search != "" {
		db = db.Where("name = ?", search)
	}

	var count int64
	if err := db.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var categories []model.Category
	err := db.Order("slug").Limit(limit).Offset(offset).Find(&categories).Error
	return categories, count, err
}

func (s *CategoryService) GetCategory(slugValue string) (*model.Category, error) {
	category := &model.Category{}
	err := database.GetDB().Where("slug = ?", slugValue).First(category).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundf("category %q not found", slugValue)
	} else if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(category *model.Category) error {
	if err := validateCatalogEntry(&category.Name, &category.Slug); err != nil {
		return err
	}
	if err := database.GetDB().Create(category).Error; err != nil {
		if database.IsDuplicate(err) {
			return common.NewConflictf("category slug %q already exists", category.Slug)
		}
		return err
	}
	return nil
}

// DeleteCategory removes the category and detaches it from titles:
// referencing titles survive with a null category.
func (s *CategoryService) DeleteCategory(slugValue string) error {
	category, err := s.GetCategory(slugValue)
	if err != nil {
		return err
	}
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Title{}).
			Where("category_id = ?", category.Id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

// validateCatalogEntry checks a name/slug pair shared by categories and
// genres, deriving the slug from the name when absent.
func validateCatalogEntry(name, slugValue *string) error {
	if *name == "" {
		return common.NewValidationf("name is required")
	}
	if len(*name) > 256 {
		return common.NewValidationf("name exceeds 256 characters")
	}
	if *slugValue == "" {
		*slugValue = slug.Make(*name)
	}
	if len(*slugValue) > 50 {
		*slugValue = (*slugValue)[:50]
	}
	if !slug.Valid(*slugValue) {
		return common.NewValidationf("slug %q is not valid", *slugValue)
	}
	return nil
}
