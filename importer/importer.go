// Package importer seeds the database from CSV files. Files load in
// dependency order; a missing or broken file is reported and the rest
// still load, so partial data sets import what they can.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/logger"
)

type Importer struct {
	db *gorm.DB
}

func New() *Importer {
	return &Importer{db: database.GetDB()}
}

type fileLoader struct {
	name string
	load func(*Importer, []row) error
}

// Upserts keyed by id keep the importer re-runnable over grown files.
var loaders = []fileLoader{
	{"users.csv", (*Importer).loadUsers},
	{"category.csv", (*Importer).loadCategories},
	{"genre.csv", (*Importer).loadGenres},
	{"titles.csv", (*Importer).loadTitles},
	{"genre_title.csv", (*Importer).loadTitleGenres},
	{"review.csv", (*Importer).loadReviews},
	{"comments.csv", (*Importer).loadComments},
}

// ImportDir loads every known CSV file found in dir.
func (im *Importer) ImportDir(dir string) error {
	var failed int
	for _, loader := range loaders {
		path := filepath.Join(dir, loader.name)
		rows, err := readRows(path)
		if err != nil {
			logger.Warningf("skipping %s: %v", loader.name, err)
			failed++
			continue
		}
		if err := loader.load(im, rows); err != nil {
			logger.Warningf("loading %s failed: %v", loader.name, err)
			failed++
			continue
		}
		logger.Infof("loaded %d rows from %s", len(rows), loader.name)
	}
	if failed == len(loaders) {
		return fmt.Errorf("no files loaded from %s", dir)
	}
	return nil
}

// row maps a CSV record by header name.
type row map[string]string

func (r row) Int(key string) (int, error) {
	n, err := strconv.Atoi(r[key])
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", key, err)
	}
	return n, nil
}

func (r row) Time(key string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r[key]); err == nil {
			return t
		}
	}
	return time.Time{}
}

func readRows(path string) ([]row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		r := make(row, len(header))
		for i, key := range header {
			if i < len(record) {
				r[key] = record[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (im *Importer) upsert(value any) error {
	// sqlite needs the conflict target spelled out for DO UPDATE.
	return im.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(value).Error
}

func (im *Importer) loadUsers(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		role := model.Role(r["role"])
		if !role.Valid() {
			role = model.RoleUser
		}
		user := &model.User{
			Id:        id,
			Username:  r["username"],
			Email:     r["email"],
			Role:      role,
			Bio:       r["bio"],
			FirstName: r["first_name"],
			LastName:  r["last_name"],
		}
		if err := im.upsert(user); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadCategories(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		if err := im.upsert(&model.Category{Id: id, Name: r["name"], Slug: r["slug"]}); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadGenres(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		if err := im.upsert(&model.Genre{Id: id, Name: r["name"], Slug: r["slug"]}); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadTitles(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		year, err := r.Int("year")
		if err != nil {
			return err
		}
		title := &model.Title{
			Id:          id,
			Name:        r["name"],
			Year:        year,
			Description: r["description"],
		}
		if raw := r["category"]; raw != "" {
			categoryId, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("field category: %w", err)
			}
			title.CategoryId = &categoryId
		}
		if err := im.upsert(title); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadTitleGenres(rows []row) error {
	for _, r := range rows {
		titleId, err := r.Int("title_id")
		if err != nil {
			return err
		}
		genreId, err := r.Int("genre_id")
		if err != nil {
			return err
		}
		err = im.db.Exec(
			"INSERT OR IGNORE INTO title_genres (title_id, genre_id) VALUES (?, ?)",
			titleId, genreId,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadReviews(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		titleId, err := r.Int("title_id")
		if err != nil {
			return err
		}
		authorId, err := r.Int("author")
		if err != nil {
			return err
		}
		score, err := r.Int("score")
		if err != nil {
			return err
		}
		review := &model.Review{
			Id:       id,
			Text:     r["text"],
			Score:    score,
			TitleId:  titleId,
			AuthorId: authorId,
			PubDate:  r.Time("pub_date"),
		}
		if err := im.upsert(review); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) loadComments(rows []row) error {
	for _, r := range rows {
		id, err := r.Int("id")
		if err != nil {
			return err
		}
		reviewId, err := r.Int("review_id")
		if err != nil {
			return err
		}
		authorId, err := r.Int("author")
		if err != nil {
			return err
		}
		comment := &model.Comment{
			Id:       id,
			Text:     r["text"],
			ReviewId: reviewId,
			AuthorId: authorId,
			PubDate:  r.Time("pub_date"),
		}
		if err := im.upsert(comment); err != nil {
			return err
		}
	}
	return nil
}
