// Package entity defines the JSON shapes of the scorebox API.
package entity

import (
	"time"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

// Error is the structured failure body: a machine-readable kind plus a
// human message.
type Error struct {
	Kind    common.Kind `json:"kind"`
	Message string      `json:"message"`
}

func NewError(err error) Error {
	return Error{Kind: common.KindOf(err), Message: err.Error()}
}

// Page wraps list responses with the applied window.
type Page struct {
	Count   int64 `json:"count"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Results any   `json:"results"`
}

// Signup echoes the registered pair.
type Signup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Token is the exchange response.
type Token struct {
	Token string `json:"token"`
}

// TitleView is the title payload with the annotated average score.
// Rating is null until the first review exists.
type TitleView struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Description string          `json:"description"`
	Rating      *int            `json:"rating"`
	Category    *model.Category `json:"category"`
	Genre       []model.Genre   `json:"genre"`
}

// ReviewView exposes the author by username, as permissions do not
// depend on the reader knowing internal user ids.
type ReviewView struct {
	Id      int       `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentView struct {
	Id      int       `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func NewReviewView(r *model.Review) ReviewView {
	v := ReviewView{
		Id:      r.Id,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Author != nil {
		v.Author = r.Author.Username
	}
	return v
}

func NewCommentView(c *model.Comment) CommentView {
	v := CommentView{
		Id:      c.Id,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
	if c.Author != nil {
		v.Author = c.Author.Username
	}
	return v
}
