// Package model defines the persistent entities of the scorebox API.
package model

import "time"

// Role is the mutable privilege level transmitted as a plain string.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the transmitted role values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Id          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username    string `json:"username" gorm:"size:150;uniqueIndex"`
	Email       string `json:"email" gorm:"size:254;uniqueIndex"`
	FirstName   string `json:"first_name" gorm:"size:150"`
	LastName    string `json:"last_name" gorm:"size:150"`
	Bio         string `json:"bio"`
	Role        Role   `json:"role" gorm:"size:20;default:user"`
	IsSuperuser bool   `json:"-"`
	IsStaff     bool   `json:"-"`
}

// IsAdmin reports admin capability. The superuser flag overrides the
// role value, so a role downgrade never strips a superuser.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}

// IsModerator reports moderator capability, with the staff flag as an
// equivalent override.
func (u *User) IsModerator() bool {
	return u.IsStaff || u.Role == RoleModerator
}

type Category struct {
	Id   int    `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex"`
}

type Genre struct {
	Id   int    `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex"`
}

type Title struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	CategoryId  *int      `json:"-"`
	Category    *Category `json:"category" gorm:"constraint:OnDelete:SET NULL"`
	Genres      []Genre   `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE"`
}

type Review struct {
	Id       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	TitleId  int       `json:"-" gorm:"uniqueIndex:idx_reviews_title_author"`
	Title    *Title    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorId int       `json:"-" gorm:"uniqueIndex:idx_reviews_title_author"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// AuthoredBy reports whether the review was written by the given user.
func (r *Review) AuthoredBy(userId int) bool {
	return r.AuthorId == userId
}

type Comment struct {
	Id       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text"`
	ReviewId int       `json:"-"`
	Review   *Review   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorId int       `json:"-"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// AuthoredBy reports whether the comment was written by the given user.
func (c *Comment) AuthoredBy(userId int) bool {
	return c.AuthorId == userId
}
