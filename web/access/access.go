// Package access implements the permission decision for every request:
// a pure function from (actor, method, resource, object) to allow/deny.
package access

import (
	"net/http"

	"github.com/scorebox/scorebox/database/model"
)

// Resource names the kind of object a request operates on.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
)

// Actor is the identity behind a request. A nil User is an anonymous
// caller. The User value is loaded fresh from the store for every
// request, so capability checks never see stale roles.
type Actor struct {
	User *model.User
}

func (a Actor) Authenticated() bool {
	return a.User != nil
}

func (a Actor) isAdmin() bool {
	return a.User != nil && a.User.IsAdmin()
}

func (a Actor) isModerator() bool {
	return a.User != nil && a.User.IsModerator()
}

// Authored is implemented by objects that belong to a user for
// permission purposes (reviews, comments).
type Authored interface {
	AuthoredBy(userId int) bool
}

// SafeMethod reports whether method is read-only.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Decide evaluates the fixed rule set. obj is the addressed object for
// update/delete on author-owned resources and nil otherwise; create
// carries no object, so the author check does not apply to it.
func Decide(actor Actor, method string, resource Resource, obj Authored) bool {
	if resource == ResourceUser {
		// User administration is admin-only in full, reads included.
		// The self-profile endpoints never reach this evaluator.
		return actor.isAdmin()
	}

	if SafeMethod(method) {
		return true
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		return actor.isAdmin()
	case ResourceReview, ResourceComment:
		if !actor.Authenticated() {
			return false
		}
		if obj == nil {
			return true
		}
		return actor.isAdmin() || actor.isModerator() || obj.AuthoredBy(actor.User.Id)
	}
	return false
}
