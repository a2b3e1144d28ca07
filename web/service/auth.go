package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/scorebox/scorebox/config"
	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/logger"
	maildispatch "github.com/scorebox/scorebox/mail"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/token"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	codeLen        = 20
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterOutcome tags the signup branches that both succeed.
type RegisterOutcome int

const (
	OutcomeCreated RegisterOutcome = iota
	OutcomeReissued
)

// AuthService implements the confirmation-code handshake: signup issues
// a single-use code over mail, exchange trades it for a bearer token.
type AuthService struct {
	tokens     *token.Manager
	codeSecret []byte
	dispatcher maildispatch.Dispatcher
}

func NewAuthService(settings *config.Settings, dispatcher maildispatch.Dispatcher) *AuthService {
	return &AuthService{
		tokens:     token.NewManager(settings.TokenSecret, time.Duration(settings.TokenTTLHours)*time.Hour),
		codeSecret: []byte(settings.CodeSecret),
		dispatcher: dispatcher,
	}
}

// Tokens exposes the manager for the actor middleware.
func (s *AuthService) Tokens() *token.Manager {
	return s.tokens
}

// ValidateUsername enforces the username rules shared by signup and
// user administration: the restricted alphabet and the reserved "me".
func ValidateUsername(username string) error {
	if username == "" {
		return common.NewValidationf("username is required")
	}
	if len(username) > maxUsernameLen {
		return common.NewValidationf("username exceeds %d characters", maxUsernameLen)
	}
	if !usernameRe.MatchString(username) {
		return common.NewValidationf("username may contain only letters, digits and @/./+/-/_")
	}
	if strings.EqualFold(username, "me") {
		return common.NewValidationf("username %q is reserved", username)
	}
	return nil
}

// ValidateEmail checks shape and length.
func ValidateEmail(email string) error {
	if email == "" {
		return common.NewValidationf("email is required")
	}
	if len(email) > maxEmailLen {
		return common.NewValidationf("email exceeds %d characters", maxEmailLen)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return common.NewValidationf("email %q is not valid", email)
	}
	return nil
}

// Register creates the pending user, or re-issues a code when exactly
// this (username, email) pair already exists. A username or email taken
// by a different pair is a conflict. The code is dispatched to the
// user's email asynchronously.
func (s *AuthService) Register(username, email string) (RegisterOutcome, *model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return 0, nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return 0, nil, err
	}

	db := database.GetDB()

	existing := &model.User{}
	err := db.Where("username = ?", username).First(existing).Error
	switch {
	case err == nil:
		if existing.Email != email {
			return 0, nil, common.NewConflictf("username %q is registered with a different email", username)
		}
		s.deliverCode(existing)
		return OutcomeReissued, existing, nil
	case !database.IsNotFound(err):
		return 0, nil, err
	}

	var emailTaken int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&emailTaken).Error; err != nil {
		return 0, nil, err
	}
	if emailTaken > 0 {
		return 0, nil, common.NewConflictf("email %q is registered with a different username", email)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Role:     model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			// Lost the race against a concurrent signup of the same pair.
			return 0, nil, common.NewConflictf("username or email already registered")
		}
		return 0, nil, err
	}

	s.deliverCode(user)
	return OutcomeCreated, user, nil
}

// Exchange verifies the confirmation code against the user's current
// state and mints a bearer token. The token carries identity only.
func (s *AuthService) Exchange(username, code string) (string, error) {
	user := &model.User{}
	err := database.GetDB().Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return "", common.NewNotFoundf("user %q not found", username)
	} else if err != nil {
		return "", err
	}

	expected := s.ConfirmationCode(user)
	if !hmac.Equal([]byte(expected), []byte(code)) {
		return "", common.NewInvalidCode("confirmation code does not match")
	}
	return s.tokens.Issue(user)
}

// ConfirmationCode derives the current single-use code for a user. The
// HMAC covers the full profile state, so any mutation rotates the code
// and orphans everything issued before it.
func (s *AuthService) ConfirmationCode(user *model.User) string {
	mac := hmac.New(sha256.New, s.codeSecret)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%s|%s|%s|%t|%t",
		user.Id, user.Username, user.Email, user.Role,
		user.FirstName, user.LastName, user.Bio,
		user.IsSuperuser, user.IsStaff)
	sum := base32.StdEncoding.EncodeToString(mac.Sum(nil))
	return strings.ToLower(sum[:codeLen])
}

func (s *AuthService) deliverCode(user *model.User) {
	code := s.ConfirmationCode(user)
	go func() {
		subject := config.GetName() + " registration"
		body := fmt.Sprintf("Your confirmation code: %s", code)
		if err := s.dispatcher.Send(user.Email, subject, body); err != nil {
			logger.Warningf("confirmation code delivery to %s failed: %v", user.Email, err)
		}
	}()
}
