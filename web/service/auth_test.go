package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/database"
	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

func TestRegisterAndExchange(t *testing.T) {
	setupTestDB(t)
	dispatcher := newRecordingDispatcher()
	s := NewAuthService(testSettings(), dispatcher)

	outcome, user, err := s.Register("alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, model.RoleUser, user.Role)

	// The code reaches the user by mail.
	select {
	case body := <-dispatcher.sent:
		assert.Contains(t, body, s.ConfirmationCode(user))
	case <-time.After(time.Second):
		t.Fatal("confirmation code was not dispatched")
	}

	_, err = s.Exchange("alice", "definitely-wrong")
	assert.Equal(t, common.KindInvalidCode, common.KindOf(err))

	_, err = s.Exchange("nobody", s.ConfirmationCode(user))
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	signed, err := s.Exchange("alice", s.ConfirmationCode(user))
	require.NoError(t, err)

	id, err := s.Tokens().Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, user.Id, id)
}

func TestRegisterReissuesForExactPair(t *testing.T) {
	setupTestDB(t)
	s := NewAuthService(testSettings(), newRecordingDispatcher())

	_, first, err := s.Register("alice", "alice@example.com")
	require.NoError(t, err)

	outcome, again, err := s.Register("alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReissued, outcome)
	assert.Equal(t, first.Id, again.Id)

	var count int64
	err = database.GetDB().Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The re-issued code still exchanges.
	_, err = s.Exchange("alice", s.ConfirmationCode(again))
	assert.NoError(t, err)
}

func TestRegisterConflicts(t *testing.T) {
	setupTestDB(t)
	s := NewAuthService(testSettings(), newRecordingDispatcher())

	_, _, err := s.Register("alice", "alice@example.com")
	require.NoError(t, err)

	_, _, err = s.Register("alice", "other@example.com")
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	_, _, err = s.Register("bob", "alice@example.com")
	assert.Equal(t, common.KindConflict, common.KindOf(err))
}

func TestRegisterRejectsReservedUsername(t *testing.T) {
	setupTestDB(t)
	s := NewAuthService(testSettings(), newRecordingDispatcher())

	for _, username := range []string{"me", "ME", "Me", "mE"} {
		_, _, err := s.Register(username, "me@example.com")
		assert.Equal(t, common.KindValidation, common.KindOf(err), "username %q", username)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	setupTestDB(t)
	s := NewAuthService(testSettings(), newRecordingDispatcher())

	_, _, err := s.Register("white space", "a@example.com")
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, _, err = s.Register("alice", "not-an-email")
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	_, _, err = s.Register("", "a@example.com")
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestProfileMutationRotatesCode(t *testing.T) {
	setupTestDB(t)
	s := NewAuthService(testSettings(), newRecordingDispatcher())
	userService := UserService{}

	_, user, err := s.Register("alice", "alice@example.com")
	require.NoError(t, err)
	oldCode := s.ConfirmationCode(user)

	bio := "updated bio"
	updated, err := userService.UpdateProfile(user, &UserPatch{Bio: &bio})
	require.NoError(t, err)

	newCode := s.ConfirmationCode(updated)
	assert.NotEqual(t, oldCode, newCode)

	_, err = s.Exchange("alice", oldCode)
	assert.Equal(t, common.KindInvalidCode, common.KindOf(err))

	_, err = s.Exchange("alice", newCode)
	assert.NoError(t, err)
}
