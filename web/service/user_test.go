package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/database/model"
	"github.com/scorebox/scorebox/util/common"
)

func TestCreateUserDuplicateIdentity(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	err := s.CreateUser(&model.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	err = s.CreateUser(&model.User{Username: "alice", Email: "second@example.com"})
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	err = s.CreateUser(&model.User{Username: "bob", Email: "alice@example.com"})
	assert.Equal(t, common.KindConflict, common.KindOf(err))
}

func TestCreateUserValidation(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	err := s.CreateUser(&model.User{Username: "Me", Email: "me@example.com"})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	err = s.CreateUser(&model.User{Username: "alice", Email: "alice@example.com", Role: "boss"})
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestSelfPatchNeverChangesRole(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	user := &model.User{Username: "mod", Email: "mod@example.com", Role: model.RoleModerator}
	require.NoError(t, s.CreateUser(user))

	role := "admin"
	bio := "trusted since 2020"
	updated, err := s.UpdateProfile(user, &UserPatch{Role: &role, Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, model.RoleModerator, updated.Role)
	assert.Equal(t, bio, updated.Bio)

	stored, err := s.GetUser("mod")
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, stored.Role)
	assert.Equal(t, bio, stored.Bio)
}

func TestAdminPatchChangesRole(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	require.NoError(t, s.CreateUser(&model.User{Username: "alice", Email: "alice@example.com"}))

	role := "moderator"
	updated, err := s.UpdateUser("alice", &UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, updated.Role)
}

func TestUpdateUserRevalidatesUsername(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	require.NoError(t, s.CreateUser(&model.User{Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, s.CreateUser(&model.User{Username: "bob", Email: "bob@example.com"}))

	me := "me"
	_, err := s.UpdateUser("alice", &UserPatch{Username: &me})
	assert.Equal(t, common.KindValidation, common.KindOf(err))

	taken := "bob"
	_, err = s.UpdateUser("alice", &UserPatch{Username: &taken})
	assert.Equal(t, common.KindConflict, common.KindOf(err))
}

func TestSuperuserFlagOverridesRole(t *testing.T) {
	user := &model.User{Role: model.RoleUser, IsSuperuser: true}
	assert.True(t, user.IsAdmin())

	staff := &model.User{Role: model.RoleUser, IsStaff: true}
	assert.True(t, staff.IsModerator())
	assert.False(t, staff.IsAdmin())
}

func TestGetUsersPagination(t *testing.T) {
	setupTestDB(t)
	s := UserService{}

	for _, name := range []string{"u1", "u2", "u3"} {
		require.NoError(t, s.CreateUser(&model.User{Username: name, Email: name + "@example.com"}))
	}

	// The seeded admin is present too.
	users, count, err := s.GetUsers("", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
	assert.Len(t, users, 2)

	users, count, err = s.GetUsers("u", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, users, 3)
}
