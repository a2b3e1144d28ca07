package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorebox/scorebox/database/model"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	user := &model.User{Id: 7, Username: "alice", Role: model.RoleAdmin}

	signed, err := m.Issue(user)
	require.NoError(t, err)

	id, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestTokenCarriesNoRole(t *testing.T) {
	m := NewManager("secret", time.Hour)
	signed, err := m.Issue(&model.User{Id: 7, Username: "alice", Role: model.RoleAdmin})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.NotContains(t, claims, "role")
	assert.Equal(t, "alice", claims["username"])
}

func TestParseRejectsBadTokens(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager("different-secret", time.Hour)
	signed, err := other.Issue(&model.User{Id: 1, Username: "mallory"})
	require.NoError(t, err)
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	signed, err := m.Issue(&model.User{Id: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
