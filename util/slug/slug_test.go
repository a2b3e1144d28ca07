package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"Café Culture", "cafe-culture"},
		{"  spaced  out  ", "spaced-out"},
		{"Rock & Roll!", "rock-roll"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.input), "input %q", tt.input)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("science-fiction"))
	assert.True(t, Valid("a1"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-leading"))
	assert.False(t, Valid("trailing-"))
	assert.False(t, Valid("double--hyphen"))
	assert.False(t, Valid("Upper"))
	assert.False(t, Valid("with space"))
}
