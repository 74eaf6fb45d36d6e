package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		email    string
		password string
		valid    bool
	}{
		{"válido", "ana", "ana@example.com", "1234", true},
		{"nickname vacío", "  ", "ana@example.com", "1234", false},
		{"nickname de 21", strings.Repeat("a", 21), "ana@example.com", "1234", false},
		{"nickname de 20", strings.Repeat("ñ", 20), "ana@example.com", "1234", true},
		{"email vacío", "ana", "   ", "1234", false},
		{"email con nombre", "ana", "Ana <ana@example.com>", "1234", false},
		{"password corta", "ana", "ana@example.com", "12", false},
		{"password larga", "ana", "ana@example.com", "123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.nickname, tt.email, tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidUser)
			}
		})
	}
}

func TestNewUser_NormalizesAndHidesHash(t *testing.T) {
	u := NewUser(" ana ", " Ana@Example.COM ", "hash")
	u.ID = 3

	assert.Equal(t, "ana", u.Nickname)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")

	_, ok := u.FieldValue("passwordHash")
	assert.False(t, ok)
	v, ok := u.FieldValue("role")
	assert.True(t, ok)
	assert.Equal(t, "USER", v)
}

func TestNewFollow(t *testing.T) {
	f, err := NewFollow(2, 1)
	require.NoError(t, err)
	assert.False(t, f.IsConfirmed)
	v, ok := f.FieldValue("isConfirmed")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	_, err = NewFollow(1, 1)
	assert.ErrorIs(t, err, ErrInvalidFollow)
	_, err = NewFollow(0, 1)
	assert.ErrorIs(t, err, ErrInvalidFollow)
}
