package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	a := DeriveKey([]byte("Secret#1"), salt)
	b := DeriveKey([]byte("Secret#1"), salt)
	c := DeriveKey([]byte("Secret#2"), salt)

	assert.Len(t, a, KeySize)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("Secret#1")
	require.NoError(t, err)
	assert.Len(t, h.Salt, SaltSize)
	assert.Len(t, h.Key, KeySize)

	assert.True(t, h.Verify("Secret#1"))
	assert.False(t, h.Verify("secret#1"))
	assert.False(t, h.Verify(""))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("Secret#1")
	require.NoError(t, err)
	b, err := HashPassword("Secret#1")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerify_ZeroHash(t *testing.T) {
	assert.False(t, PasswordHash{}.Verify("anything"))
}
