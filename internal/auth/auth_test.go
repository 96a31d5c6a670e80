package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

func TestHasher(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, h.Check(hash, "correct horse"))
	assert.ErrorIs(t, h.Check(hash, "wrong horse"), ErrInvalidCredentials)
	assert.ErrorIs(t, h.Check("not-a-hash", "correct horse"), ErrInvalidCredentials)

	_, err = h.Hash("short")
	assert.True(t, errors.Is(err, ErrWeakPassword))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("ééééééé1"))
	assert.ErrorIs(t, ValidatePassword("1234567"), ErrWeakPassword)
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.example.org"}
	invalid := []string{"", "plain", "a@b", "Name <a@b.co>", "@b.co", "a b@c.de"}
	for _, s := range valid {
		assert.True(t, ValidEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidEmail(s), s)
	}
}

func TestNewToken(t *testing.T) {
	tok1, hash1, err := NewToken()
	require.NoError(t, err)
	tok2, hash2, err := NewToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tok1, tokenPrefix))
	assert.Len(t, tok1, len(tokenPrefix)+64)
	assert.NotEqual(t, tok1, tok2)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, HashToken(tok1))
	assert.NotContains(t, hash1, tok1)
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Role: domain.RoleAdmin})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
	assert.True(t, id.IsAdmin())
	assert.False(t, Identity{Role: domain.RoleUser}.IsAdmin())
}
