package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_AndCompare(t *testing.T) {
	hash, err := GetHash("supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "supersecret", hash)

	assert.NoError(t, CompareHash(hash, "supersecret"))
	assert.Error(t, CompareHash(hash, "wrongpassword"))
}

func TestGetHash_SaltUniqueness(t *testing.T) {
	// bcrypt генерирует соль на каждый вызов: одинаковые пароли
	// дают разные хэши, но оба проходят проверку.
	first, err := GetHash("samepassword")
	require.NoError(t, err)
	second, err := GetHash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "samepassword"))
	assert.NoError(t, CompareHash(second, "samepassword"))
}

func TestCompareHash_InvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "password"))
}
