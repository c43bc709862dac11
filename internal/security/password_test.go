package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tazhibayda/recipe-service/internal/security"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := security.HashPassword("abcdefg")
	assert.NoError(t, err)
	assert.NotEqual(t, "abcdefg", hash)

	assert.True(t, security.CheckPassword(hash, "abcdefg"))
	assert.False(t, security.CheckPassword(hash, "abcdefh"))
	assert.False(t, security.CheckPassword(hash, ""))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := security.HashPassword("abcdefg")
	assert.NoError(t, err)
	h2, err := security.HashPassword("abcdefg")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
