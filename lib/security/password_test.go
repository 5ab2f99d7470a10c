package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed := HashPassword("correct horse battery staple")
	assert.NotEqual(t, "correct horse battery staple", hashed)
	assert.True(t, VerifyPassword(hashed, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hashed, "wrong password"))
}
