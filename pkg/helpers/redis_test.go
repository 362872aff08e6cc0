package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "user:session:6543", SessionKey("6543"))
}

func TestResetTokenKey(t *testing.T) {
	assert.Equal(t, "pwd:reset:token:abc", ResetTokenKey("abc"))
}
