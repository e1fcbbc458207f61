package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForbiddenRefinements(t *testing.T) {
	assert.True(t, errors.Is(ErrNotOwner, ErrForbidden))
	assert.True(t, errors.Is(ErrRoleChangeForbidden, ErrForbidden))
	assert.False(t, errors.Is(ErrNotOwner, ErrRoleChangeForbidden))
}

func TestTokenExpiredIsInvalidToken(t *testing.T) {
	assert.True(t, errors.Is(ErrTokenExpired, ErrInvalidToken))
	assert.False(t, errors.Is(ErrInvalidToken, ErrTokenExpired))
}
