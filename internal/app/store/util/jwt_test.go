package util

import (
	"testing"
	"time"

	"elpro/internal/app/store/entity"

	"github.com/stretchr/testify/assert"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken("user-1", "admin", entity.RoleAdmin)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.GenerateToken("user-1", "admin", entity.RoleAdmin)
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken("user-1", "admin", entity.RoleAdmin)
	assert.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_GarbageRejected(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
