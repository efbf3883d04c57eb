// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that a generated token verifies and carries its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "movies-test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(7, "Ada", sec.RoleMember, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, string(sec.RoleMember), claims.Role)

	id, err := claims.NumericUserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

/*
TestTokenService_Rejects covers tampered, expired and foreign tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "movies-test")
	require.NoError(t, err)

	other, err := sec.NewTokenService("other-secret", "movies-test")
	require.NoError(t, err)

	expired, err := service.GenerateAccessToken(1, "Ada", sec.RoleMember, -time.Minute)
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken(1, "Ada", sec.RoleMember, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong_secret", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyToken(tt.token)
			assert.Error(t, err)
		})
	}
}

/*
TestNewTokenService_EmptySecret ensures a misconfigured service is refused.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "movies-test")
	assert.Error(t, err)
}

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))
}
