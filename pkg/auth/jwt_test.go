package auth

import (
	"testing"

	"github.com/qingnian/blog-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "unit-test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 7200,
			Issuer:               "blog-api",
		},
	}
}

func TestGenerateAndParseTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user", false)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 3600, pair.ExpiresIn)

	claims, err := ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, AccessToken, claims.Type)

	refreshClaims, err := ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, refreshClaims.Type)
	// 同一对令牌共享tokenID
	assert.Equal(t, claims.TokenID, refreshClaims.TokenID)
}

func TestParseTokenInvalid(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	pair, err := GenerateTokenPair(7, "user", false)
	require.NoError(t, err)

	require.NoError(t, RevokeToken(pair.AccessToken))

	// 已撤销的令牌解析失败
	_, err = ParseToken(pair.AccessToken)
	assert.Error(t, err)

	// 刷新令牌不受访问令牌撤销影响
	_, err = ParseToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshAccessTokenRotates(t *testing.T) {
	pair, err := GenerateTokenPair(7, "admin", false)
	require.NoError(t, err)

	newPair, err := RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)
	assert.NotEqual(t, pair.TokenID, newPair.TokenID)

	claims, err := ParseToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	// 旧刷新令牌作废，不能重复换取
	_, err = RefreshAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	// 访问令牌不能用来刷新
	_, err = RefreshAccessToken(newPair.AccessToken)
	assert.Error(t, err)
}
