package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key", Issuer: "https://id.example.com"},
	}
	InitJWT(config.GlobalConfig)
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := GenerateToken("user-1", "Alice", "alice@example.com", 24*time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "https://id.example.com|user-1", claims.TokenIdentifier())

	_, err = GenerateToken("", "x", "", time.Hour)
	assert.Error(t, err)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 空字符串
	_, err := ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// 已过期
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "https://id.example.com",
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	s, _ := expired.SignedString([]byte("test-jwt-secret-key"))
	_, err = ParseToken(s)
	assert.Error(t, err)

	// 签发方不匹配
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "https://evil.example.com",
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	s, _ = other.SignedString([]byte("test-jwt-secret-key"))
	_, err = ParseToken(s)
	assert.Error(t, err)

	// 密钥错误
	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "https://id.example.com",
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	s, _ = wrongKey.SignedString([]byte("another-secret"))
	_, err = ParseToken(s)
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Authenticate())
	router.GET("/whoami", func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.String(200, "anonymous")
			return
		}
		c.String(200, "sub:%s", claims.Subject)
	})

	do := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/whoami", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 无 token 以匿名身份继续
	w := do("")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	// 格式错误（非 Bearer）
	w = do("Basic xyz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "401")

	// 仅 Bearer 无 token
	assert.Equal(t, http.StatusUnauthorized, do("Bearer ").Code)

	// 无效 token
	assert.Equal(t, http.StatusUnauthorized, do("Bearer abc.def.ghi").Code)

	// 有效 token
	token, _ := GenerateToken("user-42", "", "", time.Hour)
	w = do("Bearer " + token)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "sub:user-42", w.Body.String())
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Nil(t, GetClaims(c))

	c.Set("userID", uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
