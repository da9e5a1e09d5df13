package api

import (
	"testing"
	"time"

	"fintrack/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "token_identifier", "name", "email", "photo_url", "country", "currency", "theme", "created_at", "updated_at"}

func testClaims() *middleware.Claims {
	return &middleware.Claims{
		Name:    "Alice",
		Email:   "alice@example.com",
		Picture: "https://img.example.com/a.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  "https://id.example.com",
			Subject: "user-1",
		},
	}
}

func TestUserHandler_Store_CreatesUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("https://id.example.com|user-1").
		WillReturnRows(sqlmock.NewRows(userColumns))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setClaimsMiddleware(testClaims()))
	router.POST("/users/me", NewUserHandler().Store)

	w := doRequest(router, "POST", "/users/me", "")

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "https://id.example.com|user-1", data["token_identifier"])
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "", data["country"])
	assert.Equal(t, "", data["currency"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_RefreshesChangedClaims(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("https://id.example.com|user-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "https://id.example.com|user-1", "Old Name", "alice@example.com", "https://img.example.com/a.png", "CN", "CNY", "", now, now))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setClaimsMiddleware(testClaims()))
	router.POST("/users/me", NewUserHandler().Store)

	w := doRequest(router, "POST", "/users/me", "")

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "CNY", data["currency"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_NoChanges(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "https://id.example.com|user-1", "Alice", "alice@example.com", "https://img.example.com/a.png", "CN", "CNY", "", now, now))

	router := gin.New()
	router.Use(setClaimsMiddleware(testClaims()))
	router.POST("/users/me", NewUserHandler().Store)

	w := doRequest(router, "POST", "/users/me", "")

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_Unauthenticated(t *testing.T) {
	router := gin.New()
	router.POST("/users/me", NewUserHandler().Store)

	w := doRequest(router, "POST", "/users/me", "")
	assert.Equal(t, 401, w.Code)
}

func TestUserHandler_Current_Anonymous(t *testing.T) {
	router := gin.New()
	router.GET("/users/me", NewUserHandler().Current)

	w := doRequest(router, "GET", "/users/me", "")

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp, "data")
	assert.Nil(t, resp["data"])
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "iss|sub", "Alice", "a@x.com", "", "", "", "", now, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(7))
	router.PUT("/users/me", NewUserHandler().UpdateProfile)

	w := doRequest(router, "PUT", "/users/me", `{"name":" Alice B ","country":"DE","currency":"eur","theme":"dark"}`)

	require.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Alice B", data["name"])
	assert.Equal(t, "DE", data["country"])
	assert.Equal(t, "EUR", data["currency"])
	assert.Equal(t, "dark", data["theme"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_UpdateProfile_KeepsTheme(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "iss|sub", "Alice", "a@x.com", "", "CN", "CNY", "light", now, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(7))
	router.PUT("/users/me", NewUserHandler().UpdateProfile)

	w := doRequest(router, "PUT", "/users/me", `{"name":"Alice","country":"US","currency":"usd"}`)

	require.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "US", data["country"])
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, "light", data["theme"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_UpdateProfile_InvalidTheme(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(7))
	router.PUT("/users/me", NewUserHandler().UpdateProfile)

	w := doRequest(router, "PUT", "/users/me", `{"name":"Alice","country":"DE","currency":"EUR","theme":"neon"}`)
	assert.Equal(t, 400, w.Code)
}
