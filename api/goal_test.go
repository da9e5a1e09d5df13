package api

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goalColumns = []string{"id", "user_id", "name", "target_amount", "target_date", "description", "created_at", "updated_at", "deleted_at"}

func TestGoalHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `savings_goals`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/goals", NewGoalHandler().Create)

	w := doRequest(router, "POST", "/goals", `{"name":"Emergency fund","target_amount":10000,"target_date":1798761600000}`)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["id"])
	assert.Equal(t, "Emergency fund", data["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_Create_InvalidAmount(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/goals", NewGoalHandler().Create)

	w := doRequest(router, "POST", "/goals", `{"name":"Trip","target_amount":0,"target_date":1798761600000}`)
	assert.Equal(t, 400, w.Code)
}

func TestGoalHandler_Delete_UnlinksTransactions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `savings_goals`").
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows(goalColumns).
			AddRow(4, 1, "Trip", 3000.0, 1798761600000, "", now, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions` SET `goal_id`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE `savings_goals` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/goals/:id", NewGoalHandler().Delete)

	w := doRequest(router, "DELETE", "/goals/4", "")

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixNow(t, now)
	target := now.Add(10 * 24 * time.Hour).UnixMilli()

	mock.ExpectQuery("SELECT .* FROM `savings_goals`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(goalColumns).
			AddRow(4, 1, "Trip", 1000.0, target, "", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `transactions` WHERE \\(user_id = \\? AND goal_id IS NOT NULL\\)").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, 1, 300.0, "expense", 3, now.UnixMilli(), "", nil, 4, false, "").
			AddRow(2, 1, 200.0, "expense", 3, now.UnixMilli(), "", nil, 4, false, ""))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/goals", NewGoalHandler().List)

	w := doRequest(router, "GET", "/goals", "")

	require.Equal(t, 200, w.Code)
	data, ok := decodeResponse(t, w)["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	g := data[0].(map[string]interface{})
	assert.Equal(t, "Trip", g["name"])
	assert.Equal(t, float64(500), g["current_amount"])
	assert.Equal(t, float64(50), g["percentage"])
	assert.Equal(t, float64(10), g["days_left"])
	assert.Equal(t, false, g["is_completed"])
	assert.Equal(t, false, g["is_overdue"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_List_NoGoalsSkipsTransactions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `savings_goals`").
		WillReturnRows(sqlmock.NewRows(goalColumns))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/goals", NewGoalHandler().List)

	w := doRequest(router, "GET", "/goals", "")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, []interface{}{}, decodeResponse(t, w)["data"])
	require.NoError(t, mock.ExpectationsWereMet())
}
