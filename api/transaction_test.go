package api

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionColumns = []string{"id", "user_id", "amount", "type", "category_id", "date", "description", "split_group_id", "goal_id", "is_recurring", "recurring_frequency"}

func TestTransactionHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"amount":42.5,"type":"expense","category_id":3,"date":1767225600000,"description":"Lunch","is_recurring":true,"recurring_frequency":"monthly"}`
	w := doRequest(router, "POST", "/transactions", body)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["id"])
	assert.Equal(t, 42.5, data["amount"])
	assert.Equal(t, "monthly", data["recurring_frequency"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_ForeignCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	w := doRequest(router, "POST", "/transactions", `{"amount":1,"type":"expense","category_id":3,"date":1767225600000}`)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "分类不存在", decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_InvalidType(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions", NewTransactionHandler().Create)

	w := doRequest(router, "POST", "/transactions", `{"amount":1,"type":"transfer","category_id":3,"date":1767225600000}`)
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_Create_Unauthorized(t *testing.T) {
	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	w := doRequest(router, "POST", "/transactions", `{"amount":1,"type":"expense","category_id":3,"date":1767225600000}`)
	assert.Equal(t, 401, w.Code)
}

func TestTransactionHandler_CreateSplit(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WithArgs(3, 4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(20, 3))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions/split", NewTransactionHandler().CreateSplit)

	body := `{"type":"expense","date":1767225600000,"splits":[
		{"amount":20,"category_id":3,"description":"Groceries"},
		{"amount":15,"category_id":4,"description":"Cleaning"},
		{"amount":5,"category_id":3}
	]}`
	w := doRequest(router, "POST", "/transactions/split", body)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	groupID := data["split_group_id"].(string)
	assert.Len(t, groupID, 36)

	rows := data["transactions"].([]interface{})
	require.Len(t, rows, 3)
	for _, r := range rows {
		row := r.(map[string]interface{})
		assert.Equal(t, groupID, row["split_group_id"])
		assert.Equal(t, "expense", row["type"])
		assert.Equal(t, float64(1767225600000), row["date"])
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_CreateSplit_RequiresTwoRows(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/transactions/split", NewTransactionHandler().CreateSplit)

	body := `{"type":"expense","date":1767225600000,"splits":[{"amount":20,"category_id":3}]}`
	w := doRequest(router, "POST", "/transactions/split", body)
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_Get_Anonymous(t *testing.T) {
	router := gin.New()
	router.GET("/transactions/:id", NewTransactionHandler().Get)

	w := doRequest(router, "GET", "/transactions/1", "")

	assert.Equal(t, 200, w.Code)
	assert.Nil(t, decodeResponse(t, w)["data"])
}

func TestTransactionHandler_Update(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(10, 1, 42.5, "expense", 3, 1767225600000, "Lunch", nil, 2, false, ""))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/transactions/:id", NewTransactionHandler().Update)

	// goal_id 省略即解除关联
	w := doRequest(router, "PUT", "/transactions/10", `{"amount":50,"type":"income","category_id":4,"date":1767312000000,"description":"Refund"}`)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(50), data["amount"])
	assert.Equal(t, "income", data["type"])
	assert.Equal(t, "Refund", data["description"])
	assert.NotContains(t, data, "goal_id")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Update_IgnoresRecurrence(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(10, 1, 9.9, "expense", 3, 1767225600000, "Music", nil, nil, true, "monthly"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/transactions/:id", NewTransactionHandler().Update)

	// 周期字段不属于编辑请求，传入也不会校验或写入
	body := `{"amount":12.9,"type":"expense","category_id":3,"date":1767225600000,"description":"Music","is_recurring":false,"recurring_frequency":"daily"}`
	w := doRequest(router, "PUT", "/transactions/10", body)

	require.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 12.9, data["amount"])
	assert.Equal(t, true, data["is_recurring"])
	assert.Equal(t, "monthly", data["recurring_frequency"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/transactions/:id", NewTransactionHandler().Delete)

	w := doRequest(router, "DELETE", "/transactions/10", "")

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_List_Filters(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions` WHERE user_id = \\? AND type = \\? AND date >= \\? AND date <= \\?").
		WithArgs(1, "expense", 1000, 2000).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(2, 1, 5.0, "expense", 3, 1500, "", nil, nil, false, "").
			AddRow(1, 1, 7.0, "expense", 3, 1200, "", nil, nil, false, ""))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions", NewTransactionHandler().List)

	w := doRequest(router, "GET", "/transactions?type=expense&start_date=1000&end_date=2000", "")

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_List_InvalidType(t *testing.T) {
	router := gin.New()
	router.GET("/transactions", NewTransactionHandler().List)

	w := doRequest(router, "GET", "/transactions?type=transfer", "")
	assert.Equal(t, 400, w.Code)
}

func TestTransactionHandler_List_Anonymous(t *testing.T) {
	router := gin.New()
	router.GET("/transactions", NewTransactionHandler().List)

	w := doRequest(router, "GET", "/transactions", "")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, []interface{}{}, decodeResponse(t, w)["data"])
}

func TestTransactionHandler_Recent(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions` .*ORDER BY date DESC, id DESC LIMIT 500").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(2, 1, 5.0, "expense", 3, 1500, "", nil, nil, false, ""))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/recent", NewTransactionHandler().Recent)

	w := doRequest(router, "GET", "/transactions/recent?limit=500", "")

	assert.Equal(t, 200, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Recent_DefaultLimit(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions` .*ORDER BY date DESC, id DESC LIMIT 10").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/transactions/recent", NewTransactionHandler().Recent)

	w := doRequest(router, "GET", "/transactions/recent", "")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, []interface{}{}, decodeResponse(t, w)["data"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Recent_InvalidLimit(t *testing.T) {
	router := gin.New()
	router.GET("/transactions/recent", NewTransactionHandler().Recent)

	w := doRequest(router, "GET", "/transactions/recent?limit=abc", "")
	assert.Equal(t, 400, w.Code)
}
