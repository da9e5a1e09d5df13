package api

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter() *gin.Engine {
	h := NewExportHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/csv", h.ExportCSV)
	router.GET("/export/excel", h.ExportExcel)
	router.GET("/export/json", h.ExportJSON)
	return router
}

func expectExportRows(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(1, 1, "Food & Dining", "expense", "Utensils", "#f97316", true, now, now, nil).
			AddRow(14, 1, "Salary", "income", "Briefcase", "#22c55e", true, now, now, nil))
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local).UnixMilli()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(3, 1, 0.1, "expense", 1, jan, "Coffee, large", nil, nil, false, "").
			AddRow(2, 1, 0.2, "expense", 99, jan, "", "grp-1", nil, false, "").
			AddRow(1, 1, 3000.0, "income", 14, jan, "January", nil, nil, false, ""))
}

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportRows(mock)

	w := doRequest(exportRouter(), "GET", "/export/csv", "")

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "attachment; filename=transactions_all_all.csv", w.Header().Get("Content-Disposition"))

	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")))
	records, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, "0.10", records[1][3])
	assert.Equal(t, "Food & Dining", records[1][4])
	assert.Equal(t, "Coffee, large", records[1][5])
	// 分类已删除时显示 Unknown
	assert.Equal(t, "Unknown", records[2][4])
	assert.Equal(t, "grp-1", records[2][6])
	assert.Equal(t, "3000.00", records[3][3])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportRows(mock)

	w := doRequest(exportRouter(), "GET", "/export/excel", "")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("流水")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Food & Dining", rows[1][4])

	summary := rows[4]
	assert.Equal(t, "合计", summary[0])
	assert.Equal(t, "3000", summary[3])
	assert.Equal(t, "0.3", summary[5])
	assert.True(t, strings.Contains(summary[6], "3"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportRows(mock)

	w := doRequest(exportRouter(), "GET", "/export/json", "")

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total_count"])
	assert.Equal(t, "3000.00", data["total_income"])
	assert.Equal(t, "0.30", data["total_expense"])
	assert.Len(t, data["transactions"], 3)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_InvalidRange(t *testing.T) {
	w := doRequest(exportRouter(), "GET", "/export/json?start_date=2000&end_date=1000", "")
	assert.Equal(t, 400, w.Code)

	w = doRequest(exportRouter(), "GET", "/export/csv?start_date=abc", "")
	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_Unauthorized(t *testing.T) {
	router := gin.New()
	router.GET("/export/csv", NewExportHandler().ExportCSV)

	w := doRequest(router, "GET", "/export/csv", "")
	assert.Equal(t, 401, w.Code)
}
