package api

import (
	"errors"
	"testing"
	"time"

	"fintrack/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	enabled bool
	err     error
	to      string
	report  *service.MonthlyReport
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendMonthlyReport(toEmail string, report *service.MonthlyReport) error {
	m.to = toEmail
	m.report = report
	return m.err
}

func reportRouter(mailer ReportMailer) *gin.Engine {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/reports/monthly/email", NewReportHandler(mailer).EmailMonthly)
	return router
}

func TestReportHandler_EmailMonthly(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	fixNow(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	now := time.Now()
	feb := time.Date(2026, 2, 14, 19, 0, 0, 0, time.Local).UnixMilli()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "iss|sub", "Alice", "alice@example.com", "", "CN", "CNY", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, 1, 88.0, "expense", 3, feb, "Dinner", nil, nil, false, ""))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(3, 1, "Food", "expense", "Utensils", "#f97316", true, now, now, nil))

	mailer := &fakeMailer{enabled: true}
	w := doRequest(reportRouter(mailer), "POST", "/reports/monthly/email", `{"year":2026,"month":2}`)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "alice@example.com", mailer.to)
	require.NotNil(t, mailer.report)
	assert.Equal(t, time.February, mailer.report.Month)
	assert.Equal(t, "CNY", mailer.report.Currency)
	assert.Equal(t, float64(88), mailer.report.Summary.TotalExpense)
	require.Len(t, mailer.report.Categories, 1)
	assert.Equal(t, "Food", mailer.report.Categories[0].Name)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["month"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_EmailMonthly_Disabled(t *testing.T) {
	w := doRequest(reportRouter(&fakeMailer{enabled: false}), "POST", "/reports/monthly/email", "")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "邮件服务未启用", decodeResponse(t, w)["message"])
}

func TestReportHandler_EmailMonthly_NoEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "iss|sub", "Alice", "", "", "", "", "", now, now))

	w := doRequest(reportRouter(&fakeMailer{enabled: true}), "POST", "/reports/monthly/email", "")

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_EmailMonthly_SendFailure(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "iss|sub", "Alice", "alice@example.com", "", "", "", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	mailer := &fakeMailer{enabled: true, err: errors.New("smtp: connection refused")}
	w := doRequest(reportRouter(mailer), "POST", "/reports/monthly/email", "")

	assert.Equal(t, 500, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_EmailMonthly_InvalidMonth(t *testing.T) {
	w := doRequest(reportRouter(&fakeMailer{enabled: true}), "POST", "/reports/monthly/email", `{"month":14}`)
	assert.Equal(t, 400, w.Code)
}
