package api

import (
	"errors"
	"io"
	"time"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ReportMailer 月报发送方
type ReportMailer interface {
	Enabled() bool
	SendMonthlyReport(toEmail string, report *service.MonthlyReport) error
}

// ReportHandler 报告处理器
type ReportHandler struct {
	mailer ReportMailer
}

// NewReportHandler 创建报告处理器
func NewReportHandler(mailer ReportMailer) *ReportHandler {
	return &ReportHandler{mailer: mailer}
}

// MonthlyReportRequest 发送月报请求，省略时为本月
type MonthlyReportRequest struct {
	Year  int `json:"year" binding:"omitempty,min=1970,max=9999" example:"2026"`
	Month int `json:"month" binding:"omitempty,min=1,max=12" example:"1"`
}

// EmailMonthly 把月度汇总发送到用户邮箱
// @Summary 发送月度报告邮件
// @Tags 统计
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MonthlyReportRequest false "年月"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "邮件服务未启用或用户没有邮箱"
// @Failure 401 {object} Response "未授权"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/v1/reports/monthly/email [post]
func (h *ReportHandler) EmailMonthly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req MonthlyReportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			BadRequest(c, SafeErrorMessage(err, "参数错误"))
			return
		}
	}

	if h.mailer == nil || !h.mailer.Enabled() {
		BadRequest(c, "邮件服务未启用")
		return
	}

	var user models.User
	if !findUser(c, &user, userID) {
		return
	}
	if user.Email == "" {
		BadRequest(c, "当前用户没有邮箱地址")
		return
	}

	loc := config.Location()
	now := nowFunc().In(loc)
	year, month := now.Year(), now.Month()
	if req.Year != 0 {
		year = req.Year
	}
	if req.Month != 0 {
		month = time.Month(req.Month)
	}

	start, end := analytics.MonthWindow(year, month, loc)
	txs, err := loadTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	categories, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}

	summary := analytics.Monthly(txs, year, month, now, loc)
	report := service.NewMonthlyReport(&user, summary, categories)
	if err := h.mailer.SendMonthlyReport(user.Email, report); err != nil {
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, "发送成功", gin.H{"to": user.Email, "year": year, "month": int(month)})
}
