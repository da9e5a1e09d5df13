package api

import (
	"strconv"
	"time"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/middleware"

	"github.com/gin-gonic/gin"
)

// SummaryHandler 收支汇总处理器
type SummaryHandler struct{}

// NewSummaryHandler 创建汇总处理器
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// Monthly 月度汇总
// @Summary 月度汇总
// @Description 统计某月的收入、支出、结余、储蓄率、日均支出和各分类支出。未注册用户返回 null
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认今年"
// @Param month query int false "月份 1-12，默认本月"
// @Success 200 {object} Response{data=analytics.MonthlySummary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/summary/monthly [get]
func (h *SummaryHandler) Monthly(c *gin.Context) {
	loc := config.Location()
	now := nowFunc().In(loc)

	year, ok := queryYear(c, now)
	if !ok {
		return
	}
	month := int(now.Month())
	if s := c.Query("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			BadRequest(c, "month 必须在 1-12 之间")
			return
		}
		month = m
	}

	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, nil)
		return
	}

	start, end := analytics.MonthWindow(year, time.Month(month), loc)
	txs, err := loadTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, analytics.Monthly(txs, year, time.Month(month), now, loc))
}

// Yearly 年度汇总
// @Summary 年度汇总
// @Description 统计某年收支，并按 12 个月分桶。未注册用户返回 null
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认今年"
// @Success 200 {object} Response{data=analytics.YearlySummary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/summary/yearly [get]
func (h *SummaryHandler) Yearly(c *gin.Context) {
	loc := config.Location()
	now := nowFunc().In(loc)

	year, ok := queryYear(c, now)
	if !ok {
		return
	}

	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, nil)
		return
	}

	start, end := analytics.YearWindow(year, loc)
	txs, err := loadTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, analytics.Yearly(txs, year, loc))
}

// AllTime 全部时间汇总
// @Summary 全部时间汇总
// @Description 不限时间的收支汇总，包含最早流水时间和按年统计。未注册用户返回 null
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=analytics.AllTimeSummary} "获取成功"
// @Router /api/v1/summary/all-time [get]
func (h *SummaryHandler) AllTime(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, nil)
		return
	}

	txs, err := loadTransactions(userID, 0, 0)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, analytics.AllTime(txs, config.Location()))
}

func queryYear(c *gin.Context, now time.Time) (int, bool) {
	s := c.Query("year")
	if s == "" {
		return now.Year(), true
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1970 || y > 9999 {
		BadRequest(c, "year 格式错误")
		return 0, false
	}
	return y, true
}
