package api

import (
	"strconv"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/middleware"

	"github.com/gin-gonic/gin"
)

// maxTrendMonths 趋势图最多回溯的月份数
const maxTrendMonths = 120

// AnalyticsHandler 趋势分析处理器
type AnalyticsHandler struct{}

// NewAnalyticsHandler 创建趋势分析处理器
func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

// Trend 收支趋势和分类占比
// @Summary 收支趋势
// @Description 返回截至本月的连续月度收支序列，以及窗口内收入、支出的分类占比（按金额倒序）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param months query int false "回溯月数，默认 6，最大 120"
// @Success 200 {object} Response{data=analytics.AnalyticsData} "获取成功"
// @Router /api/v1/analytics [get]
func (h *AnalyticsHandler) Trend(c *gin.Context) {
	months := config.TrendMonths()
	if s := c.Query("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			BadRequest(c, "months 必须是整数")
			return
		}
		if n > 0 {
			months = n
		}
	}
	if months > maxTrendMonths {
		months = maxTrendMonths
	}

	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, nil)
		return
	}

	loc := config.Location()
	now := nowFunc()

	categories, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}
	local := now.In(loc)
	_, end := analytics.MonthWindow(local.Year(), local.Month(), loc)
	txs, err := loadTransactions(userID, analytics.TrendStart(months, now, loc), end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, analytics.Trend(txs, categories, months, now, loc))
}
