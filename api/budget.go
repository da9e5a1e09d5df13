package api

import (
	"errors"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler 预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// BudgetRequest 新增预算请求
type BudgetRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
	Month       string  `json:"month" binding:"required" example:"2026-01"`
	Amount      float64 `json:"amount" binding:"gte=0" example:"500"`
	IsRecurring bool    `json:"is_recurring" example:"true"`
}

// BudgetUpdateRequest 更新预算请求
type BudgetUpdateRequest struct {
	Amount      float64 `json:"amount" binding:"gte=0" example:"600"`
	IsRecurring bool    `json:"is_recurring" example:"false"`
}

// Upsert 新增预算，同一类别同一月份已存在时更新金额和循环标记
// @Summary 新增或更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Upsert(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if _, ok := models.ParseMonth(req.Month); !ok {
		BadRequest(c, "月份格式错误，应为 YYYY-MM")
		return
	}
	if !checkCategory(c, userID, req.CategoryID) {
		return
	}

	var budget models.Budget
	err := database.DB.Where("user_id = ? AND category_id = ? AND month = ?", userID, req.CategoryID, req.Month).
		First(&budget).Error
	switch {
	case err == nil:
		budget.Amount = req.Amount
		budget.IsRecurring = req.IsRecurring
		if err := database.DB.Model(&budget).Updates(map[string]interface{}{
			"amount":       req.Amount,
			"is_recurring": req.IsRecurring,
		}).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新预算失败"))
			return
		}
		SuccessWithMessage(c, "更新成功", budget)
	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = models.Budget{
			UserID:      userID,
			CategoryID:  req.CategoryID,
			Month:       req.Month,
			Amount:      req.Amount,
			IsRecurring: req.IsRecurring,
		}
		if err := database.DB.Create(&budget).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "创建预算失败"))
			return
		}
		SuccessWithMessage(c, "创建成功", budget)
	default:
		InternalError(c, SafeErrorMessage(err, "查询预算失败"))
	}
}

// Update 更新预算
// @Summary 更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body BudgetUpdateRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "更新成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req BudgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var budget models.Budget
	if !findOwned(c, &budget, id, userID, "预算不存在") {
		return
	}
	budget.Amount = req.Amount
	budget.IsRecurring = req.IsRecurring
	if err := database.DB.Model(&budget).Updates(map[string]interface{}{
		"amount":       req.Amount,
		"is_recurring": req.IsRecurring,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Description 目标为循环预算且 delete_all_future=true 时，同时删除该类别之后所有月份的预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param delete_all_future query bool false "是否删除之后月份"
// @Success 200 {object} Response "删除成功，data.deleted 为删除条数"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleteAllFuture := c.Query("delete_all_future") == "true"

	var budget models.Budget
	if !findOwned(c, &budget, id, userID, "预算不存在") {
		return
	}

	var deleted int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&budget).Error; err != nil {
			return err
		}
		deleted = 1

		if budget.IsRecurring && deleteAllFuture {
			res := tx.Where("user_id = ? AND category_id = ? AND month > ?", userID, budget.CategoryID, budget.Month).
				Delete(&models.Budget{})
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", gin.H{"deleted": deleted})
}

// List 某月预算及花费
// @Summary 预算执行情况
// @Description 该月没有显式预算时，使用各类别更早的最新循环预算作为虚拟预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 YYYY-MM，默认本月"
// @Success 200 {object} Response{data=[]analytics.BudgetSpending} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	loc := config.Location()
	month := c.Query("month")
	if month == "" {
		month = models.FormatMonth(nowFunc().In(loc))
	}
	m, ok := models.ParseMonth(month)
	if !ok {
		BadRequest(c, "月份格式错误，应为 YYYY-MM")
		return
	}

	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, []analytics.BudgetSpending{})
		return
	}

	var budgets []models.Budget
	if err := database.DB.Where("user_id = ? AND month <= ?", userID, month).
		Order("month ASC, id ASC").
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询预算失败"))
		return
	}
	categories, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}
	start, end := analytics.MonthWindow(m.Year(), m.Month(), loc)
	txs, err := loadTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, analytics.BudgetsWithSpending(budgets, txs, categories, month, loc))
}
