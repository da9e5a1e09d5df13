package api

import (
	"strings"

	"fintrack/analytics"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler 储蓄目标处理器
type GoalHandler struct{}

// NewGoalHandler 创建储蓄目标处理器
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// GoalRequest 创建/更新储蓄目标请求
type GoalRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100" example:"Emergency fund"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0" example:"10000"`
	TargetDate   int64   `json:"target_date" binding:"required,gt=0" example:"1798761600000"`
	Description  string  `json:"description" binding:"max=255" example:"Six months of expenses"`
}

// Create 新建储蓄目标
// @Summary 新建储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.SavingsGoal} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	goal := models.SavingsGoal{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
		Description:  req.Description,
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", goal)
}

// Update 更新储蓄目标
// @Summary 更新储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.SavingsGoal} "更新成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var goal models.SavingsGoal
	if !findOwned(c, &goal, id, userID, "储蓄目标不存在") {
		return
	}

	goal.Name = strings.TrimSpace(req.Name)
	goal.TargetAmount = req.TargetAmount
	goal.TargetDate = req.TargetDate
	goal.Description = req.Description
	if err := database.DB.Model(&goal).Updates(map[string]interface{}{
		"name":          goal.Name,
		"target_amount": goal.TargetAmount,
		"target_date":   goal.TargetDate,
		"description":   goal.Description,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", goal)
}

// Delete 删除储蓄目标，关联流水保留但解除关联
// @Summary 删除储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var goal models.SavingsGoal
	if !findOwned(c, &goal, id, userID, "储蓄目标不存在") {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND goal_id = ?", userID, goal.ID).
			Update("goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&goal).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// List 储蓄目标及进度
// @Summary 储蓄目标列表
// @Description 当前金额为关联流水之和；percentage 截断到 0-100，is_completed 按未截断的比例判断
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]analytics.GoalProgress} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, []analytics.GoalProgress{})
		return
	}

	var goals []models.SavingsGoal
	if err := database.DB.Where("user_id = ?", userID).Order("target_date ASC, id ASC").Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var linked []models.Transaction
	if len(goals) > 0 {
		if err := database.DB.Where("user_id = ? AND goal_id IS NOT NULL", userID).Find(&linked).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "查询失败"))
			return
		}
	}

	Success(c, analytics.GoalsWithProgress(goals, linked, nowFunc()))
}
