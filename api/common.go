package api

import (
	"errors"
	"strconv"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// nowFunc 当前时间，测试中可替换
var nowFunc = time.Now

// requireUser 写操作要求调用方已注册，否则返回 401
func requireUser(c *gin.Context) (uint, bool) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Unauthorized(c, "未登录或用户未注册")
		return 0, false
	}
	return userID, true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parseOptionalInt64 解析可选的整数查询参数，参数为空时返回 nil
func parseOptionalInt64(c *gin.Context, key string) (*int64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// findOwned 按ID查找属于当前用户的记录
// 记录不存在时返回 404 并返回 false
func findOwned(c *gin.Context, dest interface{}, id, userID uint, notFoundMsg string) bool {
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(dest).Error; err != nil {
		QueryError(c, err, notFoundMsg, "查询失败")
		return false
	}
	return true
}

// checkCategory 校验分类属于当前用户
func checkCategory(c *gin.Context, userID, categoryID uint) bool {
	var count int64
	if err := database.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return false
	}
	if count == 0 {
		BadRequest(c, "分类不存在")
		return false
	}
	return true
}

// checkCategoryType 校验分类属于当前用户且类型与流水类型一致
func checkCategoryType(c *gin.Context, userID, categoryID uint, txType string) bool {
	var category models.Category
	err := database.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		BadRequest(c, "分类不存在")
		return false
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return false
	}
	if category.Type != txType {
		BadRequest(c, "分类类型与流水类型不一致")
		return false
	}
	return true
}

// checkGoal 校验储蓄目标属于当前用户，goalID 为空时跳过
func checkGoal(c *gin.Context, userID uint, goalID *uint) bool {
	if goalID == nil {
		return true
	}
	var count int64
	if err := database.DB.Model(&models.SavingsGoal{}).
		Where("id = ? AND user_id = ?", *goalID, userID).
		Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询储蓄目标失败"))
		return false
	}
	if count == 0 {
		BadRequest(c, "储蓄目标不存在")
		return false
	}
	return true
}

func loadCategories(userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&categories).Error
	return categories, err
}

// loadTransactions 加载用户在 [start, end] 内的流水，start/end 为 0 表示不限
func loadTransactions(userID uint, start, end int64) ([]models.Transaction, error) {
	query := database.DB.Where("user_id = ?", userID)
	if start > 0 {
		query = query.Where("date >= ?", start)
	}
	if end > 0 {
		query = query.Where("date <= ?", end)
	}
	var txs []models.Transaction
	err := query.Order("date DESC, id DESC").Find(&txs).Error
	return txs, err
}
