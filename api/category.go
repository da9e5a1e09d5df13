package api

import (
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别处理器
type CategoryHandler struct{}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryCreateRequest 创建类别请求
type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Coffee"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Icon  string `json:"icon" binding:"omitempty,max=50" example:"Coffee"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#a16207"`
}

// CategoryUpdateRequest 更新类别请求
type CategoryUpdateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Coffee"`
	Icon  string `json:"icon" binding:"omitempty,max=50" example:"Coffee"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#a16207"`
}

// List 获取当前用户的类别
// @Summary 获取类别列表
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, []models.Category{})
		return
	}

	list, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	cat := models.Category{
		UserID: &userID,
		Name:   req.Name,
		Type:   req.Type,
		Icon:   defaultString(req.Icon, "Circle"),
		Color:  defaultString(req.Color, "#71717a"),
	}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// SeedDefaults 初始化默认类别
// @Summary 初始化默认类别
// @Description 用户还没有任何类别时写入 19 个默认类别，已有类别时不做任何事
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "成功，data.created 为写入数量"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories/seed [post]
func (h *CategoryHandler) SeedDefaults(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var count int64
	if err := database.DB.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if count > 0 {
		SuccessWithMessage(c, "类别已存在", gin.H{"created": 0})
		return
	}

	cats := models.NewDefaultCategories(userID)
	if err := database.DB.Create(&cats).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "初始化类别失败"))
		return
	}
	SuccessWithMessage(c, "初始化成功", gin.H{"created": len(cats)})
}

// Update 更新类别
// @Summary 更新类别
// @Description 只允许修改名称、图标和颜色
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	var cat models.Category
	if !findOwned(c, &cat, id, userID, "类别不存在") {
		return
	}

	cat.Name = req.Name
	cat.Icon = defaultString(req.Icon, cat.Icon)
	cat.Color = defaultString(req.Color, cat.Color)
	updates := map[string]interface{}{
		"name":  cat.Name,
		"icon":  cat.Icon,
		"color": cat.Color,
	}
	if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 仍被交易或预算引用的类别不能删除
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "类别仍被引用"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var cat models.Category
	if !findOwned(c, &cat, id, userID, "类别不存在") {
		return
	}

	var txCount int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("category_id = ? AND user_id = ?", id, userID).
		Count(&txCount).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if txCount > 0 {
		BadRequest(c, "该类别下仍有交易记录，无法删除")
		return
	}

	var budgetCount int64
	if err := database.DB.Model(&models.Budget{}).
		Where("category_id = ? AND user_id = ?", id, userID).
		Count(&budgetCount).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if budgetCount > 0 {
		BadRequest(c, "该类别下仍有预算，无法删除")
		return
	}

	if err := database.DB.Delete(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
