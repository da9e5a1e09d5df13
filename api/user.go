package api

import (
	"errors"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 用户处理器
type UserHandler struct{}

// NewUserHandler 创建用户处理器
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name     string  `json:"name" binding:"required,max=100" example:"Alice"`
	Country  string  `json:"country" binding:"required,max=64" example:"CN"`
	Currency string  `json:"currency" binding:"required,max=8" example:"CNY"`
	Theme    *string `json:"theme" binding:"omitempty,oneof=light dark system" example:"dark"`
}

// Store 注册或同步当前用户
// @Summary 注册/同步当前用户
// @Description 根据令牌标识查找用户，不存在则创建；已存在时同步令牌中变化的姓名、邮箱和头像
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "成功"
// @Failure 401 {object} Response "未认证"
// @Router /api/v1/users/me [post]
func (h *UserHandler) Store(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		Unauthorized(c, "未认证")
		return
	}

	var user models.User
	err := database.DB.Where("token_identifier = ?", claims.TokenIdentifier()).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}

	if err == nil {
		updates := map[string]interface{}{}
		if claims.Name != "" && user.Name != claims.Name {
			user.Name = claims.Name
			updates["name"] = claims.Name
		}
		if claims.Email != "" && user.Email != claims.Email {
			user.Email = claims.Email
			updates["email"] = claims.Email
		}
		if claims.Picture != "" && user.PhotoURL != claims.Picture {
			user.PhotoURL = claims.Picture
			updates["photo_url"] = claims.Picture
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
				InternalError(c, SafeErrorMessage(err, "更新用户失败"))
				return
			}
		}
		Success(c, user)
		return
	}

	// 新用户，国家和币种在引导流程中填写
	user = models.User{
		TokenIdentifier: claims.TokenIdentifier(),
		Name:            claims.Name,
		Email:           claims.Email,
		PhotoURL:        claims.Picture,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", user)
}

// Current 获取当前用户
// @Summary 获取当前用户
// @Description 未认证或尚未注册时 data 为 null
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "成功"
// @Router /api/v1/users/me [get]
func (h *UserHandler) Current(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Success(c, nil)
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Success(c, nil)
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}
	Success(c, user)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Description 更新姓名、国家、币种，可选主题
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "资料"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var user models.User
	if !findUser(c, &user, userID) {
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Country = strings.TrimSpace(req.Country)
	user.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	updates := map[string]interface{}{
		"name":     user.Name,
		"country":  user.Country,
		"currency": user.Currency,
	}
	// 未传 theme 时保留原值
	if req.Theme != nil {
		user.Theme = *req.Theme
		updates["theme"] = user.Theme
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", user)
}

func findUser(c *gin.Context, user *models.User, userID uint) bool {
	if err := database.DB.First(user, userID).Error; err != nil {
		QueryError(c, err, "用户不存在", "查询用户失败")
		return false
	}
	return true
}
