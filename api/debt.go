package api

import (
	"errors"
	"io"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DebtHandler 债务处理器
type DebtHandler struct{}

// NewDebtHandler 创建债务处理器
func NewDebtHandler() *DebtHandler {
	return &DebtHandler{}
}

// DebtCreateRequest 新增债务请求
type DebtCreateRequest struct {
	Type        string  `json:"type" binding:"required,oneof=lent borrowed" example:"lent"`
	PersonName  string  `json:"person_name" binding:"required,min=1,max=100" example:"Bob"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"200"`
	Description string  `json:"description" binding:"max=255" example:"Concert tickets"`
	DueDate     *int64  `json:"due_date" example:"1767225600000"`
}

// DebtUpdateRequest 更新债务请求，方向不可修改
type DebtUpdateRequest struct {
	PersonName  string  `json:"person_name" binding:"required,min=1,max=100" example:"Bob"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"200"`
	Description string  `json:"description" binding:"max=255" example:"Concert tickets"`
	DueDate     *int64  `json:"due_date" example:"1767225600000"`
}

// SettleRequest 结清请求
type SettleRequest struct {
	RecordAsTransaction bool  `json:"record_as_transaction" example:"true"`
	CategoryID          *uint `json:"category_id" example:"19"`
}

// SettleResponse 结清结果，Transaction 为本次生成的流水，未生成时为 null
type SettleResponse struct {
	Debt        models.Debt         `json:"debt"`
	Transaction *models.Transaction `json:"transaction"`
}

// Create 新增债务
// @Summary 新增债务
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DebtCreateRequest true "债务信息"
// @Success 200 {object} Response{data=models.Debt} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req DebtCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	debt := models.Debt{
		UserID:      userID,
		Type:        req.Type,
		PersonName:  strings.TrimSpace(req.PersonName),
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := database.DB.Create(&debt).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", debt)
}

// Update 更新债务
// @Summary 更新债务
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Param request body DebtUpdateRequest true "债务信息"
// @Success 200 {object} Response{data=models.Debt} "更新成功"
// @Failure 404 {object} Response "债务不存在"
// @Router /api/v1/debts/{id} [put]
func (h *DebtHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req DebtUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var debt models.Debt
	if !findOwned(c, &debt, id, userID, "债务不存在") {
		return
	}

	debt.PersonName = strings.TrimSpace(req.PersonName)
	debt.Amount = req.Amount
	debt.Description = req.Description
	debt.DueDate = req.DueDate
	if err := database.DB.Model(&debt).Updates(map[string]interface{}{
		"person_name": debt.PersonName,
		"amount":      debt.Amount,
		"description": debt.Description,
		"due_date":    debt.DueDate,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", debt)
}

// Delete 删除债务
// @Summary 删除债务
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "债务不存在"
// @Router /api/v1/debts/{id} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var debt models.Debt
	if !findOwned(c, &debt, id, userID, "债务不存在") {
		return
	}
	if err := database.DB.Delete(&debt).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Settle 结清债务
// @Summary 结清债务
// @Description 标记为已结清；record_as_transaction 为 true 时生成一笔流水：借出记收入，借入记支出。
// @Description 未指定分类时依次使用 Other Income/Other Expense、同类型任一分类，都没有则不生成流水
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Param request body SettleRequest false "结清选项"
// @Success 200 {object} Response{data=SettleResponse} "结清成功"
// @Failure 400 {object} Response "分类不存在"
// @Failure 404 {object} Response "债务不存在"
// @Router /api/v1/debts/{id}/settle [post]
func (h *DebtHandler) Settle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SettleRequest
	// 请求体可省略，等同于只标记结清
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			BadRequest(c, SafeErrorMessage(err, "参数错误"))
			return
		}
	}

	var debt models.Debt
	if !findOwned(c, &debt, id, userID, "债务不存在") {
		return
	}
	if req.RecordAsTransaction && req.CategoryID != nil &&
		!checkCategoryType(c, userID, *req.CategoryID, debt.SettlementType()) {
		return
	}

	now := nowFunc().UnixMilli()
	var created *models.Transaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&debt).Updates(map[string]interface{}{
			"is_completed":   true,
			"completed_date": now,
		}).Error; err != nil {
			return err
		}
		debt.IsCompleted = true
		debt.CompletedDate = &now

		if !req.RecordAsTransaction {
			return nil
		}

		txType := debt.SettlementType()
		categoryID, err := settlementCategory(tx, userID, txType, req.CategoryID)
		if err != nil {
			return err
		}
		if categoryID == 0 {
			return nil
		}

		record := models.Transaction{
			UserID:      userID,
			Amount:      debt.Amount,
			Type:        txType,
			CategoryID:  categoryID,
			Date:        now,
			Description: debt.SettlementDescription(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		created = &record
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "结清失败"))
		return
	}
	SuccessWithMessage(c, "结清成功", SettleResponse{Debt: debt, Transaction: created})
}

// settlementCategory 选择结清流水的分类，返回 0 表示没有可用分类
func settlementCategory(tx *gorm.DB, userID uint, txType string, requested *uint) (uint, error) {
	if requested != nil {
		return *requested, nil
	}

	var cat models.Category
	err := tx.Where("user_id = ? AND type = ? AND name = ?", userID, txType, models.OtherCategoryName(txType)).
		First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	err = tx.Where("user_id = ? AND type = ?", userID, txType).Order("id ASC").First(&cat).Error
	if err == nil {
		return cat.ID, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return 0, err
}

// Undo 撤销结清，只清除完成状态，不删除已生成的流水
// @Summary 撤销结清
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Success 200 {object} Response{data=models.Debt} "撤销成功"
// @Failure 404 {object} Response "债务不存在"
// @Router /api/v1/debts/{id}/undo [post]
func (h *DebtHandler) Undo(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var debt models.Debt
	if !findOwned(c, &debt, id, userID, "债务不存在") {
		return
	}
	if err := database.DB.Model(&debt).Updates(map[string]interface{}{
		"is_completed":   false,
		"completed_date": nil,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "撤销失败"))
		return
	}
	debt.IsCompleted = false
	debt.CompletedDate = nil
	SuccessWithMessage(c, "撤销成功", debt)
}

// List 债务列表
// @Summary 债务列表
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Debt} "获取成功"
// @Router /api/v1/debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	debts := []models.Debt{}
	if userID == 0 {
		Success(c, debts)
		return
	}

	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&debts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, debts)
}
