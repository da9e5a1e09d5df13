package api

import (
	"strconv"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionHandler 收支流水处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建流水处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// UpdateTransactionRequest 编辑流水请求，整体替换以下字段，周期标记不可编辑
type UpdateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"42.5"`
	Type        string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
	Date        int64   `json:"date" binding:"required,gt=0" example:"1767225600000"`
	Description string  `json:"description" binding:"max=255" example:"Lunch"`
	GoalID      *uint   `json:"goal_id" example:"3"`
}

// TransactionRequest 创建流水请求
type TransactionRequest struct {
	UpdateTransactionRequest
	IsRecurring        bool   `json:"is_recurring" example:"false"`
	RecurringFrequency string `json:"recurring_frequency" binding:"omitempty,oneof=weekly monthly yearly" example:"monthly"`
}

// SplitItem 拆分流水中的一行
type SplitItem struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"20"`
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
	Description string  `json:"description" binding:"max=255" example:"Groceries"`
}

// SplitRequest 拆分流水请求，同一组共享日期和类型
type SplitRequest struct {
	Type   string      `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Date   int64       `json:"date" binding:"required,gt=0" example:"1767225600000"`
	Splits []SplitItem `json:"splits" binding:"required,min=2,dive"`
}

// SplitResponse 拆分结果
type SplitResponse struct {
	SplitGroupID string               `json:"split_group_id"`
	Transactions []models.Transaction `json:"transactions"`
}

// Create 记一笔
// @Summary 创建流水
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "流水信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !checkCategory(c, userID, req.CategoryID) || !checkGoal(c, userID, req.GoalID) {
		return
	}

	tx := models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
		Description: req.Description,
		GoalID:      req.GoalID,
		IsRecurring: req.IsRecurring,
	}
	if req.IsRecurring {
		tx.RecurringFrequency = req.RecurringFrequency
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建流水失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", tx)
}

// CreateSplit 拆分记账
// @Summary 创建拆分流水
// @Description 至少两行，共享一个自动生成的分组ID。服务端不校验各行之和
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SplitRequest true "拆分信息"
// @Success 200 {object} Response{data=SplitResponse} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions/split [post]
func (h *TransactionHandler) CreateSplit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	ids := make([]uint, 0, len(req.Splits))
	seen := map[uint]bool{}
	for _, s := range req.Splits {
		if !seen[s.CategoryID] {
			seen[s.CategoryID] = true
			ids = append(ids, s.CategoryID)
		}
	}
	var owned int64
	if err := database.DB.Model(&models.Category{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&owned).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}
	if int(owned) != len(ids) {
		BadRequest(c, "分类不存在")
		return
	}

	groupID := uuid.NewString()
	rows := make([]models.Transaction, 0, len(req.Splits))
	for _, s := range req.Splits {
		gid := groupID
		rows = append(rows, models.Transaction{
			UserID:       userID,
			Amount:       s.Amount,
			Type:         req.Type,
			CategoryID:   s.CategoryID,
			Date:         req.Date,
			Description:  s.Description,
			SplitGroupID: &gid,
		})
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	}); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建拆分流水失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", SplitResponse{SplitGroupID: groupID, Transactions: rows})
}

// Get 获取单条流水
// @Summary 获取单条流水
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if userID == 0 {
		Success(c, nil)
		return
	}

	var tx models.Transaction
	if !findOwned(c, &tx, id, userID, "记录不存在") {
		return
	}
	Success(c, tx)
}

// Update 编辑流水
// @Summary 编辑流水
// @Description 整体替换金额、类型、分类、日期、描述和储蓄目标
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Param request body UpdateTransactionRequest true "流水信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var tx models.Transaction
	if !findOwned(c, &tx, id, userID, "记录不存在") {
		return
	}
	if !checkCategory(c, userID, req.CategoryID) || !checkGoal(c, userID, req.GoalID) {
		return
	}

	updates := map[string]interface{}{
		"amount":      req.Amount,
		"type":        req.Type,
		"category_id": req.CategoryID,
		"date":        req.Date,
		"description": req.Description,
		"goal_id":     req.GoalID,
	}
	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	tx.Amount = req.Amount
	tx.Type = req.Type
	tx.CategoryID = req.CategoryID
	tx.Date = req.Date
	tx.Description = req.Description
	tx.GoalID = req.GoalID
	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除流水
// @Summary 删除流水
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tx models.Transaction
	if !findOwned(c, &tx, id, userID, "记录不存在") {
		return
	}
	if err := database.DB.Delete(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// List 流水列表
// @Summary 获取流水列表
// @Description 可按类型和日期范围（毫秒时间戳，闭区间）筛选，按日期倒序
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param type query string false "income 或 expense"
// @Param start_date query int false "开始时间戳(ms)"
// @Param end_date query int false "结束时间戳(ms)"
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	txType := c.Query("type")
	if txType != "" && txType != models.TypeIncome && txType != models.TypeExpense {
		BadRequest(c, "type 只能是 income 或 expense")
		return
	}
	start, err := parseOptionalInt64(c, "start_date")
	if err != nil {
		BadRequest(c, "start_date 格式错误")
		return
	}
	end, err := parseOptionalInt64(c, "end_date")
	if err != nil {
		BadRequest(c, "end_date 格式错误")
		return
	}

	if userID == 0 {
		Success(c, []models.Transaction{})
		return
	}

	query := database.DB.Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	txs := []models.Transaction{}
	if err := query.Order("date DESC, id DESC").Find(&txs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, txs)
}

// Recent 最近流水
// @Summary 获取最近流水
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数，默认 10"
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Router /api/v1/transactions/recent [get]
func (h *TransactionHandler) Recent(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	limit := config.RecentLimit()
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			BadRequest(c, "limit 必须是正整数")
			return
		}
		limit = n
	}

	if userID == 0 {
		Success(c, []models.Transaction{})
		return
	}

	txs := []models.Transaction{}
	if err := database.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, txs)
}
