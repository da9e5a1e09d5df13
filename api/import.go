package api

import (
	"fmt"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// importDateLayouts 导入支持的日期格式，无时区的按配置时区解析
var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ImportHandler 批量导入处理器
type ImportHandler struct{}

// NewImportHandler 创建批量导入处理器
func NewImportHandler() *ImportHandler {
	return &ImportHandler{}
}

// ImportRow 一条待导入的流水
type ImportRow struct {
	Amount       float64 `json:"amount" binding:"required,gt=0" example:"12.5"`
	Date         string  `json:"date" binding:"required" example:"2026-01-15"`
	Description  string  `json:"description" binding:"max=255" example:"Coffee"`
	Type         string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryName string  `json:"category_name" example:"Food & Dining"`
}

// ImportRequest 批量导入请求
type ImportRequest struct {
	Transactions []ImportRow `json:"transactions" binding:"required,dive"`
}

// ImportResponse 导入结果
type ImportResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Skipped int  `json:"skipped"`
}

// Import 批量导入流水
// @Summary 批量导入流水
// @Description 按名称（不区分大小写）匹配分类，匹配不到时使用 Other Income/Other Expense；仍无法匹配或日期无法解析的行被跳过
// @Tags 导入导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImportRequest true "导入数据"
// @Success 200 {object} Response{data=ImportResponse} "导入完成"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/v1/transactions/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if limit := config.ImportMaxRows(); len(req.Transactions) > limit {
		BadRequest(c, fmt.Sprintf("单次最多导入 %d 条", limit))
		return
	}

	categories, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}

	rows, skipped := BuildImportRows(userID, req.Transactions, categories, config.Location())
	if len(rows) > 0 {
		if err := database.DB.Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&rows, 500).Error
		}); err != nil {
			InternalError(c, SafeErrorMessage(err, "导入失败"))
			return
		}
	}

	SuccessWithMessage(c, "导入完成", ImportResponse{Success: true, Count: len(rows), Skipped: skipped})
}

// BuildImportRows 把导入数据转换为流水，返回可写入的流水和跳过的行数
func BuildImportRows(userID uint, input []ImportRow, categories []models.Category, loc *time.Location) ([]models.Transaction, int) {
	byName := make(map[string]uint, len(categories))
	exact := make(map[string]uint, 2)
	for _, cat := range categories {
		key := strings.ToLower(cat.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = cat.ID
		}
		if cat.Name == models.CategoryOtherIncome || cat.Name == models.CategoryOtherExpense {
			if _, ok := exact[cat.Name]; !ok {
				exact[cat.Name] = cat.ID
			}
		}
	}

	rows := make([]models.Transaction, 0, len(input))
	skipped := 0
	for _, in := range input {
		categoryID, ok := byName[strings.ToLower(strings.TrimSpace(in.CategoryName))]
		if !ok {
			categoryID, ok = exact[models.OtherCategoryName(in.Type)]
		}
		if !ok {
			skipped++
			continue
		}

		date, ok := ParseImportDate(in.Date, loc)
		if !ok {
			skipped++
			continue
		}

		rows = append(rows, models.Transaction{
			UserID:      userID,
			Amount:      in.Amount,
			Type:        in.Type,
			CategoryID:  categoryID,
			Date:        date.UnixMilli(),
			Description: in.Description,
		})
	}
	return rows, skipped
}

// ParseImportDate 解析导入的日期字符串
func ParseImportDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
