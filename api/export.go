package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/analytics"
	"fintrack/config"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportRow 导出的一行流水
type ExportRow struct {
	ID           uint    `json:"id"`
	Date         int64   `json:"date"`
	DateText     string  `json:"date_text"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Description  string  `json:"description"`
	SplitGroupID string  `json:"split_group_id,omitempty"`
}

// exportData 导出的公共数据
type exportData struct {
	start, end   int64
	rows         []ExportRow
	totalIncome  decimal.Decimal
	totalExpense decimal.Decimal
}

var exportHeaders = []string{"ID", "日期", "类型", "金额", "分类", "描述", "拆分组"}

// loadExportData 解析时间范围并加载流水
func loadExportData(c *gin.Context) (*exportData, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	start, err := parseOptionalInt64(c, "start_date")
	if err != nil {
		BadRequest(c, "start_date 格式错误")
		return nil, false
	}
	end, err := parseOptionalInt64(c, "end_date")
	if err != nil {
		BadRequest(c, "end_date 格式错误")
		return nil, false
	}

	data := &exportData{}
	if start != nil {
		data.start = *start
	}
	if end != nil {
		data.end = *end
	}
	if data.start > 0 && data.end > 0 && data.start > data.end {
		BadRequest(c, "开始时间不能晚于结束时间")
		return nil, false
	}

	categories, err := loadCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return nil, false
	}
	txs, err := loadTransactions(userID, data.start, data.end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, false
	}

	idx := analytics.IndexCategories(categories)
	loc := config.Location()
	data.rows = make([]ExportRow, 0, len(txs))
	for _, tx := range txs {
		name, _, _ := idx.Lookup(tx.CategoryID)
		row := ExportRow{
			ID:           tx.ID,
			Date:         tx.Date,
			DateText:     tx.Time(loc).Format("2006-01-02 15:04:05"),
			Type:         tx.Type,
			Amount:       tx.Amount,
			CategoryID:   tx.CategoryID,
			CategoryName: name,
			Description:  tx.Description,
		}
		if tx.SplitGroupID != nil {
			row.SplitGroupID = *tx.SplitGroupID
		}
		data.rows = append(data.rows, row)

		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == models.TypeIncome {
			data.totalIncome = data.totalIncome.Add(amount)
		} else {
			data.totalExpense = data.totalExpense.Add(amount)
		}
	}
	return data, true
}

// filename 导出文件名，未指定范围的一端用 all 表示
func (d *exportData) filename(ext string) string {
	part := func(ms int64) string {
		if ms <= 0 {
			return "all"
		}
		return time.UnixMilli(ms).In(config.Location()).Format("20060102")
	}
	return fmt.Sprintf("transactions_%s_%s.%s", part(d.start), part(d.end), ext)
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (r ExportRow) record() []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.DateText,
		r.Type,
		formatAmount(r.Amount),
		r.CategoryName,
		r.Description,
		r.SplitGroupID,
	}
}

// ExportCSV 导出流水为 CSV
// @Summary 导出 CSV
// @Description 按时间范围（毫秒时间戳，可省略）导出流水
// @Tags 导入导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query int false "开始时间戳(ms)"
// @Param end_date query int false "结束时间戳(ms)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, ok := loadExportData(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for _, row := range data.rows {
		if err := writer.Write(row.record()); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", data.filename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出流水为 Excel
// @Summary 导出 Excel
// @Description 按时间范围导出流水，末尾附收入、支出合计
// @Tags 导入导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query int false "开始时间戳(ms)"
// @Param end_date query int false "结束时间戳(ms)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	data, ok := loadExportData(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(data)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", data.filename("xlsx")))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}

func buildWorkbook(data *exportData) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := "流水"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border,
	})

	widths := map[string]float64{"A": 8, "B": 20, "C": 10, "D": 12, "E": 18, "F": 30, "G": 38}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range data.rows {
		r := i + 2
		amount, _ := decimal.NewFromFloat(row.Amount).Round(2).Float64()
		values := []interface{}{row.ID, row.DateText, row.Type, amount, row.CategoryName, row.Description, row.SplitGroupID}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			f.SetCellValue(sheet, cell, v)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("G%d", r), dataStyle)
	}

	// 汇总行
	sr := len(data.rows) + 2
	income, _ := data.totalIncome.Round(2).Float64()
	expense, _ := data.totalExpense.Round(2).Float64()
	f.SetCellValue(sheet, fmt.Sprintf("A%d", sr), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", sr), "收入")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", sr), income)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", sr), "支出")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", sr), expense)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", sr), fmt.Sprintf("共 %d 条记录", len(data.rows)))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", sr), fmt.Sprintf("G%d", sr), summaryStyle)

	return f, nil
}

// ExportJSON 导出流水为 JSON
// @Summary 导出 JSON
// @Tags 导入导出
// @Produce json
// @Security BearerAuth
// @Param start_date query int false "开始时间戳(ms)"
// @Param end_date query int false "结束时间戳(ms)"
// @Success 200 {object} Response "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	data, ok := loadExportData(c)
	if !ok {
		return
	}

	Success(c, gin.H{
		"start_date":    data.start,
		"end_date":      data.end,
		"total_count":   len(data.rows),
		"total_income":  data.totalIncome.StringFixed(2),
		"total_expense": data.totalExpense.StringFixed(2),
		"transactions":  data.rows,
	})
}
