package analytics

import (
	"sort"
	"time"

	"fintrack/models"
)

// 分类被删除或不存在时使用的展示信息
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#71717a"
	UnknownCategoryIcon  = "Circle"
)

// TrendPoint 趋势图中的一个月
type TrendPoint struct {
	Month      string  `json:"month"`
	MonthLabel string  `json:"month_label"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Balance    float64 `json:"balance"`
}

// CategoryBreakdown 分类占比
type CategoryBreakdown struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Icon       string  `json:"icon"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
}

// AnalyticsData 趋势分析结果
type AnalyticsData struct {
	MonthlyTrend      []TrendPoint        `json:"monthly_trend"`
	ExpenseByCategory []CategoryBreakdown `json:"expense_by_category"`
	IncomeByCategory  []CategoryBreakdown `json:"income_by_category"`
	TotalIncome       float64             `json:"total_income"`
	TotalExpense      float64             `json:"total_expense"`
	TotalTransactions int                 `json:"total_transactions"`
}

// CategoryIndex 按 ID 索引分类
type CategoryIndex map[uint]models.Category

// IndexCategories 构建分类索引
func IndexCategories(categories []models.Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// Lookup 返回分类的名称、颜色和图标，找不到时返回 Unknown 占位
func (idx CategoryIndex) Lookup(id uint) (name, color, icon string) {
	c, ok := idx[id]
	if !ok {
		return UnknownCategoryName, UnknownCategoryColor, UnknownCategoryIcon
	}
	return c.Name, c.Color, c.Icon
}

// TrendStart 趋势窗口的起点：当前月往前 months-1 个月的第一天
func TrendStart(months int, now time.Time, loc *time.Location) int64 {
	if months <= 0 {
		months = 1
	}
	today := now.In(loc)
	first := time.Date(today.Year(), today.Month()-time.Month(months-1), 1, 0, 0, 0, 0, loc)
	return first.UnixMilli()
}

// Trend 生成最近 months 个月的收支趋势和分类占比。
// txs 应当已经限定在 TrendStart 之后，窗口外的月份不计入趋势，但仍计入分类和总数
func Trend(txs []models.Transaction, categories []models.Category, months int, now time.Time, loc *time.Location) AnalyticsData {
	if months <= 0 {
		months = 1
	}
	today := now.In(loc)

	points := make([]TrendPoint, months)
	slot := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := time.Date(today.Year(), today.Month()-time.Month(months-1-i), 1, 0, 0, 0, 0, loc)
		key := m.Format(models.MonthLayout)
		points[i] = TrendPoint{Month: key, MonthLabel: m.Format("Jan 06")}
		slot[key] = i
	}

	idx := IndexCategories(categories)
	expense := map[uint]*CategoryBreakdown{}
	income := map[uint]*CategoryBreakdown{}

	data := AnalyticsData{}
	for i := range txs {
		tx := &txs[i]
		data.TotalTransactions++

		if n, ok := slot[MonthKey(tx.Date, loc)]; ok {
			if tx.Type == models.TypeIncome {
				points[n].Income += tx.Amount
			} else {
				points[n].Expense += tx.Amount
			}
		}

		group := expense
		if tx.Type == models.TypeIncome {
			data.TotalIncome += tx.Amount
			group = income
		} else {
			data.TotalExpense += tx.Amount
		}

		b, ok := group[tx.CategoryID]
		if !ok {
			name, color, icon := idx.Lookup(tx.CategoryID)
			b = &CategoryBreakdown{CategoryID: tx.CategoryID, Name: name, Color: color, Icon: icon}
			group[tx.CategoryID] = b
		}
		b.Amount += tx.Amount
		b.Count++
	}

	for i := range points {
		points[i].Balance = points[i].Income - points[i].Expense
	}

	data.MonthlyTrend = points
	data.ExpenseByCategory = sortedBreakdown(expense)
	data.IncomeByCategory = sortedBreakdown(income)
	return data
}

func sortedBreakdown(m map[uint]*CategoryBreakdown) []CategoryBreakdown {
	out := make([]CategoryBreakdown, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
