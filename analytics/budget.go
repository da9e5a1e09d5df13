package analytics

import (
	"sort"
	"time"

	"fintrack/models"
)

// 预算状态
const (
	StatusSafe     = "safe"
	StatusWarning  = "warning"
	StatusExceeded = "exceeded"
)

// BudgetSpending 预算执行情况
type BudgetSpending struct {
	ID            uint    `json:"id"`
	CategoryID    uint    `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	CategoryColor string  `json:"category_color"`
	CategoryIcon  string  `json:"category_icon"`
	Month         string  `json:"month"`
	BudgetAmount  float64 `json:"budget_amount"`
	Spent         float64 `json:"spent"`
	Percentage    float64 `json:"percentage"`
	IsRecurring   bool    `json:"is_recurring"`
	IsVirtual     bool    `json:"is_virtual"`
	Status        string  `json:"status"`
}

// BudgetPercentage 已花费占预算的百分比，预算为 0 时返回 0
func BudgetPercentage(spent, amount float64) float64 {
	if amount > 0 {
		return spent / amount * 100
	}
	return 0
}

// BudgetStatus 根据百分比判断预算状态
func BudgetStatus(pct float64) string {
	switch {
	case pct >= 100:
		return StatusExceeded
	case pct >= 75:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// EffectiveBudgets 返回某月生效的预算。
// 该月有显式预算时只用显式预算；否则每个分类取月份早于 month 的最新一条循环预算，
// 投射为该月的虚拟预算（virtual 为 true，不落库）
func EffectiveBudgets(all []models.Budget, month string) (budgets []models.Budget, virtual bool) {
	for _, b := range all {
		if b.Month == month {
			budgets = append(budgets, b)
		}
	}
	if len(budgets) > 0 {
		return budgets, false
	}

	latest := map[uint]models.Budget{}
	for _, b := range all {
		if !b.IsRecurring || b.Month >= month {
			continue
		}
		if cur, ok := latest[b.CategoryID]; !ok || b.Month > cur.Month {
			latest[b.CategoryID] = b
		}
	}
	for _, b := range latest {
		b.Month = month
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].CategoryID < budgets[j].CategoryID })
	return budgets, len(budgets) > 0
}

// BudgetsWithSpending 计算某月每个预算的花费和状态。
// all 为用户全部预算，txs 为用户流水，只统计该月的支出
func BudgetsWithSpending(all []models.Budget, txs []models.Transaction, categories []models.Category, month string, loc *time.Location) []BudgetSpending {
	out := []BudgetSpending{}

	m, ok := models.ParseMonth(month)
	if !ok {
		return out
	}
	start, end := MonthWindow(m.Year(), m.Month(), loc)

	spent := map[uint]float64{}
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TypeExpense || !inWindow(tx.Date, start, end) {
			continue
		}
		spent[tx.CategoryID] += tx.Amount
	}

	budgets, virtual := EffectiveBudgets(all, month)
	idx := IndexCategories(categories)
	for _, b := range budgets {
		name, color, icon := idx.Lookup(b.CategoryID)
		s := spent[b.CategoryID]
		pct := BudgetPercentage(s, b.Amount)
		out = append(out, BudgetSpending{
			ID:            b.ID,
			CategoryID:    b.CategoryID,
			CategoryName:  name,
			CategoryColor: color,
			CategoryIcon:  icon,
			Month:         month,
			BudgetAmount:  b.Amount,
			Spent:         s,
			Percentage:    pct,
			IsRecurring:   b.IsRecurring,
			IsVirtual:     virtual,
			Status:        BudgetStatus(pct),
		})
	}
	return out
}
