package models

import (
	"time"

	"gorm.io/gorm"
)

// MonthLayout 预算月份格式，补零后字符串顺序与时间顺序一致
const MonthLayout = "2006-01"

// Budget 月度类别预算
// 同一 (user, category, month) 只保留一条，由写入逻辑保证
type Budget struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index:idx_budgets_user_month,priority:1"`
	CategoryID  uint           `json:"category_id" gorm:"not null;index"`
	Amount      float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Month       string         `json:"month" gorm:"size:7;not null;index:idx_budgets_user_month,priority:2"`
	IsRecurring bool           `json:"is_recurring" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Budget) TableName() string {
	return "budgets"
}

// ParseMonth 校验 YYYY-MM 格式
func ParseMonth(month string) (time.Time, bool) {
	if len(month) != len(MonthLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatMonth 生成 YYYY-MM
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}
