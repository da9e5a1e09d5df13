package models

import (
	"time"

	"gorm.io/gorm"
)

// 周期标记
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Transaction 收支流水
// Date 为毫秒时间戳；SplitGroupID 非空表示拆分流水，同组共享同一个 ID
type Transaction struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	UserID             uint           `json:"user_id" gorm:"not null;index:idx_transactions_user_date,priority:1"`
	Amount             float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type               string         `json:"type" gorm:"size:10;not null;index"`
	CategoryID         uint           `json:"category_id" gorm:"not null;index"`
	Date               int64          `json:"date" gorm:"not null;index:idx_transactions_user_date,priority:2"`
	Description        string         `json:"description" gorm:"size:255"`
	SplitGroupID       *string        `json:"split_group_id,omitempty" gorm:"size:36;index"`
	GoalID             *uint          `json:"goal_id,omitempty" gorm:"index"`
	IsRecurring        bool           `json:"is_recurring" gorm:"default:false"`
	RecurringFrequency string         `json:"recurring_frequency,omitempty" gorm:"size:10"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// Time 以指定时区返回流水时间
func (t *Transaction) Time(loc *time.Location) time.Time {
	return time.UnixMilli(t.Date).In(loc)
}
