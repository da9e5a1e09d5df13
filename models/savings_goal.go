package models

import (
	"time"

	"gorm.io/gorm"
)

// SavingsGoal 储蓄目标，当前进度由关联流水实时计算，不落库
type SavingsGoal struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	TargetAmount float64        `json:"target_amount" gorm:"type:decimal(12,2);not null"`
	TargetDate   int64          `json:"target_date" gorm:"not null"`
	Description  string         `json:"description" gorm:"size:255"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (SavingsGoal) TableName() string {
	return "savings_goals"
}
