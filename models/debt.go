package models

import (
	"time"

	"gorm.io/gorm"
)

// 债务方向
const (
	DebtLent     = "lent"
	DebtBorrowed = "borrowed"
)

// Debt 借出/借入记录
type Debt struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"not null;index:idx_debts_user_status,priority:1"`
	Type          string         `json:"type" gorm:"size:10;not null"`
	PersonName    string         `json:"person_name" gorm:"size:100;not null"`
	Amount        float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description   string         `json:"description" gorm:"size:255"`
	DueDate       *int64         `json:"due_date,omitempty"`
	IsCompleted   bool           `json:"is_completed" gorm:"default:false;index:idx_debts_user_status,priority:2"`
	CompletedDate *int64         `json:"completed_date,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Debt) TableName() string {
	return "debts"
}

// SettlementType 结清时生成流水的类型：借出收回记收入，借入归还记支出
func (d *Debt) SettlementType() string {
	if d.Type == DebtLent {
		return TypeIncome
	}
	return TypeExpense
}

// SettlementDescription 结清流水的描述
func (d *Debt) SettlementDescription() string {
	if d.Description != "" {
		return "Debt settled: " + d.PersonName + " - " + d.Description
	}
	return "Debt settled: " + d.PersonName
}
