package models

import (
	"time"

	"gorm.io/gorm"
)

// 收支类型
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// 兜底类别名称，导入和债务结清时使用
const (
	CategoryOtherIncome  = "Other Income"
	CategoryOtherExpense = "Other Expense"
)

// Category 收支类别
// UserID 为空表示系统种子类别
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	Name      string         `json:"name" gorm:"size:50;not null"`
	Type      string         `json:"type" gorm:"size:10;not null;index"`
	Icon      string         `json:"icon" gorm:"size:50"`
	Color     string         `json:"color" gorm:"size:20;default:#71717a"`
	IsDefault bool           `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategory 新用户的默认类别
type DefaultCategory struct {
	Name  string
	Type  string
	Icon  string
	Color string
}

var defaultCategories = []DefaultCategory{
	{"Food & Dining", TypeExpense, "Utensils", "#f97316"},
	{"Rent & Housing", TypeExpense, "Home", "#8b5cf6"},
	{"Transport", TypeExpense, "Car", "#3b82f6"},
	{"Shopping", TypeExpense, "ShoppingBag", "#ec4899"},
	{"Entertainment", TypeExpense, "Gamepad2", "#a855f7"},
	{"Health", TypeExpense, "Heart", "#ef4444"},
	{"Education", TypeExpense, "GraduationCap", "#06b6d4"},
	{"Bills & Utilities", TypeExpense, "Zap", "#eab308"},
	{"Groceries", TypeExpense, "ShoppingCart", "#22c55e"},
	{"Personal Care", TypeExpense, "Sparkles", "#f472b6"},
	{"Travel", TypeExpense, "Plane", "#0ea5e9"},
	{"Subscriptions", TypeExpense, "CreditCard", "#6366f1"},
	{CategoryOtherExpense, TypeExpense, "MoreHorizontal", "#71717a"},

	{"Salary", TypeIncome, "Briefcase", "#22c55e"},
	{"Freelance", TypeIncome, "Laptop", "#10b981"},
	{"Investments", TypeIncome, "TrendingUp", "#14b8a6"},
	{"Gifts", TypeIncome, "Gift", "#f59e0b"},
	{"Refunds", TypeIncome, "RotateCcw", "#6366f1"},
	{CategoryOtherIncome, TypeIncome, "MoreHorizontal", "#71717a"},
}

// GetDefaultCategories 获取默认类别列表（返回副本）
func GetDefaultCategories() []DefaultCategory {
	out := make([]DefaultCategory, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// NewDefaultCategories 为指定用户生成默认类别记录
func NewDefaultCategories(userID uint) []Category {
	cats := make([]Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		uid := userID
		cats = append(cats, Category{
			UserID:    &uid,
			Name:      d.Name,
			Type:      d.Type,
			Icon:      d.Icon,
			Color:     d.Color,
			IsDefault: true,
		})
	}
	return cats
}

// OtherCategoryName 指定收支类型对应的兜底类别名称
func OtherCategoryName(txType string) string {
	if txType == TypeIncome {
		return CategoryOtherIncome
	}
	return CategoryOtherExpense
}
