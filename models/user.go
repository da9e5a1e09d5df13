package models

import (
	"time"
)

// User 用户模型
// TokenIdentifier 为身份提供方的 issuer|subject，首次出现时创建，应用内不删除
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TokenIdentifier string    `json:"token_identifier" gorm:"size:255;not null;uniqueIndex"`
	Name            string    `json:"name" gorm:"size:100"`
	Email           string    `json:"email" gorm:"size:100"`
	PhotoURL        string    `json:"photo_url" gorm:"size:512"`
	Country         string    `json:"country" gorm:"size:64"`
	Currency        string    `json:"currency" gorm:"size:8"`
	Theme           string    `json:"theme,omitempty" gorm:"size:16"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// Onboarded 是否已完成国家和币种设置
func (u *User) Onboarded() bool {
	return u.Country != "" && u.Currency != ""
}
