package model

import "time"

// CreatedAtの保存フォーマット（秒精度・設定タイムゾーン）
const TimeLayout = "2006-01-02 15:04:05"

type Order struct {
	OrderID   string    `gorm:"primaryKey;type:varchar(32)" json:"order_id"`
	ShopKey   string    `gorm:"type:varchar(32);not null;index" json:"shop_key"`
	UserName  string    `gorm:"type:varchar(255);not null" json:"user_name"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	IsPaid    bool      `gorm:"not null;default:false" json:"is_paid"`
}
