package model

// OrderItemは注文1件の明細行。order_id経由で親注文を参照する。
// 単体での更新・削除は行わない（注文確定時に一括作成のみ）。
type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string  `gorm:"type:varchar(32);not null;index" json:"order_id"`
	ShopKey   string  `gorm:"type:varchar(32);not null;index" json:"shop_key"`
	ItemName  string  `gorm:"type:varchar(255);not null" json:"item_name"`
	Qty       int64   `gorm:"not null" json:"qty"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
}
