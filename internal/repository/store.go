package repository

import (
	"context"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

// OrderStoreは2つのコレクション（注文・明細）の読み書き契約。
// Loadはデータ未作成なら空スライスを返す（呼び出し側を失敗させない）。
// Saveはコレクション全体の置き換え。部分更新はしない。
//
// 同時書き込みはlast-write-winsで片方が消える可能性がある。
// 想定運用は幹事1人（single-writer expected）。
type OrderStore interface {
	LoadOrders(ctx context.Context) ([]model.Order, error)
	SaveOrders(ctx context.Context, orders []model.Order) error
	LoadOrderItems(ctx context.Context) ([]model.OrderItem, error)
	SaveOrderItems(ctx context.Context, items []model.OrderItem) error
}
