package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

// GormStoreはDBバックエンド。他のストアと同じ
// 「コレクション全体の読み書き」契約をトランザクション内の
// 全消し＋一括挿入で実現する。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Order("created_at asc").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Order{}).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		rows := make([]model.Order, len(orders))
		copy(rows, orders)
		return tx.Create(&rows).Error
	})
}

func (s *GormStore) LoadOrderItems(ctx context.Context) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) SaveOrderItems(ctx context.Context, items []model.OrderItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		rows := make([]model.OrderItem, len(items))
		copy(rows, items)
		for i := range rows {
			// 挿入し直しなので自動採番をリセット
			rows[i].ID = 0
		}
		return tx.Create(&rows).Error
	})
}
