package storage

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
	repo "github.com/nukedashiso/order-system/internal/repository"
)

// FallbackStoreはリモート優先・ローカル退避の組み合わせ。
//   - 読み取り: リモート失敗時はログを残してローカルへ退避
//   - 書き込み: リモート失敗は必ず呼び出し側へ返す（黙ってローカルに
//     書くと2つのストアが乖離するため）。成功時のみローカルへミラー。
type FallbackStore struct {
	remote repo.OrderStore
	local  repo.OrderStore
	logger *logrus.Logger
}

func NewFallbackStore(remote repo.OrderStore, local repo.OrderStore, logger *logrus.Logger) *FallbackStore {
	return &FallbackStore{remote: remote, local: local, logger: logger}
}

func (s *FallbackStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.remote.LoadOrders(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("remote orders read failed, falling back to local")
		return s.local.LoadOrders(ctx)
	}
	return orders, nil
}

func (s *FallbackStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	if err := s.remote.SaveOrders(ctx, orders); err != nil {
		return err
	}
	if err := s.local.SaveOrders(ctx, orders); err != nil {
		s.logger.WithError(err).Warn("local orders mirror failed")
	}
	return nil
}

func (s *FallbackStore) LoadOrderItems(ctx context.Context) ([]model.OrderItem, error) {
	items, err := s.remote.LoadOrderItems(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("remote order items read failed, falling back to local")
		return s.local.LoadOrderItems(ctx)
	}
	return items, nil
}

func (s *FallbackStore) SaveOrderItems(ctx context.Context, items []model.OrderItem) error {
	if err := s.remote.SaveOrderItems(ctx, items); err != nil {
		return err
	}
	if err := s.local.SaveOrderItems(ctx, items); err != nil {
		s.logger.WithError(err).Warn("local order items mirror failed")
	}
	return nil
}
