package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

const (
	ordersFile = "orders.csv"
	itemsFile  = "order_items.csv"
)

// CSVStoreはローカルCSVファイル2つでコレクションを保持する。
// ファイル未作成は空扱い。保存はファイル全体の書き換え。
type CSVStore struct {
	ordersPath string
	itemsPath  string
	loc        *time.Location
	logger     *logrus.Logger
}

func NewCSVStore(dataDir string, loc *time.Location, logger *logrus.Logger) *CSVStore {
	return &CSVStore{
		ordersPath: filepath.Join(dataDir, ordersFile),
		itemsPath:  filepath.Join(dataDir, itemsFile),
		loc:        loc,
		logger:     logger,
	}
}

func (s *CSVStore) LoadOrders(ctx context.Context) ([]model.Order, error) {
	data, err := s.readFile(s.ordersPath)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data, s.loc)
}

func (s *CSVStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	data, err := encodeOrders(orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	return s.writeFile(s.ordersPath, data)
}

func (s *CSVStore) LoadOrderItems(ctx context.Context) ([]model.OrderItem, error) {
	data, err := s.readFile(s.itemsPath)
	if err != nil {
		return nil, err
	}
	return decodeOrderItems(data)
}

func (s *CSVStore) SaveOrderItems(ctx context.Context, items []model.OrderItem) error {
	data, err := encodeOrderItems(items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	return s.writeFile(s.itemsPath, data)
}

func (s *CSVStore) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// まだ1件もない状態。エラーにしない。
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// 一時ファイルに書いてからrenameする（書きかけのCSVを残さない）
func (s *CSVStore) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
