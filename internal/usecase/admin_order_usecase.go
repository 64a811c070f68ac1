package usecase

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
	"github.com/nukedashiso/order-system/internal/export"
	repo "github.com/nukedashiso/order-system/internal/repository"
)

type AdminOrderUsecase struct {
	store  repo.OrderStore
	logger *logrus.Logger
}

func NewAdminOrderUsecase(store repo.OrderStore, logger *logrus.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{store: store, logger: logger}
}

type TogglePaidOutput struct {
	OrderID string `json:"order_id"`
	IsPaid  bool   `json:"is_paid"`
}

// 注文一覧（店舗別・新しい順・合計つき）
func (u *AdminOrderUsecase) List(ctx context.Context, shopKey string) ([]OrderOutput, error) {
	orders, items, err := u.loadShop(ctx, shopKey)
	if err != nil {
		return []OrderOutput{}, err
	}

	totals := OrderTotals(items)

	itemsByOrder := make(map[string][]model.OrderItem)
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		// 明細ゼロの注文は起きないはずだが、合計0で防御的に扱う
		outs = append(outs, toOrderOutput(o, itemsByOrder[o.OrderID], totals[o.OrderID]))
	}
	return outs, nil
}

// TogglePaidは収款フラグを反転する。
// コレクション全体のread-modify-writeなので直前に必ず読み直す。
func (u *AdminOrderUsecase) TogglePaid(ctx context.Context, orderID string) (TogglePaidOutput, error) {
	orders, err := u.store.LoadOrders(ctx)
	if err != nil {
		u.logger.WithError(err).Error("load orders failed")
		return TogglePaidOutput{}, NewHTTPError(http.StatusInternalServerError, "storage read error")
	}

	found := false
	var nowPaid bool
	for i := range orders {
		if orders[i].OrderID == orderID {
			orders[i].IsPaid = !orders[i].IsPaid
			nowPaid = orders[i].IsPaid
			found = true
			break
		}
	}
	if !found {
		// UI経由なら起きないはず。no-op扱いで警告を返す。
		u.logger.WithField("order_id", orderID).Warn("toggle paid: order not found")
		return TogglePaidOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	if err := u.store.SaveOrders(ctx, orders); err != nil {
		u.logger.WithError(err).Error("save orders failed")
		return TogglePaidOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to save orders")
	}

	u.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"is_paid":  nowPaid,
	}).Info("paid flag toggled")

	return TogglePaidOutput{OrderID: orderID, IsPaid: nowPaid}, nil
}

// Exportは帳簿ワークブックをメモリ上で組み立ててバイト列で返す。
// 事前のディスク書き込みは不要（そのままダウンロードに流せる）。
func (u *AdminOrderUsecase) Export(ctx context.Context, shop model.Shop) ([]byte, error) {
	orders, items, err := u.loadShop(ctx, shop.Key)
	if err != nil {
		return nil, err
	}

	buf, err := export.WorkbookBytes(shop, orders, items, Aggregate(items), OrderTotals(items))
	if err != nil {
		u.logger.WithError(err).Error("build workbook failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to build workbook")
	}
	return buf, nil
}

// SyncExportはワークブックを店舗設定のパスへ書き出す。
func (u *AdminOrderUsecase) SyncExport(ctx context.Context, shop model.Shop) (string, error) {
	if shop.ExcelPath == "" {
		return "", NewHTTPError(http.StatusBadRequest, "excel path not configured")
	}

	orders, items, err := u.loadShop(ctx, shop.Key)
	if err != nil {
		return "", err
	}

	f, err := export.BuildWorkbook(shop, orders, items, Aggregate(items), OrderTotals(items))
	if err != nil {
		u.logger.WithError(err).Error("build workbook failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to build workbook")
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(shop.ExcelPath), 0o755); err != nil {
		u.logger.WithError(err).Error("create export dir failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to write workbook")
	}
	if err := f.SaveAs(shop.ExcelPath); err != nil {
		u.logger.WithError(err).Error("write workbook failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to write workbook")
	}

	u.logger.WithFields(logrus.Fields{
		"shop_key": shop.Key,
		"path":     shop.ExcelPath,
	}).Info("workbook synced")

	return shop.ExcelPath, nil
}

func (u *AdminOrderUsecase) loadShop(ctx context.Context, shopKey string) ([]model.Order, []model.OrderItem, error) {
	orders, err := u.store.LoadOrders(ctx)
	if err != nil {
		u.logger.WithError(err).Error("load orders failed")
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "storage read error")
	}
	items, err := u.store.LoadOrderItems(ctx)
	if err != nil {
		u.logger.WithError(err).Error("load order items failed")
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "storage read error")
	}

	shopOrders := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.ShopKey == shopKey {
			shopOrders = append(shopOrders, o)
		}
	}
	shopItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ShopKey == shopKey {
			shopItems = append(shopItems, it)
		}
	}
	return shopOrders, shopItems, nil
}
