package usecase

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
	repo "github.com/nukedashiso/order-system/internal/repository"
)

// Aggregateは明細を（品目名, 単価）で集計する。
// 同じ品目でも単価が違えば別行になる（値上げ前後を区別するため）。
// 出力は初出順。金額は切り捨てで整数化する。
func Aggregate(items []model.OrderItem) []model.SummaryRow {
	type groupKey struct {
		name  string
		price float64
	}

	index := make(map[groupKey]int)
	rows := make([]model.SummaryRow, 0)

	for _, it := range items {
		key := groupKey{name: it.ItemName, price: it.UnitPrice}
		if i, ok := index[key]; ok {
			rows[i].TotalQty += it.Qty
			continue
		}
		index[key] = len(rows)
		rows = append(rows, model.SummaryRow{
			ItemName:  it.ItemName,
			UnitPrice: it.UnitPrice,
			TotalQty:  it.Qty,
		})
	}

	for i := range rows {
		rows[i].Amount = int64(float64(rows[i].TotalQty) * rows[i].UnitPrice)
	}
	return rows
}

// OrderTotalsは注文IDごとの合計（切り捨て）を返す。
func OrderTotals(items []model.OrderItem) map[string]int64 {
	sums := make(map[string]float64)
	for _, it := range items {
		sums[it.OrderID] += float64(it.Qty) * it.UnitPrice
	}

	totals := make(map[string]int64, len(sums))
	for id, sum := range sums {
		totals[id] = int64(sum)
	}
	return totals
}

type SummaryUsecase struct {
	store  repo.OrderStore
	logger *logrus.Logger
}

func NewSummaryUsecase(store repo.OrderStore, logger *logrus.Logger) *SummaryUsecase {
	return &SummaryUsecase{store: store, logger: logger}
}

type SummaryOutput struct {
	ShopKey    string             `json:"shop_key"`
	Rows       []model.SummaryRow `json:"rows"`
	GrandTotal int64              `json:"grand_total"`
}

// ShopSummaryは店舗の品目集計を毎回フルセットから計算し直す（キャッシュしない）。
func (u *SummaryUsecase) ShopSummary(ctx context.Context, shopKey string) (SummaryOutput, error) {
	items, err := u.store.LoadOrderItems(ctx)
	if err != nil {
		u.logger.WithError(err).Error("load order items failed")
		return SummaryOutput{}, NewHTTPError(http.StatusInternalServerError, "storage read error")
	}

	shopItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ShopKey == shopKey {
			shopItems = append(shopItems, it)
		}
	}

	rows := Aggregate(shopItems)

	var grand int64
	for _, r := range rows {
		grand += r.Amount
	}

	return SummaryOutput{ShopKey: shopKey, Rows: rows, GrandTotal: grand}, nil
}
