package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/cutoff"
	"github.com/nukedashiso/order-system/internal/domain/model"
	repo "github.com/nukedashiso/order-system/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ID生成と現在時刻は差し替え可能にしておく（テスト用）
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// Notifierは注文確定の通知先。失敗しても注文処理は止めない。
type Notifier interface {
	OrderSubmitted(shopLabel string, order model.Order, total int64)
}

type OrderUsecase struct {
	store    repo.OrderStore
	idGen    IDGenerator
	clock    Clock
	notifier Notifier
	logger   *logrus.Logger
}

func NewOrderUsecase(store repo.OrderStore, idGen IDGenerator, clock Clock, notifier Notifier, logger *logrus.Logger) *OrderUsecase {
	return &OrderUsecase{store: store, idGen: idGen, clock: clock, notifier: notifier, logger: logger}
}

// DraftRowは送信フォームの1行。presentation層が値として持ち回る。
type DraftRow struct {
	ItemName  string  `json:"item_name"`
	Qty       int64   `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

type SubmitOrderInput struct {
	Name string
	Note string
	Rows []DraftRow
}

type OrderItemOutput struct {
	ItemName  string  `json:"item_name"`
	Qty       int64   `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderOutput struct {
	OrderID   string            `json:"order_id"`
	ShopKey   string            `json:"shop_key"`
	UserName  string            `json:"user_name"`
	Note      string            `json:"note"`
	CreatedAt string            `json:"created_at"`
	IsPaid    bool              `json:"is_paid"`
	Total     int64             `json:"total"`
	Items     []OrderItemOutput `json:"items"`
}

// ValidateDraftは下書きを検証して正規化済みレコードを返す。永続化はしない。
// 失敗: 名前が空（trim後）/ 有効な明細行が1つもない。
// 有効行 = trim後の品目名が非空 かつ 数量>0。単価は負なら0に寄せる。
func (u *OrderUsecase) ValidateDraft(shopKey string, name string, note string, rows []DraftRow) (model.Order, []model.OrderItem, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return model.Order{}, nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	items := make([]model.OrderItem, 0, len(rows))
	for _, r := range rows {
		itemName := strings.TrimSpace(r.ItemName)
		if itemName == "" || r.Qty <= 0 {
			continue
		}
		price := r.UnitPrice
		if price < 0 {
			price = 0
		}
		items = append(items, model.OrderItem{
			ShopKey:   shopKey,
			ItemName:  itemName,
			Qty:       r.Qty,
			UnitPrice: price,
		})
	}
	if len(items) == 0 {
		return model.Order{}, nil, NewHTTPError(http.StatusBadRequest, "no valid items")
	}

	order := model.Order{
		OrderID:   u.idGen.NewID(),
		ShopKey:   shopKey,
		UserName:  trimmedName,
		Note:      strings.TrimSpace(note),
		CreatedAt: u.clock.Now().Truncate(time.Second),
		IsPaid:    false,
	}
	for i := range items {
		items[i].OrderID = order.OrderID
	}

	return order, items, nil
}

// Submitは締め切り確認→検証→注文保存→明細保存の順で処理する。
// 注文と明細は別々の書き込みなので、2回目が失敗すると不整合が残る。
// ロールバックはしない方針（エラーメッセージで手動確認を促す）。
func (u *OrderUsecase) Submit(ctx context.Context, shop model.Shop, in SubmitOrderInput) (OrderOutput, error) {
	now := u.clock.Now()

	state := cutoff.Evaluate(shop.CutoffSpec, now)
	if state.FellBack {
		u.logger.WithFields(logrus.Fields{
			"shop_key": shop.Key,
			"cutoff":   shop.CutoffSpec,
		}).Warn("cutoff spec unparsable, using default 18:00")
	}
	if state.Passed {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "cutoff passed")
	}

	order, items, err := u.ValidateDraft(shop.Key, in.Name, in.Note, in.Rows)
	if err != nil {
		return OrderOutput{}, err
	}

	orders, err := u.store.LoadOrders(ctx)
	if err != nil {
		u.logger.WithError(err).Error("load orders failed")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "storage read error")
	}
	orders = append(orders, order)
	if err := u.store.SaveOrders(ctx, orders); err != nil {
		u.logger.WithError(err).Error("save orders failed")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to save order")
	}

	allItems, err := u.store.LoadOrderItems(ctx)
	if err != nil {
		// 注文だけ保存された状態。黙って握りつぶさない。
		u.logger.WithError(err).WithField("order_id", order.OrderID).Error("load order items failed after order save")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "order partially saved, please verify storage")
	}
	allItems = append(allItems, items...)
	if err := u.store.SaveOrderItems(ctx, allItems); err != nil {
		u.logger.WithError(err).WithField("order_id", order.OrderID).Error("save order items failed after order save")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "order partially saved, please verify storage")
	}

	total := orderTotal(items)

	u.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"shop_key": shop.Key,
		"total":    total,
	}).Info("order submitted")

	if u.notifier != nil {
		u.notifier.OrderSubmitted(shop.Label, order, total)
	}

	return toOrderOutput(order, items, total), nil
}

func orderTotal(items []model.OrderItem) int64 {
	var sum float64
	for _, it := range items {
		sum += float64(it.Qty) * it.UnitPrice
	}
	// 切り捨て（四捨五入ではない）
	return int64(sum)
}

func toOrderOutput(o model.Order, items []model.OrderItem, total int64) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ItemName:  it.ItemName,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderOutput{
		OrderID:   o.OrderID,
		ShopKey:   o.ShopKey,
		UserName:  o.UserName,
		Note:      o.Note,
		CreatedAt: o.CreatedAt.Format(model.TimeLayout),
		IsPaid:    o.IsPaid,
		Total:     total,
		Items:     outItems,
	}
}
