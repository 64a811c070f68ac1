package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

func TestTogglePaid_FlipsFlag(t *testing.T) {
	store := &memStore{
		orders: []model.Order{
			{OrderID: "o1", ShopKey: "food", UserName: "Alice", IsPaid: false},
			{OrderID: "o2", ShopKey: "food", UserName: "Bob", IsPaid: true},
		},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	out, err := uc.TogglePaid(context.Background(), "o1")

	assert.NoError(t, err)
	assert.True(t, out.IsPaid)
	assert.True(t, store.orders[0].IsPaid)
	// 他の注文には触れない
	assert.True(t, store.orders[1].IsPaid)
}

func TestTogglePaid_TwiceRestoresOriginalState(t *testing.T) {
	store := &memStore{
		orders: []model.Order{{OrderID: "o1", ShopKey: "food", IsPaid: false}},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	_, err := uc.TogglePaid(context.Background(), "o1")
	assert.NoError(t, err)
	out, err := uc.TogglePaid(context.Background(), "o1")
	assert.NoError(t, err)

	// 2回で元に戻る
	assert.False(t, out.IsPaid)
	assert.False(t, store.orders[0].IsPaid)
}

func TestTogglePaid_NotFound(t *testing.T) {
	store := &memStore{}
	uc := NewAdminOrderUsecase(store, testLogger())

	_, err := uc.TogglePaid(context.Background(), "nope")

	assertHTTPError(t, err, http.StatusNotFound, "order not found")
}

func TestTogglePaid_NotFoundDoesNotWrite(t *testing.T) {
	st := new(StoreMock)
	st.On("LoadOrders", mock.Anything).Return([]model.Order{{OrderID: "o1"}}, nil)

	uc := NewAdminOrderUsecase(st, testLogger())

	_, err := uc.TogglePaid(context.Background(), "other")

	assert.Error(t, err)
	st.AssertNotCalled(t, "SaveOrders", mock.Anything, mock.Anything)
}

func TestAdminList_NewestFirstWithTotals(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, testLoc)
	store := &memStore{
		orders: []model.Order{
			{OrderID: "o1", ShopKey: "food", UserName: "Alice", CreatedAt: base},
			{OrderID: "o2", ShopKey: "food", UserName: "Bob", CreatedAt: base.Add(time.Hour)},
			{OrderID: "o3", ShopKey: "drink", UserName: "Carol", CreatedAt: base.Add(2 * time.Hour)},
		},
		items: []model.OrderItem{
			{OrderID: "o1", ShopKey: "food", ItemName: "Tea", Qty: 2, UnitPrice: 30},
			{OrderID: "o2", ShopKey: "food", ItemName: "Cake", Qty: 1, UnitPrice: 15.5},
			{OrderID: "o3", ShopKey: "drink", ItemName: "Cola", Qty: 1, UnitPrice: 20},
		},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	outs, err := uc.List(context.Background(), "food")

	assert.NoError(t, err)
	if assert.Len(t, outs, 2) {
		// 新しい順、他店舗は混ざらない
		assert.Equal(t, "o2", outs[0].OrderID)
		assert.Equal(t, "o1", outs[1].OrderID)
		assert.Equal(t, int64(15), outs[0].Total) // floor(15.5)
		assert.Equal(t, int64(60), outs[1].Total)
		assert.Len(t, outs[1].Items, 1)
	}
}

func TestAdminList_OrderWithoutItemsGetsZeroTotal(t *testing.T) {
	store := &memStore{
		orders: []model.Order{{OrderID: "o1", ShopKey: "food", UserName: "Alice"}},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	outs, err := uc.List(context.Background(), "food")

	assert.NoError(t, err)
	if assert.Len(t, outs, 1) {
		assert.Equal(t, int64(0), outs[0].Total)
		assert.Empty(t, outs[0].Items)
	}
}

func TestExport_ProducesWorkbookBytes(t *testing.T) {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, testLoc)
	store := &memStore{
		orders: []model.Order{{OrderID: "o1", ShopKey: "food", UserName: "Alice", CreatedAt: base}},
		items:  []model.OrderItem{{OrderID: "o1", ShopKey: "food", ItemName: "Tea", Qty: 2, UnitPrice: 30}},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	data, err := uc.Export(context.Background(), model.Shop{Key: "food", Label: "フード店"})

	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsxはzipコンテナ
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}

func TestSyncExport_WithoutPathFails(t *testing.T) {
	uc := NewAdminOrderUsecase(&memStore{}, testLogger())

	_, err := uc.SyncExport(context.Background(), model.Shop{Key: "food", Label: "フード店"})

	assertHTTPError(t, err, http.StatusBadRequest, "excel path not configured")
}

func TestSyncExport_WritesFile(t *testing.T) {
	store := &memStore{
		orders: []model.Order{{OrderID: "o1", ShopKey: "food", UserName: "Alice", CreatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, testLoc)}},
		items:  []model.OrderItem{{OrderID: "o1", ShopKey: "food", ItemName: "Tea", Qty: 2, UnitPrice: 30}},
	}
	uc := NewAdminOrderUsecase(store, testLogger())

	path := t.TempDir() + "/exports/food_orders.xlsx"
	got, err := uc.SyncExport(context.Background(), model.Shop{Key: "food", Label: "フード店", ExcelPath: path})

	assert.NoError(t, err)
	assert.Equal(t, path, got)
	assert.FileExists(t, path)
}
