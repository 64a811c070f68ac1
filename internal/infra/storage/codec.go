package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

// CSVカラム順はローカル・リモートで共通
var ordersHeader = []string{"order_id", "shop_key", "user_name", "note", "created_at", "is_paid"}
var itemsHeader = []string{"order_id", "shop_key", "item_name", "qty", "unit_price"}

func encodeOrders(orders []model.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ordersHeader); err != nil {
		return nil, err
	}
	for _, o := range orders {
		record := []string{
			o.OrderID,
			o.ShopKey,
			o.UserName,
			o.Note,
			o.CreatedAt.Format(model.TimeLayout),
			strconv.FormatBool(o.IsPaid),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeOrdersは欠損・型不正を失敗にせず0値へ寄せる。
func decodeOrders(data []byte, loc *time.Location) ([]model.Order, error) {
	records, err := readRecords(data, len(ordersHeader))
	if err != nil {
		return nil, fmt.Errorf("decode orders csv: %w", err)
	}

	orders := make([]model.Order, 0, len(records))
	for _, rec := range records {
		createdAt, err := time.ParseInLocation(model.TimeLayout, rec[4], loc)
		if err != nil {
			createdAt = time.Time{}
		}
		isPaid, err := strconv.ParseBool(rec[5])
		if err != nil {
			isPaid = false
		}
		orders = append(orders, model.Order{
			OrderID:   rec[0],
			ShopKey:   rec[1],
			UserName:  rec[2],
			Note:      rec[3],
			CreatedAt: createdAt,
			IsPaid:    isPaid,
		})
	}
	return orders, nil
}

func encodeOrderItems(items []model.OrderItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(itemsHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		record := []string{
			it.OrderID,
			it.ShopKey,
			it.ItemName,
			strconv.FormatInt(it.Qty, 10),
			strconv.FormatFloat(it.UnitPrice, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeOrderItemsは数値の不正を0へ寄せる（パースエラーを伝播しない）。
func decodeOrderItems(data []byte) ([]model.OrderItem, error) {
	records, err := readRecords(data, len(itemsHeader))
	if err != nil {
		return nil, fmt.Errorf("decode order items csv: %w", err)
	}

	items := make([]model.OrderItem, 0, len(records))
	for _, rec := range records {
		qty, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			qty = 0
		}
		price, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			price = 0
		}
		items = append(items, model.OrderItem{
			OrderID:   rec[0],
			ShopKey:   rec[1],
			ItemName:  rec[2],
			Qty:       qty,
			UnitPrice: price,
		})
	}
	return items, nil
}

// readRecordsはヘッダー行を飛ばし、カラム数の足りない行を捨てる。
func readRecords(data []byte, wantCols int) ([][]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	records := make([][]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		if len(rec) < wantCols {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
