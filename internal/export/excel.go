package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

const (
	OrdersSheet  = "Orders"
	SummarySheet = "Summary"
)

var ordersHeader = []interface{}{"時間", "注文ID", "店舗", "名前", "明細", "合計", "備考", "支払"}
var summaryHeader = []interface{}{"品目", "単価", "数量", "金額"}

// BuildWorkbookは注文台帳をメモリ上で組み立てる。
// Ordersシートは新しい順、Summaryシートは集計行そのまま。
// 呼び出し側がClose/SaveAs/WriteToBufferを選ぶ。
func BuildWorkbook(shop model.Shop, orders []model.Order, items []model.OrderItem, summary []model.SummaryRow, totals map[string]int64) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	itemsByOrder := make(map[string][]model.OrderItem)
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if err := f.SetSheetRow(OrdersSheet, "A1", &ordersHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, o := range sorted {
		row := []interface{}{
			o.CreatedAt.Format(model.TimeLayout),
			o.OrderID,
			shop.Label,
			o.UserName,
			DetailString(itemsByOrder[o.OrderID]),
			totals[o.OrderID],
			o.Note,
			paidLabel(o.IsPaid),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(OrdersSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range summary {
		row := []interface{}{r.ItemName, r.UnitPrice, r.TotalQty, r.Amount}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WorkbookBytesはワークブックをバイト列にする（ディスクを経由しない）。
func WorkbookBytes(shop model.Shop, orders []model.Order, items []model.OrderItem, summary []model.SummaryRow, totals map[string]int64) ([]byte, error) {
	f, err := BuildWorkbook(shop, orders, items, summary, totals)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetailStringは "品目x数量@単価; ..." 形式の明細文字列を作る。
func DetailString(items []model.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%sx%d@%d", it.ItemName, it.Qty, int64(it.UnitPrice)))
	}
	return strings.Join(parts, "; ")
}

func paidLabel(paid bool) string {
	if paid {
		return "済"
	}
	return "未"
}
