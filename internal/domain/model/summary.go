package model

// SummaryRowは（品目名, 単価）ごとの集計結果。永続化しない派生値。
type SummaryRow struct {
	ItemName  string  `json:"item_name"`
	UnitPrice float64 `json:"unit_price"`
	TotalQty  int64   `json:"total_qty"`
	Amount    int64   `json:"amount"`
}
