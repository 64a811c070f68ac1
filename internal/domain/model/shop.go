package model

// Shopは店舗ごとの設定値。起動時にconfigから組み立てる。
type Shop struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	CutoffSpec string `json:"cutoff"`
	ExcelPath  string `json:"-"`
}
