package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

// ストレージバックエンドは起動時に1回だけ選ぶ。
// 業務ロジック側では分岐しない。
const (
	BackendLocal          = "local"
	BackendRemote         = "remote"
	BackendRemoteFallback = "remote_fallback"
	BackendDatabase       = "database"
)

type GitHub struct {
	Token      string
	Owner      string
	Repo       string
	Branch     string
	OrdersPath string
	ItemsPath  string
}

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	Timezone string         // 表示・保存に使うタイムゾーン名
	Location *time.Location // Timezoneをロードしたもの

	StorageBackend string // local / remote / remote_fallback / database
	DataDir        string // ローカルCSVの置き場所
	ImageDir       string // メニュー画像のベースディレクトリ

	GitHub GitHub // remote系バックエンドの接続先

	TelegramBotToken string // 未設定なら通知オフ
	TelegramChatID   int64

	Shops []model.Shop
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	tzName := getenv("TIMEZONE", "Asia/Taipei")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	backend := getenv("STORAGE_BACKEND", BackendLocal)
	switch backend {
	case BackendLocal, BackendRemote, BackendRemoteFallback, BackendDatabase:
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be one of local/remote/remote_fallback/database")
	}

	cfg := Config{
		Port:           getenv("PORT", "8080"),
		Timezone:       tzName,
		Location:       loc,
		StorageBackend: backend,
		DataDir:        getenv("DATA_DIR", "./data"),
		ImageDir:       getenv("IMAGE_DIR", "./images/shops"),

		GitHub: GitHub{
			Token:      os.Getenv("GITHUB_TOKEN"),
			Owner:      os.Getenv("GITHUB_OWNER"),
			Repo:       os.Getenv("GITHUB_REPO"),
			Branch:     getenv("GITHUB_BRANCH", "main"),
			OrdersPath: getenv("GITHUB_ORDERS_PATH", "data/orders.csv"),
			ItemsPath:  getenv("GITHUB_ITEMS_PATH", "data/order_items.csv"),
		},

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	// remote系はGitHub設定が必須
	if backend == BackendRemote || backend == BackendRemoteFallback {
		if cfg.GitHub.Token == "" {
			return Config{}, fmt.Errorf("GITHUB_TOKEN is required")
		}
		if cfg.GitHub.Owner == "" {
			return Config{}, fmt.Errorf("GITHUB_OWNER is required")
		}
		if cfg.GitHub.Repo == "" {
			return Config{}, fmt.Errorf("GITHUB_REPO is required")
		}
	}

	if cfg.TelegramBotToken != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID must be number: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	shops, err := loadShops()
	if err != nil {
		return Config{}, err
	}
	cfg.Shops = shops

	return cfg, nil
}

// 店舗はSHOPSのキー一覧＋SHOP_<KEY>_*で設定する。既定は2店舗構成。
func loadShops() ([]model.Shop, error) {
	keys := strings.Split(getenv("SHOPS", "food,drink"), ",")

	shops := make([]model.Shop, 0, len(keys))
	for _, raw := range keys {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		upper := strings.ToUpper(key)
		shops = append(shops, model.Shop{
			Key:        key,
			Label:      getenv("SHOP_"+upper+"_LABEL", defaultLabel(key)),
			CutoffSpec: getenv("SHOP_"+upper+"_CUTOFF", "18:00"),
			ExcelPath:  getenv("SHOP_"+upper+"_EXCEL_PATH", "./exports/"+key+"_orders.xlsx"),
		})
	}
	if len(shops) == 0 {
		return nil, fmt.Errorf("SHOPS must contain at least one shop key")
	}
	return shops, nil
}

func defaultLabel(key string) string {
	switch key {
	case "food":
		return "フード店"
	case "drink":
		return "ドリンク店"
	}
	return key
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
