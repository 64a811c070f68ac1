package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Asia/Taipei", cfg.Timezone)
	assert.Equal(t, BackendLocal, cfg.StorageBackend)

	// 既定は2店舗構成
	if assert.Len(t, cfg.Shops, 2) {
		assert.Equal(t, "food", cfg.Shops[0].Key)
		assert.Equal(t, "18:00", cfg.Shops[0].CutoffSpec)
		assert.Equal(t, "./exports/food_orders.xlsx", cfg.Shops[0].ExcelPath)
		assert.Equal(t, "drink", cfg.Shops[1].Key)
	}
}

func TestLoad_CustomShops(t *testing.T) {
	t.Setenv("SHOPS", "bento, coffee")
	t.Setenv("SHOP_BENTO_LABEL", "弁当屋")
	t.Setenv("SHOP_BENTO_CUTOFF", "11:30")

	cfg, err := Load()

	assert.NoError(t, err)
	if assert.Len(t, cfg.Shops, 2) {
		assert.Equal(t, "bento", cfg.Shops[0].Key)
		assert.Equal(t, "弁当屋", cfg.Shops[0].Label)
		assert.Equal(t, "11:30", cfg.Shops[0].CutoffSpec)
		// ラベル未設定ならキーのまま
		assert.Equal(t, "coffee", cfg.Shops[1].Label)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "carrier-pigeon")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoad_RemoteRequiresGitHubSettings(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendRemote)

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN is required")
}

func TestLoad_RemoteFallbackWithSettings(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendRemoteFallback)
	t.Setenv("GITHUB_TOKEN", "tkn")
	t.Setenv("GITHUB_OWNER", "acme")
	t.Setenv("GITHUB_REPO", "orders-data")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "data/orders.csv", cfg.GitHub.OrdersPath)
}

func TestLoad_TelegramChatIDMustBeNumber(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}
