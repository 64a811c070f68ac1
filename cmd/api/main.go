package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/config"
	"github.com/nukedashiso/order-system/internal/domain/model"
	"github.com/nukedashiso/order-system/internal/handler"
	"github.com/nukedashiso/order-system/internal/infra/db"
	"github.com/nukedashiso/order-system/internal/infra/storage"
	"github.com/nukedashiso/order-system/internal/notify"
	repo "github.com/nukedashiso/order-system/internal/repository"
	"github.com/nukedashiso/order-system/internal/server"
	"github.com/nukedashiso/order-system/internal/usecase"
)

type uuidGenerator struct{}

// 注文IDはuuidのhex先頭12文字（不透明トークン）
func (g *uuidGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

type localClock struct {
	loc *time.Location
}

func (c *localClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build storage backend")
	}
	logger.WithField("backend", cfg.StorageBackend).Info("storage backend selected")

	var notifier usecase.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to init telegram notifier")
		}
		notifier = tg
	}

	idGen := &uuidGenerator{}
	clock := &localClock{loc: cfg.Location}

	orderUC := usecase.NewOrderUsecase(store, idGen, clock, notifier, logger)
	summaryUC := usecase.NewSummaryUsecase(store, logger)
	adminUC := usecase.NewAdminOrderUsecase(store, logger)
	menuUC := usecase.NewMenuUsecase(cfg.ImageDir, idGen, logger)

	orderH := handler.NewOrderHandler(cfg.Shops, orderUC, menuUC, clock, logger)
	adminH := handler.NewAdminOrderHandler(cfg.Shops, adminUC, summaryUC, menuUC, logger)

	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg.ImageDir, orderH, adminH); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// バックエンドはここで1回だけ組み立てる
func buildStore(cfg config.Config, logger *logrus.Logger) (repo.OrderStore, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal:
		return storage.NewCSVStore(cfg.DataDir, cfg.Location, logger), nil

	case config.BackendRemote:
		return storage.NewGitHubStore(githubConfig(cfg), cfg.Location, logger), nil

	case config.BackendRemoteFallback:
		remote := storage.NewGitHubStore(githubConfig(cfg), cfg.Location, logger)
		local := storage.NewCSVStore(cfg.DataDir, cfg.Location, logger)
		return storage.NewFallbackStore(remote, local, logger), nil

	case config.BackendDatabase:
		gormDB, err := db.Connect()
		if err != nil {
			return nil, err
		}
		if err := gormDB.AutoMigrate(&model.Order{}, &model.OrderItem{}); err != nil {
			return nil, err
		}
		return storage.NewGormStore(gormDB), nil
	}

	// config.Loadで弾いているのでここには来ない
	return storage.NewCSVStore(cfg.DataDir, cfg.Location, logger), nil
}

func githubConfig(cfg config.Config) storage.GitHubConfig {
	return storage.GitHubConfig{
		Token:      cfg.GitHub.Token,
		Owner:      cfg.GitHub.Owner,
		Repo:       cfg.GitHub.Repo,
		Branch:     cfg.GitHub.Branch,
		OrdersPath: cfg.GitHub.OrdersPath,
		ItemsPath:  cfg.GitHub.ItemsPath,
	}
}
