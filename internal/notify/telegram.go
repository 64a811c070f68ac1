package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
)

// TelegramNotifierは注文確定を幹事のチャットに流す。
// 通知失敗は注文処理に影響させない（ログのみ）。
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logrus.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	logger.WithField("bot", bot.Self.UserName).Info("telegram notifier enabled")

	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (n *TelegramNotifier) OrderSubmitted(shopLabel string, order model.Order, total int64) {
	text := fmt.Sprintf("新しい注文【%s】%s さん ¥%d（%s）", shopLabel, order.UserName, total, order.OrderID)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.WithError(err).WithField("order_id", order.OrderID).Warn("telegram notify failed")
	}
}
