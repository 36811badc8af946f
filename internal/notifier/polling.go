package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received. A non-empty
// return value is sent back as a reply.
type CommandHandler func(command string) string

// StartPolling long-polls for commands from the configured chat. Blocks until
// ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.API.GetUpdatesChan(u)
	defer t.API.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			zap.S().Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if update.Message.Chat.ID != t.ChatID {
				zap.S().Warnf("ignoring command from chat %d", update.Message.Chat.ID)
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			zap.S().Infof("received command: %s", text)
			if reply := handler(text); reply != "" {
				if err := t.Send(reply); err != nil {
					zap.S().Errorf("send reply: %v", err)
				}
			}
		}
	}
}
