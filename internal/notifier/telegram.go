package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier sends reports to a single chat.
type TelegramNotifier struct {
	API    *tgbotapi.BotAPI
	ChatID int64
}

// NewTelegramNotifier connects to the Bot API with optional proxy support.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{
		Timeout:   60 * time.Second,
		Transport: transport,
	}
	api, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	zap.S().Infof("telegram bot authorized as @%s", api.Self.UserName)
	return &TelegramNotifier{API: api, ChatID: chatID}, nil
}

// Send sends a text message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	if _, err := t.API.Send(tgbotapi.NewMessage(t.ChatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendPhoto sends a PNG with a caption.
func (t *TelegramNotifier) SendPhoto(name string, img []byte, caption string) error {
	photo := tgbotapi.NewPhoto(t.ChatID, tgbotapi.FileBytes{Name: name, Bytes: img})
	photo.Caption = caption
	if _, err := t.API.Send(photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return retry(ctx, maxRetries, time.Second, func() error { return t.Send(text) })
}

// SendPhotoWithRetry sends a photo with exponential backoff retry.
func (t *TelegramNotifier) SendPhotoWithRetry(ctx context.Context, name string, img []byte, caption string, maxRetries int) error {
	return retry(ctx, maxRetries, time.Second, func() error { return t.SendPhoto(name, img, caption) })
}

func retry(ctx context.Context, maxRetries int, base time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * base
		zap.S().Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
