// Package messaging relays chat questions from Telegram and WhatsApp
// webhooks into the question-answering pipeline and delivers the replies.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramUpdate is the webhook payload sent by the Bot API. Only the
// fields this service reads are declared.
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      TelegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}

// TelegramSender delivers replies through the Bot API.
type TelegramSender struct {
	http    *resty.Client
	apiBase string
	token   string
	log     *zap.Logger
}

func NewTelegramSender(token string, log *zap.Logger) *TelegramSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &TelegramSender{
		http:    resty.New().SetTimeout(10 * time.Second),
		apiBase: telegramAPIBase,
		token:   token,
		log:     log,
	}
}

// SendMessage posts a text reply to the chat.
func (t *TelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)

	resp, err := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"chat_id": chatID,
			"text":    text,
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}

	if resp.IsError() || !gjson.GetBytes(resp.Body(), "ok").Bool() {
		desc := gjson.GetBytes(resp.Body(), "description").String()
		t.log.Error("failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Int("status", resp.StatusCode()),
			zap.String("description", desc))
		return fmt.Errorf("telegram API error: %d: %s", resp.StatusCode(), desc)
	}

	return nil
}
