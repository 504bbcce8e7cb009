package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// WhatsAppNotification is the Meta Cloud API webhook payload. Status-only
// notifications carry no messages and are ignored.
type WhatsAppNotification struct {
	Object string          `json:"object"`
	Entry  []WhatsAppEntry `json:"entry"`
}

type WhatsAppEntry struct {
	ID      string           `json:"id"`
	Changes []WhatsAppChange `json:"changes"`
}

type WhatsAppChange struct {
	Field string        `json:"field"`
	Value WhatsAppValue `json:"value"`
}

type WhatsAppValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Messages         []WhatsAppMessage `json:"messages"`
}

type WhatsAppMessage struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      WhatsAppText `json:"text"`
}

type WhatsAppText struct {
	Body string `json:"body"`
}

// TextMessages flattens the notification into its text messages, dropping
// media and status entries.
func (n *WhatsAppNotification) TextMessages() []WhatsAppMessage {
	var messages []WhatsAppMessage
	for _, entry := range n.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type == "text" && msg.Text.Body != "" {
					messages = append(messages, msg)
				}
			}
		}
	}
	return messages
}

// WhatsAppSender delivers replies through the Cloud API.
type WhatsAppSender struct {
	http          *resty.Client
	apiBase       string
	token         string
	phoneNumberID string
	log           *zap.Logger
}

func NewWhatsAppSender(token, phoneNumberID string, log *zap.Logger) *WhatsAppSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &WhatsAppSender{
		http:          resty.New().SetTimeout(10 * time.Second),
		apiBase:       graphAPIBase,
		token:         token,
		phoneNumberID: phoneNumberID,
		log:           log,
	}
}

// SendText posts a text reply to the sender's phone number.
func (w *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	url := fmt.Sprintf("%s/%s/messages", w.apiBase, w.phoneNumberID)

	resp, err := w.http.R().
		SetContext(ctx).
		SetAuthToken(w.token).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "text",
			"text":              map[string]string{"body": body},
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}

	if resp.IsError() {
		apiMsg := gjson.GetBytes(resp.Body(), "error.message").String()
		w.log.Error("failed to send whatsapp message",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode()),
			zap.String("error", apiMsg))
		return fmt.Errorf("whatsapp API error: %d: %s", resp.StatusCode(), apiMsg)
	}

	return nil
}
