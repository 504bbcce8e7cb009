package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hr-assistant/internal/messaging"
)

// TelegramWebhookHandler receives Bot API updates
// @Summary Telegram webhook
// @Description Receive a Telegram update and answer the message through the HR question pipeline
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /webhook/telegram [post]
func (a *API) TelegramWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.telegram == nil {
		writeError(w, http.StatusServiceUnavailable, "telegram integration not configured")
		return
	}

	var update messaging.TelegramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update")
		return
	}

	// Telegram redelivers until it sees 200, so everything past decoding
	// acks regardless of outcome.
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "No question provided"})
		return
	}

	dedupKey := "tg:" + strconv.FormatInt(update.UpdateID, 10)
	if !a.sessions.Touch(dedupKey) {
		a.log.Debug("duplicate telegram update dropped", zap.Int64("update_id", update.UpdateID))
		writeJSON(w, http.StatusOK, map[string]string{"status": "Duplicate ignored"})
		return
	}
	a.sessions.Touch("tg-chat:" + strconv.FormatInt(update.Message.Chat.ID, 10))

	a.enqueueChat(chatJob{
		channel: channelTelegram,
		chatID:  update.Message.Chat.ID,
		text:    update.Message.Text,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "Message processed"})
}

// WhatsAppWebhookHandler receives Meta Cloud API notifications
// @Summary WhatsApp webhook
// @Description Handle the Meta verification handshake (GET) and message notifications (POST)
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /webhook/whatsapp [get]
func (a *API) WhatsAppWebhookHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.verifyWhatsAppWebhook(w, r)
	case http.MethodPost:
		a.receiveWhatsAppNotification(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// verifyWhatsAppWebhook answers Meta's subscription handshake.
func (a *API) verifyWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || token == "" || token != a.cfg.WhatsAppVerifyToken {
		a.log.Warn("whatsapp webhook verification rejected", zap.String("mode", mode))
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

func (a *API) receiveWhatsAppNotification(w http.ResponseWriter, r *http.Request) {
	if a.whatsapp == nil {
		writeError(w, http.StatusServiceUnavailable, "whatsapp integration not configured")
		return
	}

	var notification messaging.WhatsAppNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification")
		return
	}

	messages := notification.TextMessages()
	if len(messages) == 0 {
		// Status updates, read receipts, media: ack and move on.
		writeJSON(w, http.StatusOK, map[string]string{"status": "No message to process"})
		return
	}

	queued := 0
	for _, msg := range messages {
		if !a.sessions.Touch("wa:" + msg.ID) {
			a.log.Debug("duplicate whatsapp message dropped", zap.String("message_id", msg.ID))
			continue
		}
		a.sessions.Touch("wa-chat:" + msg.From)

		a.enqueueChat(chatJob{
			channel:   channelWhatsApp,
			recipient: msg.From,
			text:      msg.Text.Body,
		})
		queued++
	}

	a.log.Info("whatsapp notification received",
		zap.Int("messages", len(messages)),
		zap.Int("queued", queued))

	writeJSON(w, http.StatusOK, map[string]string{"status": "Message processed"})
}
