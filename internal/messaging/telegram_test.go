package messaging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTelegramUpdateDecode(t *testing.T) {
	payload := `{
		"update_id": 712,
		"message": {
			"message_id": 9,
			"chat": {"id": 123456789},
			"text": "How many vacation days do I get?"
		}
	}`

	var update TelegramUpdate
	require.NoError(t, json.Unmarshal([]byte(payload), &update))

	assert.Equal(t, int64(712), update.UpdateID)
	require.NotNil(t, update.Message)
	assert.Equal(t, int64(123456789), update.Message.Chat.ID)
	assert.Equal(t, "How many vacation days do I get?", update.Message.Text)
}

func TestTelegramUpdateDecodeWithoutMessage(t *testing.T) {
	var update TelegramUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"update_id": 713}`), &update))
	assert.Nil(t, update.Message)
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "result": {"message_id": 10}}`))
	}))
	defer server.Close()

	sender := NewTelegramSender("test-token", zap.NewNop())
	sender.apiBase = server.URL

	err := sender.SendMessage(context.Background(), 42, "Your remaining PTO is 12 days.")
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "Your remaining PTO is 12 days.", gotBody["text"])
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	}))
	defer server.Close()

	sender := NewTelegramSender("test-token", zap.NewNop())
	sender.apiBase = server.URL

	err := sender.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessageNotOK(t *testing.T) {
	// The Bot API can answer 200 with ok=false.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "description": "Flood control exceeded"}`))
	}))
	defer server.Close()

	sender := NewTelegramSender("test-token", zap.NewNop())
	sender.apiBase = server.URL

	err := sender.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flood control exceeded")
}
