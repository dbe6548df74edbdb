package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithURL(srv.URL, "TOKEN", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendMessageWithKeyboard(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"chat":{"id":1},"date":0}}`))
	})

	kb := domain.Keyboard{domain.Row(domain.CallbackButton("Buy", "buy_menu"))}
	id, err := client.SendMessageWithKeyboard(context.Background(), 1, "<b>hi</b>", kb)
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	assert.Equal(t, "HTML", got["parse_mode"])

	markup := got["reply_markup"].(map[string]interface{})
	rows := markup["inline_keyboard"].([]interface{})
	button := rows[0].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "buy_menu", button["callback_data"])
}

func TestEditMessageText_NotModifiedIsIgnored(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`))
	})

	err := client.EditMessageText(context.Background(), 1, 2, "same", nil)
	assert.NoError(t, err)
}

func TestAPIErrorIsReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := client.SendMessage(context.Background(), 1, "hello")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Code)
}

func TestDownloadFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getFile":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"F1","file_size":5,"file_path":"documents/course.pdf"}}`))
		case "/file/botTOKEN/documents/course.pdf":
			_, _ = w.Write([]byte("%PDF-"))
		default:
			http.NotFound(w, r)
		}
	})

	data, path, err := client.DownloadFile(context.Background(), "F1")
	require.NoError(t, err)
	assert.Equal(t, "documents/course.pdf", path)
	assert.Equal(t, []byte("%PDF-"), data)
}

func TestAnswerCallbackQuery_TruncatesText(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/answerCallbackQuery", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	})

	long := strings.Repeat("é", 300)
	require.NoError(t, client.AnswerCallbackQuery(context.Background(), "cb-1", long, true))
	assert.Equal(t, "cb-1", got["callback_query_id"])
	assert.LessOrEqual(t, utf8.RuneCountInString(got["text"].(string)), maxCallbackAnswerRunes)
	assert.Equal(t, true, got["show_alert"])
}

func TestPoller_AdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var offsets []float64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getUpdates", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		offsets = append(offsets, req["offset"].(float64))
		if len(offsets) == 1 {
			_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":10,"message":{"message_id":1,"chat":{"id":5},"date":0,"text":"/start"}}]}`))
			return
		}
		cancel()
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	})

	var handled []int64
	poller := NewPoller(client, &Config{PollingTimeout: 1}, func(_ context.Context, u *domain.Update) error {
		handled = append(handled, u.UpdateID)
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, poller.Start(ctx))
	assert.Equal(t, []int64{10}, handled)
	assert.Equal(t, []float64{0, 11}, offsets)
}
